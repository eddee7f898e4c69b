package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tienda-gateway/internal/model"
)

// DefaultGraphBaseURL is the WhatsApp Business Cloud API root.
const DefaultGraphBaseURL = "https://graph.facebook.com/v17.0"

// Graph dispatches messages through the WhatsApp Business Cloud API.
// One Send is one API call; failed deliveries surface as DELIVERY_ERROR
// and are not retried. Duplicate replies are worse than missing ones here.
type Graph struct {
	httpClient *http.Client
	baseURL    string
	phoneID    string
	token      string
	logger     *slog.Logger
}

// NewGraph creates a Graph dispatcher. baseURL may be empty to use the
// production endpoint; tests point it at a local server.
func NewGraph(baseURL, phoneID, token string, logger *slog.Logger) (*Graph, error) {
	if phoneID == "" || token == "" {
		return nil, fmt.Errorf("graph dispatcher requires phone ID and token")
	}
	if baseURL == "" {
		baseURL = DefaultGraphBaseURL
	}
	return &Graph{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		phoneID:    phoneID,
		token:      token,
		logger:     logger,
	}, nil
}

// graphMessage is the Cloud API text message envelope.
type graphMessage struct {
	MessagingProduct string    `json:"messaging_product"`
	To               string    `json:"to"`
	Type             string    `json:"type"`
	Text             graphText `json:"text"`
}

type graphText struct {
	Body string `json:"body"`
}

// Send implements Dispatcher.
func (g *Graph) Send(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(graphMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             graphText{Body: body},
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", g.baseURL, g.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.NewDeliveryError("", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := providerErrorDetail(respBody)
		g.logger.Error("graph delivery failed",
			slog.Int("status", resp.StatusCode),
			slog.String("to", to),
			slog.String("detail", detail),
		)
		return model.NewDeliveryError(detail, fmt.Errorf("status %d", resp.StatusCode))
	}

	g.logger.Info("message delivered", slog.String("to", to))
	return nil
}

// providerErrorDetail extracts the Graph API error payload, falling back to
// the raw body when it does not match the documented shape.
func providerErrorDetail(body []byte) string {
	var graphErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &graphErr); err == nil && graphErr.Error.Message != "" {
		return fmt.Sprintf("%s (type=%s, code=%d)", graphErr.Error.Message, graphErr.Error.Type, graphErr.Error.Code)
	}
	return string(body)
}

var _ Dispatcher = (*Graph)(nil)
