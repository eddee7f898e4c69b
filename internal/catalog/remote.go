package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tienda-gateway/internal/model"
	"tienda-gateway/internal/transport"
)

// userAgent identifies this client to upstream servers.
// Hosted store backends behind CDNs rate-limit requests without one.
const userAgent = "TiendaGateway/1.0"

// RemoteReader fetches products from a remote product store API:
// GET {base}/api/products and GET {base}/api/products/{id}.
type RemoteReader struct {
	httpClient *http.Client
	baseURL    string
}

// NewRemote creates a RemoteReader for the given store base URL.
func NewRemote(baseURL string) (*RemoteReader, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}

	// Chrome TLS fingerprint transport avoids JA3-based rate limiting on
	// CDN-fronted store backends. See internal/transport for rationale.
	return &RemoteReader{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport.NewChromeTransport(30 * time.Second),
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// List implements Reader.
func (r *RemoteReader) List(ctx context.Context) ([]model.Product, error) {
	body, err := r.get(ctx, "/api/products")
	if err != nil {
		return nil, err
	}

	var products []model.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("parsing product list: %w", err)
	}
	return products, nil
}

// Get implements Reader.
func (r *RemoteReader) Get(ctx context.Context, id int64) (model.Product, error) {
	body, err := r.get(ctx, fmt.Sprintf("/api/products/%d", id))
	if err != nil {
		return model.Product{}, err
	}

	var p model.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return model.Product{}, fmt.Errorf("parsing product: %w", err)
	}
	return p, nil
}

func (r *RemoteReader) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, model.NewUpstreamError("catalog", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	return body, nil
}

// parseErrorResponse converts a store API error to an APIError.
func parseErrorResponse(statusCode int, body []byte) error {
	var storeErr struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	json.Unmarshal(body, &storeErr) // Best effort parse

	switch statusCode {
	case 404:
		return model.NewNotFoundError("product")
	case 429:
		return model.NewRateLimitError("catalog")
	default:
		return model.NewUpstreamError("catalog",
			fmt.Errorf("status %d: %s - %s", statusCode, storeErr.Error.Code, storeErr.Error.Message))
	}
}
