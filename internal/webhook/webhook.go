// Package webhook implements the WhatsApp Cloud API webhook endpoint: the
// GET verification handshake and POST message deliveries, replying to
// inbound messages according to their classified intent.
package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"tienda-gateway/internal/catalog"
	"tienda-gateway/internal/dispatch"
	"tienda-gateway/internal/intent"
	"tienda-gateway/internal/metrics"
	"tienda-gateway/internal/middleware"
	"tienda-gateway/internal/model"
)

// maxBodySize bounds webhook request bodies. Cloud API notifications are
// small; anything larger is not a notification.
const maxBodySize = 1 << 20

// Handler serves the webhook endpoint.
type Handler struct {
	verifyToken string
	storeName   string
	catalog     catalog.Reader
	dispatcher  dispatch.Dispatcher
	logger      *slog.Logger
}

// NewHandler creates the webhook handler.
func NewHandler(verifyToken, storeName string, reader catalog.Reader, d dispatch.Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		verifyToken: verifyToken,
		storeName:   storeName,
		catalog:     reader,
		dispatcher:  d,
		logger:      logger,
	}
}

// Verify handles the GET verification handshake. Meta sends hub.mode,
// hub.verify_token and hub.challenge; a matching token echoes the challenge
// back verbatim, anything else is 403.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("webhook verified")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	h.logger.Warn("webhook verification rejected", slog.String("mode", mode))
	w.WriteHeader(http.StatusForbidden)
}

// Receive handles POST message deliveries. The endpoint always answers 200
// once the payload has been read: a non-2xx makes Meta retry the delivery,
// and a payload we cannot parse now will not parse on retry either.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("request_id", middleware.RequestIDFromContext(r.Context())))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		logger.Error("reading webhook body", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusOK)
		return
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		metrics.MalformedWebhooks.Inc()
		logger.Warn("malformed webhook payload", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusOK)
		return
	}

	from, text, ok := p.firstMessage()
	if !ok {
		// Status updates and non-text notifications: acknowledged, ignored.
		w.WriteHeader(http.StatusOK)
		return
	}

	logger.Info("message received", slog.String("from", from))

	h.reply(r, logger, from, text)
	w.WriteHeader(http.StatusOK)
}

// reply classifies the message and dispatches the matching response.
// Dispatch failures are logged, never surfaced to Meta: the delivery itself
// succeeded.
func (h *Handler) reply(r *http.Request, logger *slog.Logger, from, text string) {
	ctx := r.Context()

	in := intent.Interpret(text)
	metrics.InboundMessages.WithLabelValues(string(in.Kind)).Inc()
	logger.Info("message parsed", slog.String("intent", string(in.Kind)))

	var response string
	switch in.Kind {
	case model.IntentCatalog:
		snap, err := catalog.Take(ctx, h.catalog)
		if err != nil {
			logger.Error("catalog read failed", slog.String("error", err.Error()))
			response = menuReply()
			break
		}
		response = catalogReply(snap)
	case model.IntentGreeting:
		response = welcomeReply(h.storeName)
	case model.IntentOrder:
		response = orderInfoReply()
	default:
		response = menuReply()
	}

	if err := h.dispatcher.Send(ctx, from, response); err != nil {
		metrics.Dispatches.WithLabelValues("graph", "error").Inc()
		logger.Error("reply dispatch failed",
			slog.String("to", from),
			slog.String("error", err.Error()),
		)
		return
	}

	metrics.Dispatches.WithLabelValues("graph", "ok").Inc()
	logger.Info("message replied", slog.String("to", from))
}
