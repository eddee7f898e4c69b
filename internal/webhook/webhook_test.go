package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"tienda-gateway/internal/catalog"
	"tienda-gateway/internal/dispatch"
	"tienda-gateway/internal/model"
)

const verifyToken = "test-verify-token"

// staticReader serves a fixed product list.
type staticReader struct {
	products []model.Product
	err      error
}

func (s staticReader) List(ctx context.Context) ([]model.Product, error) {
	return s.products, s.err
}

func (s staticReader) Get(ctx context.Context, id int64) (model.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, model.NewNotFoundError("product")
}

func newTestHandler(reader catalog.Reader, d dispatch.Dispatcher) *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(verifyToken, "Mi Tienda", reader, d, logger)
}

func TestVerify(t *testing.T) {
	h := newTestHandler(staticReader{}, &dispatch.Mock{})

	tests := []struct {
		name          string
		query         string
		wantStatus    int
		wantChallenge string
	}{
		{
			name:          "valid token echoes challenge",
			query:         "hub.mode=subscribe&hub.verify_token=" + verifyToken + "&hub.challenge=challenge-123",
			wantStatus:    http.StatusOK,
			wantChallenge: "challenge-123",
		},
		{
			name:       "wrong token rejected",
			query:      "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=challenge-123",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "missing token rejected",
			query:      "hub.mode=subscribe&hub.challenge=challenge-123",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong mode rejected",
			query:      "hub.mode=unsubscribe&hub.verify_token=" + verifyToken + "&hub.challenge=challenge-123",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/webhook?"+tt.query, nil)
			rec := httptest.NewRecorder()

			h.Verify(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantChallenge != "" && rec.Body.String() != tt.wantChallenge {
				t.Errorf("body = %q, want challenge echoed verbatim", rec.Body.String())
			}
		})
	}
}

func deliveryPayload(from, body string) string {
	return `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"messages": [{
						"from": "` + from + `",
						"id": "wamid.test",
						"type": "text",
						"text": {"body": "` + body + `"}
					}]
				}
			}]
		}]
	}`
}

func TestReceiveRepliesByIntent(t *testing.T) {
	products := []model.Product{
		{ID: 1, Name: "Camiseta Básica", Price: decimal.NewFromInt(25000), Active: true},
	}

	tests := []struct {
		name     string
		text     string
		wantPart string
	}{
		{"greeting", "hola", "Bienvenido a Mi Tienda"},
		{"catalog", "catalogo", "Camiseta Básica"},
		{"catalog shows prices", "ver productos", "$25.000"},
		{"order", "quiero hacer un pedido", "REALIZAR PEDIDO"},
		{"unknown falls back to menu", "gracias", "¿En qué más puedo ayudarte?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &dispatch.Mock{}
			h := newTestHandler(staticReader{products: products}, mock)

			req := httptest.NewRequest(http.MethodPost, "/webhook",
				strings.NewReader(deliveryPayload("573001112233", tt.text)))
			rec := httptest.NewRecorder()

			h.Receive(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if len(mock.Sent) != 1 {
				t.Fatalf("sent = %d messages, want 1", len(mock.Sent))
			}
			if mock.Sent[0].To != "573001112233" {
				t.Errorf("reply to = %q, want sender", mock.Sent[0].To)
			}
			if !strings.Contains(mock.Sent[0].Body, tt.wantPart) {
				t.Errorf("reply %q does not contain %q", mock.Sent[0].Body, tt.wantPart)
			}
		})
	}
}

func TestReceiveSilentAcknowledgements(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"status-only notification", `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"statuses":[{"status":"delivered"}]}}]}]}`},
		{"empty entry", `{"object":"whatsapp_business_account","entry":[]}`},
		{"no entry at all", `{"object":"whatsapp_business_account"}`},
		{"message without text", `{"entry":[{"changes":[{"value":{"messages":[{"from":"573001112233","type":"image"}]}}]}]}`},
		{"message without sender", `{"entry":[{"changes":[{"value":{"messages":[{"type":"text","text":{"body":"hola"}}]}}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &dispatch.Mock{}
			h := newTestHandler(staticReader{}, mock)

			req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			h.Receive(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if len(mock.Sent) != 0 {
				t.Errorf("no reply expected, got %d", len(mock.Sent))
			}
		})
	}
}

func TestReceiveMalformedPayloadStill200(t *testing.T) {
	mock := &dispatch.Mock{}
	h := newTestHandler(staticReader{}, mock)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 even for malformed payloads", rec.Code)
	}
	if len(mock.Sent) != 0 {
		t.Errorf("no reply expected, got %d", len(mock.Sent))
	}
}

func TestReceiveDispatchFailureStill200(t *testing.T) {
	mock := &dispatch.Mock{SendFunc: func(ctx context.Context, to, body string) error {
		return model.NewDeliveryError("boom", errors.New("status 500"))
	}}
	h := newTestHandler(staticReader{}, mock)

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(deliveryPayload("573001112233", "hola")))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: the delivery itself succeeded", rec.Code)
	}
}

func TestReceiveCatalogErrorFallsBackToMenu(t *testing.T) {
	mock := &dispatch.Mock{}
	h := newTestHandler(staticReader{err: model.NewUpstreamError("catalog", errors.New("down"))}, mock)

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(deliveryPayload("573001112233", "catalogo")))
	rec := httptest.NewRecorder()

	h.Receive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(mock.Sent) != 1 {
		t.Fatalf("sent = %d, want fallback reply", len(mock.Sent))
	}
	if !strings.Contains(mock.Sent[0].Body, "¿En qué más puedo ayudarte?") {
		t.Errorf("expected menu fallback, got %q", mock.Sent[0].Body)
	}
}
