// Package handler provides the HTTP handlers for the storefront gateway API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"tienda-gateway/internal/broadcast"
	"tienda-gateway/internal/cart"
	"tienda-gateway/internal/catalog"
	"tienda-gateway/internal/dispatch"
	"tienda-gateway/internal/metrics"
	"tienda-gateway/internal/model"
	"tienda-gateway/internal/store"
	"tienda-gateway/internal/webhook"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	catalog     catalog.Reader
	sessions    *cart.Sessions
	deepLink    *dispatch.DeepLink
	webhook     *webhook.Handler
	products    store.Store           // nil when the gateway proxies a remote catalog
	broadcaster broadcast.Broadcaster // nil disables update notifications
	storeNumber string
	adminToken  string
	logger      *slog.Logger
}

// Config wires the handler's dependencies.
type Config struct {
	Catalog     catalog.Reader
	Sessions    *cart.Sessions
	DeepLink    *dispatch.DeepLink
	Webhook     *webhook.Handler
	Products    store.Store
	Broadcaster broadcast.Broadcaster
	StoreNumber string
	AdminToken  string
	Logger      *slog.Logger
}

// New creates a Handler.
func New(cfg Config) *Handler {
	return &Handler{
		catalog:     cfg.Catalog,
		sessions:    cfg.Sessions,
		deepLink:    cfg.DeepLink,
		webhook:     cfg.Webhook,
		products:    cfg.Products,
		broadcaster: cfg.Broadcaster,
		storeNumber: cfg.StoreNumber,
		adminToken:  cfg.AdminToken,
		logger:      cfg.Logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Catalog reads and the single-product order link
	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)
	mux.HandleFunc("POST /api/products/{id}/order", h.handleProductOrder)

	// Cart operations, scoped by session
	mux.HandleFunc("GET /api/cart/{session}", h.handleGetCart)
	mux.HandleFunc("PUT /api/cart/{session}", h.handleReplaceCart)
	mux.HandleFunc("DELETE /api/cart/{session}", h.handleClearCart)
	mux.HandleFunc("POST /api/cart/{session}/items", h.handleAddItem)
	mux.HandleFunc("PATCH /api/cart/{session}/items/{id}", h.handleSetQuantity)
	mux.HandleFunc("DELETE /api/cart/{session}/items/{id}", h.handleRemoveItem)
	mux.HandleFunc("POST /api/cart/{session}/order", h.handleCartOrder)

	// WhatsApp Cloud API webhook
	mux.HandleFunc("GET /webhook", h.webhook.Verify)
	mux.HandleFunc("POST /webhook", h.webhook.Receive)

	// Product administration
	if h.products != nil {
		mux.HandleFunc("POST /api/admin/products", h.requireAdmin(h.handleCreateProduct))
		mux.HandleFunc("PUT /api/admin/products/{id}", h.requireAdmin(h.handleUpdateProduct))
		mux.HandleFunc("DELETE /api/admin/products/{id}", h.requireAdmin(h.handleDeleteProduct))
	}

	// Observability
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// requireAdmin guards admin routes with the configured bearer token.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.adminToken == "" {
			h.writeError(w, model.NewUnauthorizedError("admin API disabled"))
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+h.adminToken {
			h.writeError(w, model.NewUnauthorizedError("invalid admin token"))
			return
		}
		next(w, r)
	}
}
