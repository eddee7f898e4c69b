package handler

import (
	"net/http"
	"strconv"

	"tienda-gateway/internal/compose"
	"tienda-gateway/internal/metrics"
	"tienda-gateway/internal/model"
)

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// handleProductOrder builds the direct-purchase message for one product and
// returns the wa.me link the frontend opens.
func (h *Handler) handleProductOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	msg := compose.SingleProduct(p)
	metrics.Dispatches.WithLabelValues("deeplink", "ok").Inc()
	h.writeJSON(w, http.StatusOK, orderResponse{
		URL:            h.deepLink.URL(h.storeNumber, msg.Text),
		Message:        msg.Text,
		Total:          msg.Total,
		TotalFormatted: model.FormatAmount(msg.Total),
	})
}

// pathID parses a numeric path segment.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}
