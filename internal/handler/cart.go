package handler

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"tienda-gateway/internal/cart"
	"tienda-gateway/internal/catalog"
	"tienda-gateway/internal/compose"
	"tienda-gateway/internal/metrics"
	"tienda-gateway/internal/model"
	"tienda-gateway/internal/reconcile"
)

// addItemRequest is the body for POST /api/cart/{session}/items.
type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// setQuantityRequest is the body for PATCH /api/cart/{session}/items/{id}.
type setQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// replaceCartRequest is the body for PUT /api/cart/{session}.
type replaceCartRequest struct {
	Lines []cart.Line `json:"lines"`
}

// orderResponse carries the composed order message and its wa.me link.
type orderResponse struct {
	URL            string          `json:"url"`
	Message        string          `json:"message"`
	Total          decimal.Decimal `json:"total"`
	TotalFormatted string          `json:"total_formatted"`
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c := h.sessions.Get(r.PathValue("session"))

	snap, err := catalog.Take(r.Context(), h.catalog)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c.Resolve(snap))
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	c := h.sessions.Get(r.PathValue("session"))

	p, err := h.catalog.Get(r.Context(), req.ProductID)
	if err != nil {
		// Absent products are a no-op for cart mutations; only direct
		// lookups surface NOT_FOUND.
		if errors.Is(err, model.ErrNotFound) {
			h.renderCart(w, r, c)
			return
		}
		h.writeError(w, err)
		return
	}

	if err := c.Add(p, req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}

	h.renderCart(w, r, c)
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req setQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	c := h.sessions.Get(r.PathValue("session"))

	// Zero or negative removes the line without needing the product.
	if req.Quantity <= 0 {
		c.Remove(id)
		h.renderCart(w, r, c)
		return
	}

	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			h.renderCart(w, r, c)
			return
		}
		h.writeError(w, err)
		return
	}
	if err := c.SetQuantity(p, req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}

	h.renderCart(w, r, c)
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	c := h.sessions.Get(r.PathValue("session"))
	c.Remove(id)
	h.renderCart(w, r, c)
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	h.sessions.Get(r.PathValue("session")).Clear()
	w.WriteHeader(http.StatusNoContent)
}

// handleReplaceCart gives PUT stateless replace semantics: the desired lines
// are diffed against the current cart and only the delta is applied,
// Remove → Update → Add.
func (h *Handler) handleReplaceCart(w http.ResponseWriter, r *http.Request) {
	var req replaceCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	c := h.sessions.Get(r.PathValue("session"))

	current := make([]reconcile.CurrentLine, 0)
	for _, l := range c.Lines() {
		current = append(current, reconcile.CurrentLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	desired := make([]reconcile.DesiredLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.Quantity <= 0 {
			continue
		}
		desired = append(desired, reconcile.DesiredLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	diff := reconcile.DiffLines(current, desired)

	for _, rm := range diff.ToRemove {
		c.Remove(rm.ProductID)
	}
	for _, up := range diff.ToUpdate {
		p, err := h.catalog.Get(r.Context(), up.ProductID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			h.writeError(w, err)
			return
		}
		if err := c.SetQuantity(p, up.NewQuantity); err != nil {
			h.writeError(w, err)
			return
		}
	}
	for _, add := range diff.ToAdd {
		p, err := h.catalog.Get(r.Context(), add.ProductID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			h.writeError(w, err)
			return
		}
		if err := c.SetQuantity(p, add.Quantity); err != nil {
			h.writeError(w, err)
			return
		}
	}

	h.renderCart(w, r, c)
}

// handleCartOrder composes the full-cart order message and returns the
// wa.me link the frontend opens.
func (h *Handler) handleCartOrder(w http.ResponseWriter, r *http.Request) {
	c := h.sessions.Get(r.PathValue("session"))

	snap, err := catalog.Take(r.Context(), h.catalog)
	if err != nil {
		h.writeError(w, err)
		return
	}

	msg, err := compose.CartOrder(c.Resolve(snap))
	if err != nil {
		h.writeError(w, err)
		return
	}

	metrics.Dispatches.WithLabelValues("deeplink", "ok").Inc()
	h.writeJSON(w, http.StatusOK, orderResponse{
		URL:            h.deepLink.URL(h.storeNumber, msg.Text),
		Message:        msg.Text,
		Total:          msg.Total,
		TotalFormatted: model.FormatAmount(msg.Total),
	})
}

// renderCart responds with the cart resolved against a fresh snapshot.
func (h *Handler) renderCart(w http.ResponseWriter, r *http.Request, c *cart.Cart) {
	snap, err := catalog.Take(r.Context(), h.catalog)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c.Resolve(snap))
}
