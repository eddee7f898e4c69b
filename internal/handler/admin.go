package handler

import (
	"log/slog"
	"net/http"

	"tienda-gateway/internal/store"
)

// Admin product CRUD. Writes notify the catalog-updated broadcast so every
// gateway instance refreshes its cached catalog.

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in store.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.notifyCatalogUpdated(r)
	h.writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	var in store.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, err)
		return
	}

	p, err := h.products.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.notifyCatalogUpdated(r)
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}

	h.notifyCatalogUpdated(r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) notifyCatalogUpdated(r *http.Request) {
	if h.broadcaster == nil {
		return
	}
	if err := h.broadcaster.NotifyCatalogUpdated(r.Context()); err != nil {
		h.logger.Warn("catalog update broadcast failed", slog.String("error", err.Error()))
	}
}
