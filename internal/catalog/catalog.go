// Package catalog exposes the read-only view of sellable products.
// It defines the single authoritative Reader interface consumed by the cart,
// the webhook channel, and the web handlers, plus the point-in-time Snapshot
// those components operate on.
package catalog

import (
	"context"

	"tienda-gateway/internal/model"
)

// Reader is the Catalog Read interface.
// List returns all active products; Get returns one by ID or
// model.ErrNotFound for absent/inactive products.
type Reader interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int64) (model.Product, error)
}

// Snapshot is an immutable point-in-time view of the catalog, taken per
// request. Stock can change between requests, so snapshots are never held
// across request boundaries.
type Snapshot struct {
	Products []model.Product
	byID     map[int64]model.Product
}

// Take builds a snapshot from the reader's current product list.
func Take(ctx context.Context, r Reader) (*Snapshot, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return NewSnapshot(products), nil
}

// NewSnapshot builds a snapshot from an explicit product list.
func NewSnapshot(products []model.Product) *Snapshot {
	byID := make(map[int64]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Snapshot{Products: products, byID: byID}
}

// Lookup returns the product by ID. A missing product is not an error here:
// cart rendering must tolerate lines whose product disappeared from a
// refreshed catalog.
func (s *Snapshot) Lookup(id int64) (model.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}
