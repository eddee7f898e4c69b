// Package model defines data structures shared by the storefront gateway:
// catalog products, chat intents, composed order messages, and the error
// taxonomy used across handlers and dispatchers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the read-only catalog view of a sellable item.
// The product store owns the row; everything else re-fetches instead of
// caching indefinitely, since price and stock can change between requests.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"` // non-negative, whole pesos
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`

	// Stock is nil for unlimited availability. A defined value bounds the
	// quantity any cart may hold for this product.
	Stock *int64 `json:"stock,omitempty"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// InStock reports whether at least qty more units can be sold on top of
// the quantity already held. Nil stock means unlimited.
func (p Product) InStock(held, qty int64) bool {
	if p.Stock == nil {
		return true
	}
	return held+qty <= *p.Stock
}

// StockOf is a convenience for building Product literals with bounded stock.
func StockOf(n int64) *int64 { return &n }
