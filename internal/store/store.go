// Package store persists the product catalog. Two implementations exist:
// Memory for single-instance and demo deployments, and Postgres when
// DATABASE_URL is configured.
//
// Store's read methods match catalog.Reader, so a Store serves directly as
// the catalog source for the web and webhook channels.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"tienda-gateway/internal/model"
)

// ProductInput carries the writable product fields for create and update.
type ProductInput struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Stock       *int64          `json:"stock"`
}

// Validate checks the input's required fields.
func (in ProductInput) Validate() error {
	if in.Name == "" {
		return model.NewValidationError("name", "is required")
	}
	if in.Price.IsNegative() {
		return model.NewValidationError("price", "must not be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return model.NewValidationError("stock", "must not be negative")
	}
	return nil
}

// Store is the product persistence interface. List and Get see active
// products only; Delete is a soft delete that deactivates the product so
// existing cart lines can still resolve it as unavailable.
type Store interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int64) (model.Product, error)
	Create(ctx context.Context, in ProductInput) (model.Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (model.Product, error)
	Delete(ctx context.Context, id int64) error
}
