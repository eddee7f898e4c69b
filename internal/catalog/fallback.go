package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tienda-gateway/internal/metrics"
	"tienda-gateway/internal/model"
)

// FallbackReader is the authoritative remote read path with a defined
// fallback order: remote → last-good cache → built-in defaults. The update
// broadcast drives on-demand refreshes; polling is kept only as a
// bounded-rate safety net.
type FallbackReader struct {
	remote Reader
	logger *slog.Logger

	mu     sync.RWMutex
	cached []model.Product
}

// NewFallback wraps a remote reader with cache and default fallbacks.
func NewFallback(remote Reader, logger *slog.Logger) *FallbackReader {
	return &FallbackReader{remote: remote, logger: logger}
}

// List implements Reader. A successful remote read replaces the cache;
// failures serve the last-good cache, then the built-in defaults.
func (f *FallbackReader) List(ctx context.Context) ([]model.Product, error) {
	products, err := f.remote.List(ctx)
	if err == nil {
		f.mu.Lock()
		f.cached = products
		f.mu.Unlock()
		return products, nil
	}

	f.logger.Warn("remote catalog unavailable, serving fallback", slog.String("error", err.Error()))

	f.mu.RLock()
	cached := f.cached
	f.mu.RUnlock()
	if len(cached) > 0 {
		metrics.CatalogFallbacks.WithLabelValues("cache").Inc()
		return cached, nil
	}

	metrics.CatalogFallbacks.WithLabelValues("defaults").Inc()
	return DefaultProducts(), nil
}

// Get implements Reader. Falls back to a lookup within List's fallback
// result so both paths agree on what the catalog currently contains.
func (f *FallbackReader) Get(ctx context.Context, id int64) (model.Product, error) {
	p, err := f.remote.Get(ctx, id)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, model.ErrNotFound) {
		return model.Product{}, err
	}

	products, listErr := f.List(ctx)
	if listErr != nil {
		return model.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, model.NewNotFoundError("product")
}

// Refresh re-fetches the remote catalog, refreshing the cache as a side
// effect of List. Invoked by the update broadcast subscription.
func (f *FallbackReader) Refresh(ctx context.Context) {
	if _, err := f.List(ctx); err != nil {
		f.logger.Warn("catalog refresh failed", slog.String("error", err.Error()))
	}
}

// StartPolling refreshes the cache at the given interval until ctx is done.
// This is the safety net for missed broadcasts, not the primary refresh path.
func (f *FallbackReader) StartPolling(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				f.Refresh(ctx)
			}
		}
	}()
}

// DefaultProducts returns the built-in demo catalog served when neither the
// remote store nor a cached copy is available.
func DefaultProducts() []model.Product {
	return []model.Product{
		{
			ID:          1,
			Name:        "Camiseta Básica",
			Price:       decimal.NewFromInt(25000),
			Category:    "Ropa",
			Description: "Camiseta 100% algodón de alta calidad",
			Stock:       model.StockOf(50),
			Active:      true,
		},
		{
			ID:          2,
			Name:        "Zapatos Deportivos",
			Price:       decimal.NewFromInt(120000),
			Category:    "Calzado",
			Description: "Zapatos deportivos para running y ejercicio",
			Stock:       model.StockOf(25),
			Active:      true,
		},
		{
			ID:          3,
			Name:        "Bolso Casual",
			Price:       decimal.NewFromInt(45000),
			Category:    "Accesorios",
			Description: "Bolso casual perfecto para el día a día",
			Stock:       model.StockOf(15),
			Active:      true,
		},
	}
}
