package store

import (
	"context"
	"sync"
	"time"

	"tienda-gateway/internal/model"
)

// Memory is an in-memory Store. Products live only as long as the process;
// deployments that need durability configure Postgres instead.
type Memory struct {
	mu       sync.RWMutex
	products map[int64]model.Product
	order    []int64
	nextID   int64
}

// NewMemory creates a Memory store seeded with the given products.
func NewMemory(seed []model.Product) *Memory {
	m := &Memory{
		products: make(map[int64]model.Product, len(seed)),
		nextID:   1,
	}
	for _, p := range seed {
		if p.ID >= m.nextID {
			m.nextID = p.ID + 1
		}
		m.products[p.ID] = p
		m.order = append(m.order, p.ID)
	}
	return m
}

// List implements Store. Returns active products in insertion order.
func (m *Memory) List(ctx context.Context) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Product, 0, len(m.order))
	for _, id := range m.order {
		if p := m.products[id]; p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get implements Store. Inactive products read as not found.
func (m *Memory) Get(ctx context.Context, id int64) (model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok || !p.Active {
		return model.Product{}, model.NewNotFoundError("product")
	}
	return p, nil
}

// Create implements Store.
func (m *Memory) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := in.Validate(); err != nil {
		return model.Product{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := model.Product{
		ID:          m.nextID,
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	m.nextID++
	m.products[p.ID] = p
	m.order = append(m.order, p.ID)
	return p, nil
}

// Update implements Store. Updating an inactive product is not found,
// matching Get.
func (m *Memory) Update(ctx context.Context, id int64, in ProductInput) (model.Product, error) {
	if err := in.Validate(); err != nil {
		return model.Product{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok || !p.Active {
		return model.Product{}, model.NewNotFoundError("product")
	}

	p.Name = in.Name
	p.Price = in.Price
	p.Category = in.Category
	p.Description = in.Description
	p.ImageURL = in.ImageURL
	p.Stock = in.Stock
	m.products[id] = p
	return p, nil
}

// Delete implements Store. Soft delete: the product is deactivated, not
// removed, so existing cart lines resolve it as unavailable.
func (m *Memory) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok || !p.Active {
		return model.NewNotFoundError("product")
	}
	p.Active = false
	m.products[id] = p
	return nil
}

var _ Store = (*Memory)(nil)
