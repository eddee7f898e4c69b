// Package cart implements the client-scoped cart ledger. A cart stores
// product references and quantities only; prices are resolved against a
// catalog snapshot at read time, so totals always reflect the live catalog.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"tienda-gateway/internal/catalog"
	"tienda-gateway/internal/model"
)

// Line is one cart entry: a product reference and a quantity.
type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// ResolvedLine is a cart line joined against a catalog snapshot.
// Unavailable marks lines whose product no longer exists in the catalog;
// they render as unavailable and contribute nothing to the total.
type ResolvedLine struct {
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Unavailable bool            `json:"unavailable,omitempty"`
}

// View is the cart as presented to clients: resolved lines plus the total.
type View struct {
	Lines     []ResolvedLine  `json:"lines"`
	ItemCount int64           `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// Cart is one client's cart. Lines keep insertion order; adding an already
// present product merges quantities in place. Safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add increments the product's quantity, creating the line if absent.
// The resulting held quantity is bounded by the product's stock:
// exceeding it returns model.ErrOutOfStock and leaves the cart unchanged.
func (c *Cart) Add(p model.Product, qty int64) error {
	if qty <= 0 {
		return model.NewValidationError("quantity", "must be positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	held := int64(0)
	idx := -1
	for i, l := range c.lines {
		if l.ProductID == p.ID {
			held = l.Quantity
			idx = i
			break
		}
	}

	if !p.InStock(held, qty) {
		return model.NewOutOfStockError(p.Name)
	}

	if idx >= 0 {
		c.lines[idx].Quantity += qty
	} else {
		c.lines = append(c.lines, Line{ProductID: p.ID, Quantity: qty})
	}
	return nil
}

// SetQuantity replaces the product's held quantity. Zero or negative removes
// the line. The new quantity is bounded by the product's stock.
func (c *Cart) SetQuantity(p model.Product, qty int64) error {
	if qty <= 0 {
		c.Remove(p.ID)
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !p.InStock(0, qty) {
		return model.NewOutOfStockError(p.Name)
	}

	for i, l := range c.lines {
		if l.ProductID == p.ID {
			c.lines[i].Quantity = qty
			return nil
		}
	}
	c.lines = append(c.lines, Line{ProductID: p.ID, Quantity: qty})
	return nil
}

// Remove deletes the product's line. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, l := range c.lines {
		if l.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ItemCount returns the sum of quantities across all lines.
func (c *Cart) ItemCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Total computes the cart total against the snapshot's live prices.
// Lines whose product is missing from the snapshot are skipped.
func (c *Cart) Total(snap *catalog.Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines() {
		p, ok := snap.Lookup(l.ProductID)
		if !ok {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}

// Resolve joins the cart against a catalog snapshot, producing the client
// view with per-line subtotals and the live-priced total.
func (c *Cart) Resolve(snap *catalog.Snapshot) View {
	lines := c.Lines()
	view := View{
		Lines: make([]ResolvedLine, 0, len(lines)),
		Total: decimal.Zero,
	}

	for _, l := range lines {
		view.ItemCount += l.Quantity

		p, ok := snap.Lookup(l.ProductID)
		if !ok {
			view.Lines = append(view.Lines, ResolvedLine{
				ProductID:   l.ProductID,
				Quantity:    l.Quantity,
				Subtotal:    decimal.Zero,
				Unavailable: true,
			})
			continue
		}

		subtotal := p.Price.Mul(decimal.NewFromInt(l.Quantity))
		view.Lines = append(view.Lines, ResolvedLine{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  l.Quantity,
			UnitPrice: p.Price,
			Subtotal:  subtotal,
		})
		view.Total = view.Total.Add(subtotal)
	}
	return view
}
