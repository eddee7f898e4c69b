package cart_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tienda-gateway/internal/cart"
	"tienda-gateway/internal/catalog"
	"tienda-gateway/internal/model"
)

var (
	camiseta = model.Product{ID: 1, Name: "Camiseta Básica", Price: decimal.NewFromInt(25000), Stock: model.StockOf(50), Active: true}
	zapatos  = model.Product{ID: 2, Name: "Zapatos Deportivos", Price: decimal.NewFromInt(120000), Stock: model.StockOf(3), Active: true}
	bolso    = model.Product{ID: 3, Name: "Bolso Casual", Price: decimal.NewFromInt(45000), Active: true} // nil stock = unlimited
)

func snapshot(products ...model.Product) *catalog.Snapshot {
	return catalog.NewSnapshot(products)
}

func TestAdd(t *testing.T) {
	t.Run("merges quantities for the same product", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(camiseta, 2))
		require.NoError(t, c.Add(camiseta, 3))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, int64(5), lines[0].Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		c := cart.New()
		err := c.Add(camiseta, 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrInvalidRequest)
		assert.Empty(t, c.Lines())
	})

	t.Run("bounds held quantity by stock", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(zapatos, 3))

		err := c.Add(zapatos, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrOutOfStock)

		// Cart unchanged after the rejected add
		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, int64(3), lines[0].Quantity)
	})

	t.Run("nil stock is unlimited", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(bolso, 10000))
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(zapatos, 1))
		require.NoError(t, c.Add(camiseta, 1))
		require.NoError(t, c.Add(bolso, 1))

		lines := c.Lines()
		require.Len(t, lines, 3)
		assert.Equal(t, []int64{2, 1, 3}, []int64{lines[0].ProductID, lines[1].ProductID, lines[2].ProductID})
	})
}

func TestSetQuantity(t *testing.T) {
	t.Run("replaces quantity", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(camiseta, 2))
		require.NoError(t, c.SetQuantity(camiseta, 7))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, int64(7), lines[0].Quantity)
	})

	t.Run("zero removes the line", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(camiseta, 2))
		require.NoError(t, c.SetQuantity(camiseta, 0))
		assert.Empty(t, c.Lines())
	})

	t.Run("negative removes the line", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.Add(camiseta, 2))
		require.NoError(t, c.SetQuantity(camiseta, -5))
		assert.Empty(t, c.Lines())
	})

	t.Run("bounded by stock", func(t *testing.T) {
		c := cart.New()
		err := c.SetQuantity(zapatos, 4)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrOutOfStock)
		assert.Empty(t, c.Lines())
	})

	t.Run("creates line when absent", func(t *testing.T) {
		c := cart.New()
		require.NoError(t, c.SetQuantity(camiseta, 2))
		require.Len(t, c.Lines(), 1)
	})
}

func TestRemove(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(camiseta, 2))

	c.Remove(camiseta.ID)
	assert.Empty(t, c.Lines())

	// Removing an absent product is a no-op
	c.Remove(camiseta.ID)
	c.Remove(999)
	assert.Empty(t, c.Lines())
}

func TestItemCount(t *testing.T) {
	c := cart.New()
	assert.Equal(t, int64(0), c.ItemCount())

	require.NoError(t, c.Add(camiseta, 2))
	require.NoError(t, c.Add(bolso, 3))
	assert.Equal(t, int64(5), c.ItemCount())
}

func TestTotalUsesLivePrices(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(camiseta, 2))

	total := c.Total(snapshot(camiseta))
	assert.True(t, total.Equal(decimal.NewFromInt(50000)), "total = %s", total)

	// Price change in a fresh snapshot reprices the same cart
	repriced := camiseta
	repriced.Price = decimal.NewFromInt(30000)
	total = c.Total(snapshot(repriced))
	assert.True(t, total.Equal(decimal.NewFromInt(60000)), "total = %s", total)
}

func TestResolve(t *testing.T) {
	c := cart.New()
	require.NoError(t, c.Add(camiseta, 2))
	require.NoError(t, c.Add(zapatos, 1))

	t.Run("joins lines against the snapshot", func(t *testing.T) {
		view := c.Resolve(snapshot(camiseta, zapatos))
		require.Len(t, view.Lines, 2)

		assert.Equal(t, "Camiseta Básica", view.Lines[0].Name)
		assert.True(t, view.Lines[0].Subtotal.Equal(decimal.NewFromInt(50000)))
		assert.True(t, view.Total.Equal(decimal.NewFromInt(170000)))
		assert.Equal(t, int64(3), view.ItemCount)
	})

	t.Run("marks missing products unavailable", func(t *testing.T) {
		view := c.Resolve(snapshot(camiseta)) // zapatos gone from catalog
		require.Len(t, view.Lines, 2)

		assert.False(t, view.Lines[0].Unavailable)
		assert.True(t, view.Lines[1].Unavailable)
		assert.True(t, view.Lines[1].Subtotal.IsZero())

		// Unavailable lines contribute nothing to the total
		assert.True(t, view.Total.Equal(decimal.NewFromInt(50000)))
	})
}

func TestConcurrentAccess(t *testing.T) {
	c := cart.New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Add(bolso, 1)
			c.ItemCount()
			_ = c.Total(snapshot(bolso))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), c.ItemCount())
}

func TestSessions(t *testing.T) {
	s := cart.NewSessions()

	t.Run("creates on first use and reuses", func(t *testing.T) {
		a := s.Get("session-a")
		require.NotNil(t, a)
		require.NoError(t, a.Add(camiseta, 1))

		again := s.Get("session-a")
		assert.Equal(t, int64(1), again.ItemCount())
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		b := s.Get("session-b")
		assert.Equal(t, int64(0), b.ItemCount())
	})

	t.Run("peek does not create", func(t *testing.T) {
		_, ok := s.Peek("nope")
		assert.False(t, ok)
	})

	t.Run("delete drops the cart", func(t *testing.T) {
		s.Delete("session-a")
		_, ok := s.Peek("session-a")
		assert.False(t, ok)
	})
}

func TestAddErrorIsAPIError(t *testing.T) {
	c := cart.New()
	err := c.Add(zapatos, 99)

	var apiErr *model.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Equal(t, "OUT_OF_STOCK", apiErr.Code)
}
