package models

import (
	rndm "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/apperr"
)

func activeProduct(id string, price float64, stock int) *Product {
	return &Product{
		ProductID: id,
		Name:      "product " + id,
		Price:     price,
		Stock:     stock,
		IsActive:  true,
	}
}

func TestCartAddItemMergesLines(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("p1", 19.99, 10)

	require.NoError(t, c.AddItem(p, 2))
	require.NoError(t, c.AddItem(p, 3))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, 5, c.TotalItems)
	assert.Equal(t, 99.95, c.TotalPrice)
}

func TestCartAddItemRejectsBadQuantity(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("p1", 10, 10)

	err := c.AddItem(p, 0)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Empty(t, c.Lines)
}

func TestCartAddItemRejectsInactiveProduct(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("p1", 10, 10)
	p.IsActive = false

	err := c.AddItem(p, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.InsufficientStock, apperr.KindOf(err))
}

func TestCartAddItemStockCoversExistingLine(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("p1", 10, 5)

	require.NoError(t, c.AddItem(p, 3))

	// 3 already in the cart, 3 more would exceed the 5 in stock.
	err := c.AddItem(p, 3)
	require.Error(t, err)
	assert.Equal(t, apperr.InsufficientStock, apperr.KindOf(err))
	assert.Equal(t, 3, c.Lines[0].Quantity)
}

func TestCartSetItemQuantity(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("p1", 10, 10)
	require.NoError(t, c.AddItem(p, 2))

	// Price snapshot refreshes on quantity update.
	p.Price = 12.50
	require.NoError(t, c.SetItemQuantity(p, 4))
	assert.Equal(t, 4, c.Lines[0].Quantity)
	assert.Equal(t, 12.50, c.Lines[0].Price)
	assert.Equal(t, 50.0, c.TotalPrice)
}

func TestCartSetItemQuantityZeroRemoves(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("p1", 10, 10)
	require.NoError(t, c.AddItem(p, 2))

	require.NoError(t, c.SetItemQuantity(p, 0))
	assert.Empty(t, c.Lines)
	assert.Equal(t, 0, c.TotalItems)
	assert.Equal(t, 0.0, c.TotalPrice)
}

func TestCartSetItemQuantityMissingLine(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("p1", 10, 10)

	err := c.SetItemQuantity(p, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCartSetItemQuantityZeroOnAbsentLineIsNoop(t *testing.T) {
	c := NewCart("u1")
	require.NoError(t, c.AddItem(activeProduct("p1", 10, 10), 2))

	// Dropping to zero behaves like removal, so an absent line is fine.
	require.NoError(t, c.SetItemQuantity(activeProduct("p2", 5, 10), 0))
	require.NoError(t, c.SetItemQuantity(activeProduct("p2", 5, 10), -1))
	assert.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.TotalItems)
}

func TestCartRemoveItemAbsentIsNoop(t *testing.T) {
	c := NewCart("u1")
	p := activeProduct("p1", 10, 10)
	require.NoError(t, c.AddItem(p, 1))

	c.RemoveItem("nope")
	assert.Len(t, c.Lines, 1)
}

func TestCartClear(t *testing.T) {
	c := NewCart("u1")
	require.NoError(t, c.AddItem(activeProduct("p1", 10, 10), 2))
	require.NoError(t, c.AddItem(activeProduct("p2", 5, 10), 1))

	c.Clear()
	assert.Empty(t, c.Lines)
	assert.Equal(t, 0, c.TotalItems)
	assert.Equal(t, 0.0, c.TotalPrice)
}

// AddItem must succeed exactly when stock covers the existing line plus the
// new quantity, across random (stock, existing, add) triples.
func TestCartAddItemStockPrecondition(t *testing.T) {
	rng := rndm.New(rndm.NewSource(11))

	for i := 0; i < 500; i++ {
		stock := rng.Intn(20)
		existing := rng.Intn(15)
		add := 1 + rng.Intn(10)

		c := NewCart("u1")
		if existing > 0 {
			seed := activeProduct("p1", 9.99, existing)
			require.NoError(t, c.AddItem(seed, existing))
		}

		p := activeProduct("p1", 9.99, stock)
		err := c.AddItem(p, add)
		if stock >= existing+add {
			require.NoError(t, err, "stock=%d existing=%d add=%d", stock, existing, add)
			require.Equal(t, existing+add, c.TotalItems)
		} else {
			require.Error(t, err, "stock=%d existing=%d add=%d", stock, existing, add)
			require.Equal(t, apperr.InsufficientStock, apperr.KindOf(err))
			require.Equal(t, existing, c.TotalItems)
		}
	}
}

// Totals must always equal the sums over the lines no matter what sequence
// of mutations produced them.
func TestCartTotalsStayConsistent(t *testing.T) {
	rng := rndm.New(rndm.NewSource(7))
	c := NewCart("u1")
	catalog := []*Product{
		activeProduct("p1", 3.25, 50),
		activeProduct("p2", 19.99, 50),
		activeProduct("p3", 0.99, 50),
	}

	for i := 0; i < 200; i++ {
		p := catalog[rng.Intn(len(catalog))]
		switch rng.Intn(3) {
		case 0:
			c.AddItem(p, 1+rng.Intn(5))
		case 1:
			c.SetItemQuantity(p, rng.Intn(8))
		case 2:
			c.RemoveItem(p.ProductID)
		}

		wantItems := 0
		wantPrice := 0.0
		for _, l := range c.Lines {
			wantItems += l.Quantity
			wantPrice += float64(l.Quantity) * l.Price
		}
		require.Equal(t, wantItems, c.TotalItems, "step %d", i)
		require.InDelta(t, wantPrice, c.TotalPrice, 0.005, "step %d", i)
	}
}
