package models

import (
	"time"

	"storefront/apperr"
	"storefront/utils"
)

// CartLine is one product entry in a user's cart. Price is a snapshot taken
// when the line was added or last updated; it may go stale relative to the
// live product until refreshed.
type CartLine struct {
	ProductID string  `json:"productId" bson:"productid"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

// Cart is the single per-user cart. Totals are derived and recomputed on
// every mutation before the document is persisted, never patched separately.
type Cart struct {
	UserID     string     `json:"userId" bson:"userid"`
	Lines      []CartLine `json:"items" bson:"items"`
	TotalItems int        `json:"totalItems" bson:"totalitems"`
	TotalPrice float64    `json:"totalPrice" bson:"totalprice"`
	CreatedAt  time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updated_at"`
}

func NewCart(userID string) *Cart {
	now := time.Now()
	return &Cart{
		UserID:    userID,
		Lines:     []CartLine{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) lineIndex(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Recompute rebuilds the derived totals from the lines.
func (c *Cart) Recompute() {
	items := 0
	price := 0.0
	for _, l := range c.Lines {
		items += l.Quantity
		price += float64(l.Quantity) * l.Price
	}
	c.TotalItems = items
	c.TotalPrice = utils.Round2(price)
	c.UpdatedAt = time.Now()
}

// AddItem merges qty into an existing line or appends a new one capturing
// the product's current price. The product must be active and have enough
// stock to cover the existing line plus the new quantity.
func (c *Cart) AddItem(p *Product, qty int) error {
	if qty < 1 {
		return apperr.New(apperr.Validation, "quantity must be at least 1")
	}
	if !p.IsActive {
		return apperr.Newf(apperr.InsufficientStock, "product %q is not available", p.Name)
	}

	existing := 0
	if i := c.lineIndex(p.ProductID); i >= 0 {
		existing = c.Lines[i].Quantity
	}
	if p.Stock < existing+qty {
		return apperr.Newf(apperr.InsufficientStock,
			"insufficient stock for %q: %d available, %d requested", p.Name, p.Stock, existing+qty)
	}

	if i := c.lineIndex(p.ProductID); i >= 0 {
		c.Lines[i].Quantity += qty
	} else {
		c.Lines = append(c.Lines, CartLine{
			ProductID: p.ProductID,
			Name:      p.Name,
			Quantity:  qty,
			Price:     p.Price,
		})
	}
	c.Recompute()
	return nil
}

// SetItemQuantity replaces a line's quantity, refreshing its price snapshot
// to the product's current price. A quantity of zero or less removes the
// line, and like RemoveItem is a no-op when the line is absent.
func (c *Cart) SetItemQuantity(p *Product, qty int) error {
	if qty <= 0 {
		c.RemoveItem(p.ProductID)
		return nil
	}
	i := c.lineIndex(p.ProductID)
	if i < 0 {
		return apperr.Newf(apperr.NotFound, "product %q is not in the cart", p.Name)
	}
	if p.Stock < qty {
		return apperr.Newf(apperr.InsufficientStock,
			"insufficient stock for %q: %d available, %d requested", p.Name, p.Stock, qty)
	}
	c.Lines[i].Quantity = qty
	c.Lines[i].Price = p.Price
	c.Lines[i].Name = p.Name
	c.Recompute()
	return nil
}

// RemoveItem drops the line for productID. Removing an absent line is a
// no-op.
func (c *Cart) RemoveItem(productID string) {
	if i := c.lineIndex(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
	c.Recompute()
}

// Clear empties the cart. The document itself persists.
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
	c.Recompute()
}
