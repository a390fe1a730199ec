package orders

import (
	"context"
	"log"
	"time"

	"storefront/apperr"
	"storefront/models"
	"storefront/mq"
	"storefront/payment"
	"storefront/utils"
)

// Business rules fixed by the product owners: flat 8% tax, free shipping at
// $50, flat fee below.
const (
	TaxRate               = 0.08
	FreeShippingThreshold = 50.0
	FlatShippingFee       = 5.99
)

// ShippingCost applies the free-above-threshold rule.
func ShippingCost(subtotal float64) float64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// CartStore is what checkout needs from the cart component.
type CartStore interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, c *models.Cart) error
}

// CatalogStore is what checkout needs from the product catalog.
type CatalogStore interface {
	GetByID(ctx context.Context, productID string) (*models.Product, error)
	DecrementStock(ctx context.Context, productID string, qty int) error
}

// OrderStore is the order persistence seam.
type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	Update(ctx context.Context, o *models.Order) error
}

// Receipt is the summary returned to the buyer after a successful checkout.
type Receipt struct {
	OrderNumber   string             `json:"orderNumber"`
	Items         []models.OrderItem `json:"items"`
	Subtotal      float64            `json:"subtotal"`
	ShippingCost  float64            `json:"shippingCost"`
	Tax           float64            `json:"tax"`
	Total         float64            `json:"total"`
	TransactionID string             `json:"transactionId"`
	IssuedAt      time.Time          `json:"issuedAt"`
}

type CheckoutInput struct {
	UserID          string
	ShippingAddress models.ShippingAddress
	PaymentMethod   string
	Notes           string
}

type CheckoutResult struct {
	Order   *models.Order  `json:"order"`
	Payment payment.Result `json:"payment"`
	Receipt *Receipt       `json:"receipt,omitempty"`
}

// CheckoutService turns a cart into an order. The sequence is deliberately
// not atomic: the order persists even when payment fails, and a stock
// decrement failing after payment succeeded is logged but not compensated.
// A reconciliation job would be needed to close that gap.
type CheckoutService struct {
	carts   CartStore
	catalog CatalogStore
	orders  OrderStore
	gateway payment.Gateway
	events  mq.Publisher
}

func NewCheckoutService(carts CartStore, catalog CatalogStore, orders OrderStore, gateway payment.Gateway, events mq.Publisher) *CheckoutService {
	return &CheckoutService{
		carts:   carts,
		catalog: catalog,
		orders:  orders,
		gateway: gateway,
		events:  events,
	}
}

// Checkout runs the full pipeline: load cart, verify availability, persist
// the order, charge, then settle stock and cart on success.
func (s *CheckoutService) Checkout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	c, err := s.carts.GetOrCreate(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(c.Lines) == 0 {
		return nil, apperr.New(apperr.EmptyCart, "cart is empty")
	}

	// Verify every line up front; the first unavailable product aborts the
	// whole attempt so no partial order is created.
	for _, line := range c.Lines {
		p, err := s.catalog.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, apperr.Newf(apperr.InsufficientStock, "product %q is no longer available", p.Name)
		}
		if p.Stock < line.Quantity {
			return nil, apperr.Newf(apperr.InsufficientStock,
				"insufficient stock for %q: %d available, %d requested", p.Name, p.Stock, line.Quantity)
		}
	}

	order := buildOrder(c, in)
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "order-created", order.OrderID, order.UserID)

	result, err := s.gateway.Charge(ctx, payment.Request{
		Amount:   order.Total,
		Currency: "USD",
		Method:   order.PaymentMethod,
	})
	if err != nil {
		// The gateway refused to attempt the charge. The order stays
		// pending/failed; stock and cart are untouched.
		order.PaymentStatus = models.PaymentFailed
		order.Payment = &models.PaymentRecord{Reason: err.Error(), ProcessedAt: time.Now()}
		if uerr := s.orders.Update(ctx, order); uerr != nil {
			log.Printf("checkout: persist gateway error on %s: %v", order.OrderID, uerr)
		}
		return nil, err
	}

	if !result.Success {
		order.PaymentStatus = models.PaymentFailed
		order.Payment = &models.PaymentRecord{Reason: result.Reason, ProcessedAt: result.ProcessedAt}
		if err := s.orders.Update(ctx, order); err != nil {
			return nil, err
		}
		s.events.Emit(ctx, "order-payment-failed", order.OrderID, order.UserID)
		return &CheckoutResult{Order: order, Payment: result}, nil
	}

	order.PaymentStatus = models.PaymentPaid
	order.Payment = &models.PaymentRecord{TransactionID: result.TransactionID, ProcessedAt: result.ProcessedAt}
	if err := Transition(order, models.OrderConfirmed, "system", "payment captured"); err != nil {
		return nil, err
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	s.events.Emit(ctx, "order-paid", order.OrderID, order.UserID)

	// Sequential, best-effort decrements. A failure here after payment is
	// a known inconsistency; it is logged for manual reconciliation, not
	// rolled back.
	for _, item := range order.Items {
		if err := s.catalog.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("checkout: stock decrement failed for order %s product %s: %v",
				order.OrderID, item.ProductID, err)
		}
	}

	c.Clear()
	if err := s.carts.Save(ctx, c); err != nil {
		log.Printf("checkout: cart clear failed for order %s: %v", order.OrderID, err)
	}

	return &CheckoutResult{
		Order:   order,
		Payment: result,
		Receipt: &Receipt{
			OrderNumber:   order.OrderNumber,
			Items:         order.Items,
			Subtotal:      order.Subtotal,
			ShippingCost:  order.ShippingCost,
			Tax:           order.Tax,
			Total:         order.Total,
			TransactionID: result.TransactionID,
			IssuedAt:      time.Now(),
		},
	}, nil
}

// buildOrder snapshots the cart into an immutable order with totals
// computed as one unit.
func buildOrder(c *models.Cart, in CheckoutInput) *models.Order {
	items := make([]models.OrderItem, 0, len(c.Lines))
	subtotal := 0.0
	for _, line := range c.Lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
		subtotal += float64(line.Quantity) * line.Price
	}
	subtotal = utils.Round2(subtotal)
	shipping := ShippingCost(subtotal)
	tax := utils.Round2(subtotal * TaxRate)

	now := time.Now()
	return &models.Order{
		OrderID:         "o" + utils.GenerateRandomString(12),
		OrderNumber:     utils.NewOrderNumber(),
		UserID:          in.UserID,
		Items:           items,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   models.PaymentPending,
		Status:          models.OrderPending,
		Subtotal:        subtotal,
		ShippingCost:    shipping,
		Tax:             tax,
		Total:           utils.Round2(subtotal + shipping + tax),
		Notes:           in.Notes,
		StatusHistory: []models.StatusEvent{{
			Status: models.OrderPending,
			At:     now,
			Actor:  in.UserID,
			Note:   "order created",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
