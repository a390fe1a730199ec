package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/apperr"
	"storefront/models"
	"storefront/payment"
)

type fakeCarts struct {
	cart  *models.Cart
	saved bool
}

func (f *fakeCarts) GetOrCreate(_ context.Context, userID string) (*models.Cart, error) {
	if f.cart == nil {
		f.cart = models.NewCart(userID)
	}
	return f.cart, nil
}

func (f *fakeCarts) Save(_ context.Context, c *models.Cart) error {
	f.saved = true
	return nil
}

type fakeCatalog struct {
	products    map[string]*models.Product
	decremented map[string]int
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, apperr.Newf(apperr.NotFound, "product %s not found", id)
	}
	return p, nil
}

func (f *fakeCatalog) DecrementStock(_ context.Context, id string, qty int) error {
	if f.decremented == nil {
		f.decremented = map[string]int{}
	}
	f.decremented[id] += qty
	f.products[id].Stock -= qty
	return nil
}

type fakeOrders struct {
	inserted *models.Order
	updates  int
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	f.inserted = o
	return nil
}

func (f *fakeOrders) Update(_ context.Context, o *models.Order) error {
	f.updates++
	return nil
}

type fakeGateway struct {
	result payment.Result
	err    error
	req    payment.Request
}

func (f *fakeGateway) Charge(_ context.Context, req payment.Request) (payment.Result, error) {
	f.req = req
	return f.result, f.err
}

type recordedEvent struct{ name, orderID string }

type fakeEvents struct{ events []recordedEvent }

func (f *fakeEvents) Emit(_ context.Context, name, orderID, _ string) {
	f.events = append(f.events, recordedEvent{name, orderID})
}

func checkoutFixture(gw *fakeGateway) (*CheckoutService, *fakeCarts, *fakeCatalog, *fakeOrders, *fakeEvents) {
	catalog := &fakeCatalog{products: map[string]*models.Product{
		"p1": {ProductID: "p1", Name: "Laptop", Price: 999.99, Stock: 5, IsActive: true},
		"p2": {ProductID: "p2", Name: "Mouse", Price: 24.99, Stock: 20, IsActive: true},
	}}
	carts := &fakeCarts{cart: models.NewCart("u1")}
	orders := &fakeOrders{}
	events := &fakeEvents{}
	return NewCheckoutService(carts, catalog, orders, gw, events), carts, catalog, orders, events
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		UserID: "u1",
		ShippingAddress: models.ShippingAddress{
			FullName: "Ada L", Line1: "1 Main St", City: "Springfield",
			State: "IL", PostalCode: "62701", Country: "US",
		},
		PaymentMethod: "card",
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _, _, orders, _ := checkoutFixture(&fakeGateway{})

	_, err := svc.Checkout(context.Background(), checkoutInput())
	require.Error(t, err)
	assert.Equal(t, apperr.EmptyCart, apperr.KindOf(err))
	assert.Nil(t, orders.inserted)
}

func TestCheckoutSuccess(t *testing.T) {
	gw := &fakeGateway{result: payment.Result{Success: true, TransactionID: "txn_abc"}}
	svc, carts, catalog, _, events := checkoutFixture(gw)
	require.NoError(t, carts.cart.AddItem(catalog.products["p1"], 2))

	res, err := svc.Checkout(context.Background(), checkoutInput())
	require.NoError(t, err)

	// 2 x 999.99 with 8% tax and free shipping above the threshold.
	o := res.Order
	assert.Equal(t, 1999.98, o.Subtotal)
	assert.Equal(t, 0.0, o.ShippingCost)
	assert.Equal(t, 160.00, o.Tax)
	assert.Equal(t, 2159.98, o.Total)
	assert.Equal(t, o.Total, gw.req.Amount)

	assert.Equal(t, models.OrderConfirmed, o.Status)
	assert.Equal(t, models.PaymentPaid, o.PaymentStatus)
	require.NotNil(t, o.Payment)
	assert.Equal(t, "txn_abc", o.Payment.TransactionID)
	require.Len(t, o.StatusHistory, 2)

	assert.Equal(t, 2, catalog.decremented["p1"])
	assert.Equal(t, 3, catalog.products["p1"].Stock)
	assert.Empty(t, carts.cart.Lines)
	assert.True(t, carts.saved)

	require.NotNil(t, res.Receipt)
	assert.Equal(t, o.OrderNumber, res.Receipt.OrderNumber)
	assert.Equal(t, "txn_abc", res.Receipt.TransactionID)

	names := []string{}
	for _, ev := range events.events {
		names = append(names, ev.name)
	}
	assert.Equal(t, []string{"order-created", "order-paid"}, names)
}

func TestCheckoutFlatShippingBelowThreshold(t *testing.T) {
	gw := &fakeGateway{result: payment.Result{Success: true, TransactionID: "txn_x"}}
	svc, carts, catalog, _, _ := checkoutFixture(gw)
	require.NoError(t, carts.cart.AddItem(catalog.products["p2"], 1))

	res, err := svc.Checkout(context.Background(), checkoutInput())
	require.NoError(t, err)

	o := res.Order
	assert.Equal(t, 24.99, o.Subtotal)
	assert.Equal(t, 5.99, o.ShippingCost)
	assert.Equal(t, 2.00, o.Tax)
	assert.Equal(t, 32.98, o.Total)
}

func TestCheckoutPaymentDeclined(t *testing.T) {
	gw := &fakeGateway{result: payment.Result{Success: false, Reason: "card_declined"}}
	svc, carts, catalog, orders, events := checkoutFixture(gw)
	require.NoError(t, carts.cart.AddItem(catalog.products["p1"], 2))

	res, err := svc.Checkout(context.Background(), checkoutInput())
	require.NoError(t, err)

	// The order persists in its failed state; stock and cart are untouched.
	o := res.Order
	assert.Equal(t, models.OrderPending, o.Status)
	assert.Equal(t, models.PaymentFailed, o.PaymentStatus)
	require.NotNil(t, o.Payment)
	assert.Equal(t, "card_declined", o.Payment.Reason)
	assert.Nil(t, res.Receipt)

	assert.NotNil(t, orders.inserted)
	assert.Empty(t, catalog.decremented)
	assert.Equal(t, 5, catalog.products["p1"].Stock)
	assert.Len(t, carts.cart.Lines, 1)
	assert.False(t, carts.saved)

	names := []string{}
	for _, ev := range events.events {
		names = append(names, ev.name)
	}
	assert.Equal(t, []string{"order-created", "order-payment-failed"}, names)
}

func TestCheckoutGatewayError(t *testing.T) {
	gw := &fakeGateway{err: errors.New("gateway unreachable")}
	svc, carts, catalog, orders, _ := checkoutFixture(gw)
	require.NoError(t, carts.cart.AddItem(catalog.products["p2"], 1))

	_, err := svc.Checkout(context.Background(), checkoutInput())
	require.Error(t, err)

	require.NotNil(t, orders.inserted)
	assert.Equal(t, models.PaymentFailed, orders.inserted.PaymentStatus)
	assert.Empty(t, catalog.decremented)
	assert.Len(t, carts.cart.Lines, 1)
}

func TestCheckoutInsufficientStockAborts(t *testing.T) {
	gw := &fakeGateway{result: payment.Result{Success: true}}
	svc, carts, catalog, orders, _ := checkoutFixture(gw)
	require.NoError(t, carts.cart.AddItem(catalog.products["p1"], 3))

	// Stock dropped between add-to-cart and checkout.
	catalog.products["p1"].Stock = 1

	_, err := svc.Checkout(context.Background(), checkoutInput())
	require.Error(t, err)
	assert.Equal(t, apperr.InsufficientStock, apperr.KindOf(err))
	assert.Nil(t, orders.inserted)
}

func TestCheckoutInactiveProductAborts(t *testing.T) {
	gw := &fakeGateway{result: payment.Result{Success: true}}
	svc, carts, catalog, orders, _ := checkoutFixture(gw)
	require.NoError(t, carts.cart.AddItem(catalog.products["p1"], 1))

	catalog.products["p1"].IsActive = false

	_, err := svc.Checkout(context.Background(), checkoutInput())
	require.Error(t, err)
	assert.Equal(t, apperr.InsufficientStock, apperr.KindOf(err))
	assert.Nil(t, orders.inserted)
}

func TestShippingCost(t *testing.T) {
	assert.Equal(t, 5.99, ShippingCost(49.99))
	assert.Equal(t, 0.0, ShippingCost(50.00))
	assert.Equal(t, 0.0, ShippingCost(120.55))
}
