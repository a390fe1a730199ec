package models

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderItem is a denormalized copy of a cart line at order time. Name and
// price are captured so historical orders stay stable under later product
// edits.
type OrderItem struct {
	ProductID string  `json:"productId" bson:"productid"`
	Name      string  `json:"name" bson:"name"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName" bson:"fullname"`
	Line1      string `json:"line1" bson:"line1"`
	Line2      string `json:"line2,omitempty" bson:"line2,omitempty"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postalCode" bson:"postalcode"`
	Country    string `json:"country" bson:"country"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// StatusEvent is one append-only entry in an order's status history.
type StatusEvent struct {
	Status OrderStatus `json:"status" bson:"status"`
	At     time.Time   `json:"at" bson:"at"`
	Actor  string      `json:"actor" bson:"actor"`
	Note   string      `json:"note,omitempty" bson:"note,omitempty"`
}

// PaymentRecord is the outcome of the gateway call attached to the order.
type PaymentRecord struct {
	TransactionID string    `json:"transactionId,omitempty" bson:"transactionid,omitempty"`
	Reason        string    `json:"reason,omitempty" bson:"reason,omitempty"`
	ProcessedAt   time.Time `json:"processedAt" bson:"processed_at"`
}

// Order is created exactly once per checkout attempt. Its line items are
// immutable after creation; only status fields and the history log change.
type Order struct {
	OrderID         string          `json:"orderId" bson:"orderid"`
	OrderNumber     string          `json:"orderNumber" bson:"ordernumber"`
	UserID          string          `json:"userId" bson:"userid"`
	Items           []OrderItem     `json:"items" bson:"items"`
	ShippingAddress ShippingAddress `json:"shippingAddress" bson:"shippingaddress"`
	PaymentMethod   string          `json:"paymentMethod" bson:"paymentmethod"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" bson:"paymentstatus"`
	Status          OrderStatus     `json:"status" bson:"status"`
	Subtotal        float64         `json:"subtotal" bson:"subtotal"`
	ShippingCost    float64         `json:"shippingCost" bson:"shippingcost"`
	Tax             float64         `json:"tax" bson:"tax"`
	Total           float64         `json:"total" bson:"total"`
	Notes           string          `json:"notes,omitempty" bson:"notes,omitempty"`
	StatusHistory   []StatusEvent   `json:"statusHistory" bson:"statushistory"`
	Payment         *PaymentRecord  `json:"payment,omitempty" bson:"payment,omitempty"`
	ShippedAt       *time.Time      `json:"shippedAt,omitempty" bson:"shipped_at,omitempty"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty" bson:"delivered_at,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at"`
}
