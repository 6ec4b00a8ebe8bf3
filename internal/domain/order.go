package domain

import "time"

// Payment lifecycle of an order against the gateway.
const (
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Fulfilment status shown in order history.
const (
	OrderStatusInTransit = "In Transit"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

type CartVariant struct {
	Weight   string `json:"weight" dynamodbav:"weight" validate:"required"`
	Price    int64  `json:"price" dynamodbav:"price" validate:"gte=0"`
	Quantity int    `json:"quantity" dynamodbav:"quantity" validate:"gt=0"`
}

type CartItem struct {
	ProductID  string        `json:"productId" dynamodbav:"product_id" validate:"required"`
	Name       string        `json:"name" dynamodbav:"name" validate:"required"`
	Image      string        `json:"image,omitempty" dynamodbav:"image"`
	Variants   []CartVariant `json:"variants" dynamodbav:"variants" validate:"omitempty,dive"`
	TotalPrice int64         `json:"totalPrice" dynamodbav:"total_price" validate:"gte=0"`
}

// Order is one payment order with its cart snapshot. Amount is in the
// currency's smallest unit (paise for INR), matching the gateway.
type Order struct {
	OrderID        string            `json:"orderId" dynamodbav:"order_id"`
	UserID         string            `json:"userId" dynamodbav:"user_id"`
	GatewayOrderID string            `json:"gatewayOrderId" dynamodbav:"gateway_order_id"`
	PaymentID      string            `json:"paymentId,omitempty" dynamodbav:"payment_id"`
	Amount         int64             `json:"amount" dynamodbav:"amount"`
	Currency       string            `json:"currency" dynamodbav:"currency"`
	Status         string            `json:"status" dynamodbav:"status"`
	OrderStatus    string            `json:"orderStatus" dynamodbav:"order_status"`
	ExpectedDate   string            `json:"expectedDate" dynamodbav:"expected_date"`
	Notes          map[string]string `json:"notes,omitempty" dynamodbav:"notes"`
	Cart           []CartItem        `json:"cart,omitempty" dynamodbav:"cart"`
	InvoiceKey     string            `json:"-" dynamodbav:"invoice_key"`
	CreatedAt      time.Time         `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time         `json:"updated" dynamodbav:"updated_at"`
}
