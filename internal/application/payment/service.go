// Package payment creates gateway payment orders, reconciles them through
// webhooks, and serves order history.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mkrfoods/storefront/internal/domain"
	"github.com/mkrfoods/storefront/internal/pkg/id"
	"github.com/mkrfoods/storefront/internal/pkg/validate"
)

// Gateway is the payment provider surface the service needs.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (string, error)
	VerifyWebhookSignature(payload []byte, signature string) bool
}

type orderStore interface {
	Put(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Update(ctx context.Context, orderID string, updates map[string]interface{}) error
}

type invoiceArchive interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// CreateOrderRequest is the checkout payload. Amount is in the currency's
// smallest unit.
type CreateOrderRequest struct {
	Amount   int64             `json:"amount" validate:"required,gt=0"`
	Currency string            `json:"currency" validate:"omitempty,len=3"`
	Cart     []domain.CartItem `json:"cart" validate:"omitempty,dive"`
	Notes    map[string]string `json:"notes"`
}

type Service interface {
	CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*domain.Order, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

type service struct {
	gateway Gateway
	orders  orderStore
	archive invoiceArchive
	log     *slog.Logger
}

// ServiceDeps wires the payment flow. Archive may be nil; paid orders then
// skip invoice archival.
type ServiceDeps struct {
	Gateway    Gateway
	OrderStore orderStore
	Archive    invoiceArchive
	Logger     *slog.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &service{gateway: deps.Gateway, orders: deps.OrderStore, archive: deps.Archive, log: log}
}

// CreateOrder registers an order with the gateway and persists it in the
// created state. Our order id doubles as the gateway receipt so the two
// systems can be reconciled from either side.
func (s *service) CreateOrder(ctx context.Context, userID string, req CreateOrderRequest) (*domain.Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadRequest, err)
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	orderID := id.New()
	gatewayOrderID, err := s.gateway.CreateOrder(ctx, req.Amount, req.Currency, orderID, req.Notes)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	now := time.Now()
	order := &domain.Order{
		OrderID:        orderID,
		UserID:         userID,
		GatewayOrderID: gatewayOrderID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         domain.PaymentStatusCreated,
		OrderStatus:    domain.OrderStatusInTransit,
		ExpectedDate:   "Updated soon",
		Notes:          req.Notes,
		Cart:           req.Cart,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.orders.Put(ctx, order); err != nil {
		return nil, fmt.Errorf("persist order: %w", err)
	}
	return order, nil
}

// webhookEvent is the subset of the gateway's webhook body we act on.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// HandleWebhook verifies the signature over the raw body and marks the
// matching order paid on a payment.captured event. Other events are
// acknowledged without action so the gateway does not retry them.
func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !s.gateway.VerifyWebhookSignature(payload, signature) {
		return fmt.Errorf("webhook signature mismatch: %w", domain.ErrUnauthorized)
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: malformed webhook body", domain.ErrBadRequest)
	}
	if event.Event != "payment.captured" {
		s.log.Info("webhook event ignored", "event", event.Event)
		return nil
	}

	gatewayOrderID := event.Payload.Payment.Entity.OrderID
	order, err := s.orders.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return fmt.Errorf("lookup order %s: %w", gatewayOrderID, err)
	}

	updates := map[string]interface{}{
		"status":     domain.PaymentStatusPaid,
		"payment_id": event.Payload.Payment.Entity.ID,
	}
	if err := s.orders.Update(ctx, order.OrderID, updates); err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	order.Status = domain.PaymentStatusPaid
	order.PaymentID = event.Payload.Payment.Entity.ID

	s.archiveInvoice(ctx, order)
	return nil
}

func (s *service) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// archiveInvoice uploads a JSON snapshot of the paid order. Archival is best
// effort; a failure is logged and the webhook still succeeds, since the
// payment state is already durable.
func (s *service) archiveInvoice(ctx context.Context, order *domain.Order) {
	if s.archive == nil {
		return
	}
	doc, err := json.Marshal(order)
	if err != nil {
		s.log.Warn("invoice marshal failed", "order_id", order.OrderID, "error", err)
		return
	}
	key := fmt.Sprintf("invoices/%s.json", order.OrderID)
	if _, err := s.archive.Upload(ctx, key, bytes.NewReader(doc), "application/json"); err != nil {
		s.log.Warn("invoice archive failed", "order_id", order.OrderID, "error", err)
		return
	}
	if err := s.orders.Update(ctx, order.OrderID, map[string]interface{}{"invoice_key": key}); err != nil {
		s.log.Warn("invoice key update failed", "order_id", order.OrderID, "error", err)
	}
}
