// Package razorpay wraps the Razorpay SDK behind the payment service's
// gateway interface: order creation and webhook signature verification.
package razorpay

import (
	"context"
	"fmt"

	razorpaygo "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/mkrfoods/storefront/internal/config"
)

type Gateway struct {
	api           *razorpaygo.Client
	webhookSecret string
}

func NewGateway(cfg *config.Config) *Gateway {
	return &Gateway{
		api:           razorpaygo.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		webhookSecret: cfg.RazorpayWebhookSecret,
	}
}

// CreateOrder creates a gateway order and returns its id. Amount is in the
// currency's smallest unit (paise for INR).
func (g *Gateway) CreateOrder(_ context.Context, amount int64, currency, receipt string, notes map[string]string) (string, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}
	body, err := g.api.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create: %w", err)
	}
	orderID, _ := body["id"].(string)
	if orderID == "" {
		return "", fmt.Errorf("razorpay order create: response missing order id")
	}
	return orderID, nil
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header value against
// the HMAC-SHA256 of the raw webhook body under the webhook secret.
func (g *Gateway) VerifyWebhookSignature(payload []byte, signature string) bool {
	return utils.VerifyWebhookSignature(string(payload), signature, g.webhookSecret)
}
