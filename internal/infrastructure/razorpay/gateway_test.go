package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/mkrfoods/storefront/internal/config"
	"github.com/stretchr/testify/assert"
)

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature(t *testing.T) {
	g := NewGateway(&config.Config{
		RazorpayKeyID:         "rzp_test_key",
		RazorpayKeySecret:     "rzp_test_secret",
		RazorpayWebhookSecret: "whsec_123",
	})
	body := []byte(`{"event":"payment.captured","payload":{}}`)

	assert.True(t, g.VerifyWebhookSignature(body, sign(body, "whsec_123")))
	assert.False(t, g.VerifyWebhookSignature(body, sign(body, "wrong_secret")))
	assert.False(t, g.VerifyWebhookSignature([]byte(`{"tampered":true}`), sign(body, "whsec_123")))
	assert.False(t, g.VerifyWebhookSignature(body, ""))
}
