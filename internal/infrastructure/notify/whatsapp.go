package notify

import (
	"context"
	"fmt"

	"github.com/mkrfoods/storefront/internal/infrastructure/sns"
)

// WhatsAppSender delivers codes to mobile numbers. The message channel is SNS;
// the copy matches the WhatsApp template the storefront app expects.
type WhatsAppSender struct {
	sms        sns.SMSSender
	ttlMinutes int
}

func NewWhatsAppSender(sms sns.SMSSender, ttlMinutes int) *WhatsAppSender {
	return &WhatsAppSender{sms: sms, ttlMinutes: ttlMinutes}
}

func (s *WhatsAppSender) Send(ctx context.Context, to, code string, resend bool) error {
	title := "MKR Foods - Your OTP Verification Code"
	lead := "Your OTP is"
	if resend {
		title = "MKR Foods - Your New OTP Verification Code"
		lead = "Your new OTP is"
	}
	msg := fmt.Sprintf(
		"%s\n\n%s: %s\n\nThis code will expire in %d minutes.\nDo not share this code with anyone.",
		title, lead, code, s.ttlMinutes,
	)
	return s.sms.SendSMS(ctx, to, msg)
}
