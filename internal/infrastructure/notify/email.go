package notify

import (
	"context"
	"fmt"

	"github.com/mkrfoods/storefront/internal/infrastructure/smtp"
)

// EmailSender delivers codes over SMTP with the storefront's HTML template.
type EmailSender struct {
	mailer     smtp.Mailer
	ttlMinutes int
}

func NewEmailSender(mailer smtp.Mailer, ttlMinutes int) *EmailSender {
	return &EmailSender{mailer: mailer, ttlMinutes: ttlMinutes}
}

func (s *EmailSender) Send(_ context.Context, to, code string, resend bool) error {
	subject := "MKR Foods - Your OTP Verification Code"
	lead := "Your OTP verification code is:"
	if resend {
		subject = "MKR Foods - Your New OTP Verification Code"
		lead = "Your new OTP verification code is:"
	}
	return s.mailer.SendEmail(to, subject, s.body(lead, code))
}

func (s *EmailSender) body(lead, code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px; background-color: #f4f4f4;">
  <div style="max-width: 500px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 8px;">
    <h2 style="color: #333; margin-bottom: 20px;">MKR Foods</h2>
    <p style="color: #666; font-size: 16px; margin-bottom: 20px;">%s</p>
    <div style="background-color: #ff6b6b; color: white; padding: 20px; border-radius: 8px; text-align: center; margin: 20px 0;">
      <span style="font-size: 36px; font-weight: bold; letter-spacing: 5px;">%s</span>
    </div>
    <p style="color: #999; font-size: 14px; margin-bottom: 20px;">
      This OTP will expire in %d minutes. Do not share this code with anyone.
    </p>
    <p style="color: #999; font-size: 14px;">If you didn't request this code, please ignore this email.</p>
    <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
    <p style="color: #999; font-size: 12px; text-align: center;">MKR Foods. All rights reserved.</p>
  </div>
</div>`, lead, code, s.ttlMinutes)
}
