// Package notify adapts the raw transports (SMTP, SNS) into code senders the
// OTP managers call. It also carries the development fallback that logs a
// code instead of failing the request when the transport is misconfigured.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkrfoods/storefront/internal/domain"
)

// Sender delivers a verification code to an identity. Structurally identical
// to the manager's sender interface so implementations plug straight in.
type Sender interface {
	Send(ctx context.Context, to, code string, resend bool) error
}

// WithDevFallback wraps a sender so transport failures log the code instead
// of losing it. Development only. The failure is reported as
// domain.ErrDeliveryFallback so the handler can answer with a success plus a
// fallback note rather than a delivery error.
func WithDevFallback(next Sender) Sender {
	return &devFallback{next: next}
}

type devFallback struct {
	next Sender
}

func (d *devFallback) Send(ctx context.Context, to, code string, resend bool) error {
	err := d.next.Send(ctx, to, code, resend)
	if err == nil {
		return nil
	}
	slog.Warn("delivery failed, using development fallback", "to", to, "err", err)
	slog.Info("otp code (development fallback)", "to", to, "code", code)
	return fmt.Errorf("%w: %s", domain.ErrDeliveryFallback, err)
}

// Disabled returns a sender that always fails with a configuration hint.
// Used when a transport is not configured so the flow stays mounted but every
// send surfaces a delivery error instead of panicking on a nil sender.
func Disabled(channel string) Sender {
	return disabledSender(channel)
}

type disabledSender string

func (s disabledSender) Send(context.Context, string, string, bool) error {
	return fmt.Errorf("%s transport is not configured", string(s))
}
