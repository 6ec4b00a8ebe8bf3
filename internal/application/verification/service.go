// Package verification is the standalone identity-verification flow: prove
// control of an email address or mobile number, nothing else. The signup flow
// lives in the signup package.
package verification

import (
	"context"

	"github.com/mkrfoods/storefront/internal/application/otp"
	"github.com/mkrfoods/storefront/internal/domain"
	"github.com/mkrfoods/storefront/internal/pkg/identity"
)

type Service interface {
	// Send issues a fresh challenge and returns the normalized identity it
	// was bound to.
	Send(ctx context.Context, rawIdentity string) (string, error)
	// Verify checks a submitted code. Challenge-state outcomes come back in
	// the result, never as errors.
	Verify(ctx context.Context, rawIdentity, code string) (string, *otp.VerifyResult, error)
	// Resend invalidates any outstanding challenge and issues a fresh one.
	Resend(ctx context.Context, rawIdentity string) (string, error)
	// Status exposes the live challenge for the development status endpoint.
	Status(ctx context.Context, rawIdentity string) (string, *domain.OTPChallenge, error)
}

type service struct {
	mgr       *otp.Manager
	normalize func(string) (string, error)
}

// NewEmailService builds the email flow: lowercase-normalized addresses.
func NewEmailService(mgr *otp.Manager) Service {
	return &service{mgr: mgr, normalize: identity.NormalizeEmail}
}

// NewMobileService builds the mobile flow: +91-normalized phone numbers.
func NewMobileService(mgr *otp.Manager) Service {
	return &service{mgr: mgr, normalize: identity.NormalizePhone}
}

func (s *service) Send(ctx context.Context, rawIdentity string) (string, error) {
	key, err := s.normalize(rawIdentity)
	if err != nil {
		return "", err
	}
	if _, err := s.mgr.Issue(ctx, key, nil); err != nil {
		return key, err
	}
	return key, nil
}

func (s *service) Verify(ctx context.Context, rawIdentity, code string) (string, *otp.VerifyResult, error) {
	key, err := s.normalize(rawIdentity)
	if err != nil {
		return "", nil, err
	}
	res, err := s.mgr.Verify(ctx, key, code)
	if err != nil {
		return key, nil, err
	}
	return key, res, nil
}

func (s *service) Resend(ctx context.Context, rawIdentity string) (string, error) {
	key, err := s.normalize(rawIdentity)
	if err != nil {
		return "", err
	}
	if _, err := s.mgr.Resend(ctx, key); err != nil {
		return key, err
	}
	return key, nil
}

func (s *service) Status(ctx context.Context, rawIdentity string) (string, *domain.OTPChallenge, error) {
	key, err := s.normalize(rawIdentity)
	if err != nil {
		return "", nil, err
	}
	c, err := s.mgr.Peek(ctx, key)
	if err != nil {
		return key, nil, err
	}
	return key, c, nil
}
