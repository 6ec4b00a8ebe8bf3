// Package otp implements the lifecycle of short-lived numeric verification
// challenges: issue, verify with bounded retries, resend, and lazy expiry.
// The three flows (email, signup, mobile) each own a Manager configured with
// their store backend, TTL and resend policy.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/mkrfoods/storefront/internal/domain"
)

// MaxAttempts is the number of failed verification checks after which a
// challenge is retired.
const MaxAttempts = 3

// ChallengeStore persists challenges keyed by the normalized identity string.
// Put overwrites unconditionally; Get returns an error wrapping
// domain.ErrNotFound when no challenge exists for the key.
type ChallengeStore interface {
	Put(ctx context.Context, c *domain.OTPChallenge) error
	Get(ctx context.Context, key string) (*domain.OTPChallenge, error)
	Delete(ctx context.Context, key string) error
}

// Sender delivers a code out-of-band to the identity behind the key.
type Sender interface {
	Send(ctx context.Context, to, code string, resend bool) error
}

// ResendPolicy controls whether Resend requires an outstanding challenge.
type ResendPolicy int

const (
	// ResendAlways issues a fresh challenge whether or not one is pending.
	ResendAlways ResendPolicy = iota
	// ResendRequiresPending fails with domain.ErrNoPendingChallenge when no
	// challenge is outstanding. Used by the signup flow, where a resend is
	// scoped to an existing signup attempt.
	ResendRequiresPending
)

// Outcome of a Verify call.
type Outcome string

const (
	OutcomeVerified         Outcome = "verified"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeExpired          Outcome = "expired"
	OutcomeAttemptsExceeded Outcome = "attempts_exceeded"
	OutcomeMismatch         Outcome = "mismatch"
)

// VerifyResult reports the outcome of a verification check. AttemptsRemaining
// is only meaningful for OutcomeMismatch; Payload is only set for a verified
// signup challenge.
type VerifyResult struct {
	Outcome           Outcome
	AttemptsRemaining int
	Payload           *domain.SignupPayload
}

// Manager owns the challenge lifecycle for one flow. Mutations on the same key
// are serialized through a per-key lock, so a verify racing a resend observes
// either the old or the new challenge, never a half-written one.
type Manager struct {
	store  ChallengeStore
	sender Sender
	ttl    time.Duration
	policy ResendPolicy
	locks  keyMutex

	now func() time.Time
}

func NewManager(store ChallengeStore, sender Sender, ttl time.Duration, policy ResendPolicy) *Manager {
	return &Manager{
		store:  store,
		sender: sender,
		ttl:    ttl,
		policy: policy,
		now:    time.Now,
	}
}

// Issue creates a fresh challenge for key, replacing any prior one, and
// delivers the code. The challenge is written before delivery is attempted;
// a delivery failure returns the challenge together with an error wrapping
// domain.ErrDelivery, and the caller decides whether to surface it.
func (m *Manager) Issue(ctx context.Context, key string, payload *domain.SignupPayload) (*domain.OTPChallenge, error) {
	unlock := m.locks.lock(key)
	defer unlock()
	return m.issue(ctx, key, payload, false)
}

// Verify checks a submitted code against the live challenge for key.
// Gate order: existence, expiry, attempt cap, code equality. Each gate
// short-circuits; expiry and cap retire the challenge before returning.
func (m *Manager) Verify(ctx context.Context, key, code string) (*VerifyResult, error) {
	unlock := m.locks.lock(key)
	defer unlock()

	c, err := m.store.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return &VerifyResult{Outcome: OutcomeNotFound}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	if m.now().Unix() > c.ExpiresAt {
		if err := m.store.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("retire expired challenge: %w", err)
		}
		return &VerifyResult{Outcome: OutcomeExpired}, nil
	}

	if c.Attempts >= MaxAttempts {
		if err := m.store.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("retire exhausted challenge: %w", err)
		}
		return &VerifyResult{Outcome: OutcomeAttemptsExceeded}, nil
	}

	if c.Code != code {
		c.Attempts++
		if c.Attempts >= MaxAttempts {
			if err := m.store.Delete(ctx, key); err != nil {
				return nil, fmt.Errorf("retire exhausted challenge: %w", err)
			}
			return &VerifyResult{Outcome: OutcomeAttemptsExceeded}, nil
		}
		if err := m.store.Put(ctx, c); err != nil {
			return nil, fmt.Errorf("record failed attempt: %w", err)
		}
		return &VerifyResult{Outcome: OutcomeMismatch, AttemptsRemaining: MaxAttempts - c.Attempts}, nil
	}

	if err := m.store.Delete(ctx, key); err != nil {
		return nil, fmt.Errorf("consume challenge: %w", err)
	}
	return &VerifyResult{Outcome: OutcomeVerified, Payload: c.Payload}, nil
}

// Resend replaces any outstanding challenge for key with a fresh one. Under
// ResendRequiresPending it fails with domain.ErrNoPendingChallenge when
// nothing is outstanding; the pending payload carries over to the new
// challenge either way.
func (m *Manager) Resend(ctx context.Context, key string) (*domain.OTPChallenge, error) {
	unlock := m.locks.lock(key)
	defer unlock()

	var payload *domain.SignupPayload
	prev, err := m.store.Get(ctx, key)
	switch {
	case err == nil:
		payload = prev.Payload
	case errors.Is(err, domain.ErrNotFound):
		if m.policy == ResendRequiresPending {
			return nil, fmt.Errorf("resend for %s: %w", key, domain.ErrNoPendingChallenge)
		}
	default:
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	return m.issue(ctx, key, payload, true)
}

// Peek returns the live challenge without mutating it. Development aid for
// the status endpoint; returns domain.ErrNotFound after lazy expiry too.
func (m *Manager) Peek(ctx context.Context, key string) (*domain.OTPChallenge, error) {
	c, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if m.now().Unix() > c.ExpiresAt {
		return nil, fmt.Errorf("challenge expired: %w", domain.ErrNotFound)
	}
	return c, nil
}

func (m *Manager) issue(ctx context.Context, key string, payload *domain.SignupPayload, resend bool) (*domain.OTPChallenge, error) {
	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	now := m.now()
	c := &domain.OTPChallenge{
		Key:       key,
		Code:      code,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.ttl).Unix(),
		Attempts:  0,
		Payload:   payload,
	}
	if err := m.store.Put(ctx, c); err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}
	// Delivery failure does not roll back the challenge. The sender's own
	// chain is preserved so a fallback delivery stays recognizable upstream.
	if err := m.sender.Send(ctx, key, code, resend); err != nil {
		return c, fmt.Errorf("%w: %w", domain.ErrDelivery, err)
	}
	return c, nil
}

// generateCode returns a 6-digit numeric code uniform in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
