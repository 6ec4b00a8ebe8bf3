package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrDelivery marks a notification-transport failure. By the time it is
	// returned the challenge has already been written; it is distinct from the
	// challenge-state outcomes, which are results, not errors.
	ErrDelivery = errors.New("delivery failed")

	// ErrDeliveryFallback marks a transport failure absorbed by the
	// development fallback: the code was logged instead of delivered. Callers
	// report success with a note rather than failing the request.
	ErrDeliveryFallback = errors.New("delivered via development fallback")

	// ErrNoPendingChallenge is returned by a resend under the requires-pending
	// policy when no challenge is outstanding for the key.
	ErrNoPendingChallenge = errors.New("no pending challenge")
)
