package handler

import (
	"errors"
	"net/http"

	"github.com/mkrfoods/storefront/internal/domain"
)

// fallbackNote annotates a success response when the code was logged by the
// development fallback instead of delivered.
const fallbackNote = "Delivery transport unavailable; the code was written to the server log."

// deliveredViaFallback reports whether err is a delivery failure absorbed by
// the development fallback, which callers surface as success plus a note.
func deliveredViaFallback(err error) bool {
	return errors.Is(err, domain.ErrDeliveryFallback)
}

// writeDomainError maps a service error onto an HTTP status and client-safe
// message. The raw error string is only attached in development mode.
func writeDomainError(w http.ResponseWriter, err error, dev bool) {
	status := http.StatusInternalServerError
	msg := "Server error. Please try again."

	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
		msg = "Invalid request."
	case errors.Is(err, domain.ErrNoPendingChallenge):
		status = http.StatusBadRequest
		msg = "No pending signup for this email. Please submit signup form first."
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
		msg = "Unauthorized."
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		msg = "Not found."
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		msg = "Email already registered. Please login instead."
	case errors.Is(err, domain.ErrDelivery):
		msg = "Failed to send OTP. Please try again."
	}

	env := Envelope{Success: false, Message: msg}
	if dev {
		env.Error = err.Error()
	}
	writeJSON(w, status, env)
}
