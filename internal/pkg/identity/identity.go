// Package identity normalizes and validates the identity keys OTP challenges
// are bound to: lowercase email addresses and +91-prefixed mobile numbers.
package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mkrfoods/storefront/internal/domain"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// 10-digit Indian mobile numbers start with 6-9.
	phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// NormalizeEmail lowercases and trims the address and validates its basic
// local@domain.tld shape.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("email is required: %w", domain.ErrBadRequest)
	}
	if !emailRe.MatchString(email) {
		return "", fmt.Errorf("invalid email format: %w", domain.ErrBadRequest)
	}
	return email, nil
}

// NormalizePhone validates a 10-digit Indian mobile number and reshapes it to
// the +91 international form used as the challenge key and delivery address.
func NormalizePhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return "", fmt.Errorf("phone number is required: %w", domain.ErrBadRequest)
	}
	if !phoneRe.MatchString(phone) {
		return "", fmt.Errorf("invalid phone number format: %w", domain.ErrBadRequest)
	}
	return "+91" + phone, nil
}
