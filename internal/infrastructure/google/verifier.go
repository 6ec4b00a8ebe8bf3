package google

import (
	"context"
	"fmt"

	"github.com/mkrfoods/storefront/internal/domain"
	"google.golang.org/api/idtoken"
)

// Identity holds the verified claims extracted from a Google or Firebase ID token.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
}

// Verifier verifies Google/Firebase ID tokens against a specific audience
// (the OAuth client ID or Firebase project ID).
type Verifier struct {
	audience string
}

func NewVerifier(audience string) *Verifier {
	return &Verifier{audience: audience}
}

// Verify validates the ID token and returns the extracted identity.
// Returns a domain.ErrUnauthorized-wrapped error if the token is invalid.
func (v *Verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	p, err := idtoken.Validate(ctx, token, v.audience)
	if err != nil {
		return nil, fmt.Errorf("invalid id token: %w", domain.ErrUnauthorized)
	}
	email, _ := p.Claims["email"].(string)
	emailVerified, _ := p.Claims["email_verified"].(bool)
	name, _ := p.Claims["name"].(string)
	return &Identity{
		UID:           p.Subject,
		Email:         email,
		EmailVerified: emailVerified,
		Name:          name,
	}, nil
}
