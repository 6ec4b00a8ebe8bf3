package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mkrfoods/storefront/internal/infrastructure/google"
	jwtinfra "github.com/mkrfoods/storefront/internal/infrastructure/jwt"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller attached to the request context.
// Degraded marks a request that passed through while no verifier was
// configured; handlers can treat it with suspicion.
type Identity struct {
	UserID   string
	Email    string
	Name     string
	Degraded bool
}

// TokenVerifier is the local JWT provider surface needed by Auth.
type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// IDTokenVerifier is the Google ID token verifier surface needed by Auth.
type IDTokenVerifier interface {
	Verify(ctx context.Context, token string) (*google.Identity, error)
}

// Auth validates the Bearer token and injects the caller identity. Locally
// issued JWTs are tried first, then Google/Firebase ID tokens. When neither
// verifier is configured the request is allowed through with a degraded
// placeholder identity rather than locking every caller out.
func Auth(local TokenVerifier, idTokens IDTokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, `{"success":false,"message":"Missing or invalid authorization header."}`, http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			if local == nil && idTokens == nil {
				slog.Warn("no token verifier configured, allowing request with degraded identity")
				ctx := context.WithValue(r.Context(), identityKey, &Identity{
					UserID:   "anonymous",
					Degraded: true,
				})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if local != nil {
				if claims, err := local.Verify(tokenStr); err == nil {
					ctx := context.WithValue(r.Context(), identityKey, &Identity{
						UserID: claims.UserID,
						Email:  claims.Email,
						Name:   claims.Name,
					})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if idTokens != nil {
				if ident, err := idTokens.Verify(r.Context(), tokenStr); err == nil {
					ctx := context.WithValue(r.Context(), identityKey, &Identity{
						UserID: ident.UID,
						Email:  ident.Email,
						Name:   ident.Name,
					})
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			http.Error(w, `{"success":false,"message":"Invalid or expired token."}`, http.StatusUnauthorized)
		})
	}
}

// IdentityFromContext extracts the caller identity from the request context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*Identity)
	return ident, ok
}
