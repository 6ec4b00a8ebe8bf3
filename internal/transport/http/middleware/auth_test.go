package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrfoods/storefront/internal/infrastructure/google"
	jwtinfra "github.com/mkrfoods/storefront/internal/infrastructure/jwt"
)

type stubLocal struct {
	claims *jwtinfra.Claims
}

func (s *stubLocal) Verify(string) (*jwtinfra.Claims, error) {
	if s.claims == nil {
		return nil, errors.New("invalid token")
	}
	return s.claims, nil
}

type stubIDTokens struct {
	ident *google.Identity
}

func (s *stubIDTokens) Verify(context.Context, string) (*google.Identity, error) {
	if s.ident == nil {
		return nil, errors.New("invalid token")
	}
	return s.ident, nil
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestAuth_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	Auth(&stubLocal{}, nil)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_BadToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()
	Auth(&stubLocal{}, &stubIDTokens{})(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuth_LocalToken_InjectsIdentity(t *testing.T) {
	local := &stubLocal{claims: &jwtinfra.Claims{UserID: "u1", Email: "u1@example.com", Name: "Asha"}}

	var got *Identity
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer signed-token")
	rr := httptest.NewRecorder()
	Auth(local, nil)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "u1@example.com", got.Email)
	assert.False(t, got.Degraded)
}

func TestAuth_IDTokenFallback(t *testing.T) {
	local := &stubLocal{}
	idTokens := &stubIDTokens{ident: &google.Identity{UID: "firebase-1", Email: "g@example.com", Name: "G"}}

	var got *Identity
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer an-id-token")
	rr := httptest.NewRecorder()
	Auth(local, idTokens)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.Equal(t, "firebase-1", got.UserID)
}

func TestAuth_NoVerifiers_DegradedPassThrough(t *testing.T) {
	var got *Identity
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rr := httptest.NewRecorder()
	Auth(nil, nil)(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, got)
	assert.True(t, got.Degraded)

	// A missing header is still rejected in degraded mode.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rr = httptest.NewRecorder()
	Auth(nil, nil)(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
