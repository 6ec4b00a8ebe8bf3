package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrfoods/storefront/internal/domain"
	"github.com/mkrfoods/storefront/internal/infrastructure/memstore"
)

func TestNamespaceStore_IsolatesFlowsOnSharedBackend(t *testing.T) {
	shared := memstore.New()
	ctx := context.Background()

	emailSender := &okSender{}
	signupSender := &okSender{}
	emailMgr := NewManager(NamespaceStore(shared, "email"), emailSender, 5*time.Minute, ResendAlways)
	signupMgr := NewManager(NamespaceStore(shared, "signup"), signupSender, 10*time.Minute, ResendRequiresPending)

	payload := &domain.SignupPayload{Name: "Asha", Password: "hunter2hunter2"}
	_, err := signupMgr.Issue(ctx, key, payload)
	require.NoError(t, err)

	// An email-flow challenge for the same address must not touch the
	// pending signup.
	_, err = emailMgr.Issue(ctx, key, nil)
	require.NoError(t, err)

	res, err := signupMgr.Verify(ctx, key, emailSender.lastCode)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMismatch, res.Outcome, "email-flow code must not verify a signup challenge")

	res, err = signupMgr.Verify(ctx, key, signupSender.lastCode)
	require.NoError(t, err)
	assert.Equal(t, OutcomeVerified, res.Outcome)
	require.NotNil(t, res.Payload)
	assert.Equal(t, "Asha", res.Payload.Name)

	// The email flow's own challenge is still live.
	res, err = emailMgr.Verify(ctx, key, emailSender.lastCode)
	require.NoError(t, err)
	assert.Equal(t, OutcomeVerified, res.Outcome)
}

func TestNamespaceStore_KeysScopedPerFlow(t *testing.T) {
	shared := memstore.New()
	ctx := context.Background()

	email := NamespaceStore(shared, "email")
	signup := NamespaceStore(shared, "signup")

	require.NoError(t, email.Put(ctx, &domain.OTPChallenge{Key: key, Code: "111111"}))

	_, err := signup.Get(ctx, key)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	c, err := email.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, key, c.Key, "the flow prefix must not leak out of the store")
	assert.Equal(t, "111111", c.Code)

	// Deleting in one flow leaves the other untouched.
	require.NoError(t, signup.Put(ctx, &domain.OTPChallenge{Key: key, Code: "222222"}))
	require.NoError(t, email.Delete(ctx, key))
	_, err = email.Get(ctx, key)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	c, err = signup.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "222222", c.Code)
}
