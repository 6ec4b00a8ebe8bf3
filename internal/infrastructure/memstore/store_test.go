package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mkrfoods/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPut_OverwritesExisting(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, &domain.OTPChallenge{Key: "k", Code: "111111", Attempts: 2}))
	require.NoError(t, s.Put(ctx, &domain.OTPChallenge{Key: "k", Code: "222222"}))

	c, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "222222", c.Code)
	assert.Equal(t, 0, c.Attempts)
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, &domain.OTPChallenge{Key: "k", Code: "111111"}))

	c, err := s.Get(ctx, "k")
	require.NoError(t, err)
	c.Attempts = 99

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 0, again.Attempts, "mutating a returned challenge must not touch the store")
}

func TestGet_Missing(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_IsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, &domain.OTPChallenge{Key: "k", Code: "111111"}))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Put(ctx, &domain.OTPChallenge{Key: "k", Code: "123456"})
			_, _ = s.Get(ctx, "k")
			_ = s.Delete(ctx, "k")
		}()
	}
	wg.Wait()
}
