package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkrfoods/storefront/internal/domain"
)

type fakeSender struct {
	err   error
	calls int
}

func (f *fakeSender) Send(context.Context, string, string, bool) error {
	f.calls++
	return f.err
}

func TestWithDevFallback_PassesThroughSuccess(t *testing.T) {
	next := &fakeSender{}
	err := WithDevFallback(next).Send(context.Background(), "user@example.com", "123456", false)
	assert.NoError(t, err)
	assert.Equal(t, 1, next.calls)
}

func TestWithDevFallback_ReportsFallbackOnFailure(t *testing.T) {
	next := &fakeSender{err: errors.New("smtp connect refused")}
	err := WithDevFallback(next).Send(context.Background(), "user@example.com", "123456", false)
	assert.True(t, errors.Is(err, domain.ErrDeliveryFallback))
	assert.NotErrorIs(t, err, domain.ErrDelivery)
}

func TestDisabled_AlwaysFails(t *testing.T) {
	err := Disabled("whatsapp").Send(context.Background(), "+919876543210", "123456", false)
	assert.ErrorContains(t, err, "whatsapp")
	assert.False(t, errors.Is(err, domain.ErrDeliveryFallback))
}
