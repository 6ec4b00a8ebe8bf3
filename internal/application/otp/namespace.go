package otp

import (
	"context"

	"github.com/mkrfoods/storefront/internal/domain"
)

// NamespaceStore scopes a ChallengeStore to one flow by prefixing every key.
// Flows configured onto the same durable backend (one DynamoDB table, one
// Redis database) each keep their own challenge per identity instead of
// overwriting each other's.
func NamespaceStore(s ChallengeStore, flow string) ChallengeStore {
	return &namespacedStore{next: s, prefix: flow + ":"}
}

type namespacedStore struct {
	next   ChallengeStore
	prefix string
}

func (n *namespacedStore) Put(ctx context.Context, c *domain.OTPChallenge) error {
	scoped := *c
	scoped.Key = n.prefix + c.Key
	return n.next.Put(ctx, &scoped)
}

func (n *namespacedStore) Get(ctx context.Context, key string) (*domain.OTPChallenge, error) {
	c, err := n.next.Get(ctx, n.prefix+key)
	if err != nil {
		return nil, err
	}
	c.Key = key
	return c, nil
}

func (n *namespacedStore) Delete(ctx context.Context, key string) error {
	return n.next.Delete(ctx, n.prefix+key)
}
