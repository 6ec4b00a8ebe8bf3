// Package memstore is the process-local challenge store. State lives and dies
// with the process and is invisible to other instances, so it only suits
// single-instance deployments; expiry is enforced lazily by the manager, never
// by a background sweep.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/mkrfoods/storefront/internal/domain"
)

type Store struct {
	mu         sync.RWMutex
	challenges map[string]domain.OTPChallenge
}

func New() *Store {
	return &Store{challenges: make(map[string]domain.OTPChallenge)}
}

func (s *Store) Put(_ context.Context, c *domain.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.Key] = *c
	return nil
}

func (s *Store) Get(_ context.Context, key string) (*domain.OTPChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.challenges[key]
	if !ok {
		return nil, fmt.Errorf("challenge for %s: %w", key, domain.ErrNotFound)
	}
	return &c, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, key)
	return nil
}
