package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/console/internal/domain/price"
	ierr "github.com/flexprice/console/internal/errors"
)

// InMemoryPriceStore implements price.Repository
type InMemoryPriceStore struct {
	mu     sync.RWMutex
	prices map[string]*price.Price
}

func NewInMemoryPriceStore(prices ...*price.Price) *InMemoryPriceStore {
	s := &InMemoryPriceStore{
		prices: make(map[string]*price.Price),
	}
	for _, p := range prices {
		s.prices[p.ID] = p
	}
	return s
}

// Put adds or replaces a price
func (s *InMemoryPriceStore) Put(p *price.Price) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[p.ID] = p
}

func (s *InMemoryPriceStore) Get(ctx context.Context, id string) (*price.Price, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, exists := s.prices[id]; exists {
		return p, nil
	}
	return nil, ierr.NewError("price not found").
		WithHintf("Price %s was not found", id).
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryPriceStore) List(ctx context.Context, ids []string) ([]*price.Price, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*price.Price, 0, len(ids))
	for _, id := range ids {
		if p, exists := s.prices[id]; exists {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *InMemoryPriceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices = make(map[string]*price.Price)
}
