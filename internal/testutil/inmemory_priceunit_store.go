package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/flexprice/console/internal/domain/priceunit"
	ierr "github.com/flexprice/console/internal/errors"
)

// InMemoryPriceUnitStore implements priceunit.Repository
type InMemoryPriceUnitStore struct {
	mu    sync.RWMutex
	units []*priceunit.PriceUnit
}

func NewInMemoryPriceUnitStore(units ...*priceunit.PriceUnit) *InMemoryPriceUnitStore {
	return &InMemoryPriceUnitStore{units: units}
}

func (s *InMemoryPriceUnitStore) List(ctx context.Context) ([]*priceunit.PriceUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*priceunit.PriceUnit(nil), s.units...), nil
}

func (s *InMemoryPriceUnitStore) GetByCode(ctx context.Context, code string) (*priceunit.PriceUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.units {
		if strings.EqualFold(u.Code, code) {
			return u, nil
		}
	}
	return nil, ierr.NewError("price unit not found").
		WithHintf("Price unit %s was not found", code).
		Mark(ierr.ErrNotFound)
}

// Put adds a price unit
func (s *InMemoryPriceUnitStore) Put(u *priceunit.PriceUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units = append(s.units, u)
}
