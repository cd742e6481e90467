package store

import (
	"context"
	"sort"
	"sync"

	"numina/internal/calculation/models"
	id "numina/pkg/domain"
	"numina/pkg/platform/sentinel"
)

// InMemory is a thread-safe in-memory calculation store for tests and local
// development.
type InMemory struct {
	mu           sync.RWMutex
	calculations map[id.CalculationID]*models.Calculation
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{calculations: make(map[id.CalculationID]*models.Calculation)}
}

// Insert stores a calculation.
func (s *InMemory) Insert(_ context.Context, c *models.Calculation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.calculations[c.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *c
	s.calculations[c.ID] = &cp
	return nil
}

// FindByID returns the calculation, or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, calcID id.CalculationID) (*models.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.calculations[calcID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ListByOwner returns the owner's calculations, newest first.
func (s *InMemory) ListByOwner(_ context.Context, ownerID id.UserID) ([]*models.Calculation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var calculations []*models.Calculation
	for _, c := range s.calculations {
		if c.CreatedBy == ownerID {
			cp := *c
			calculations = append(calculations, &cp)
		}
	}
	sort.Slice(calculations, func(i, j int) bool {
		return calculations[i].CreatedAt.After(calculations[j].CreatedAt)
	})
	return calculations, nil
}

// Len reports how many calculations are stored.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calculations)
}
