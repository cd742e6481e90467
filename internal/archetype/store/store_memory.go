package store

import (
	"context"
	"sort"
	"sync"

	"numina/internal/archetype/models"
	"numina/pkg/platform/sentinel"
)

// InMemory is a map-backed archetype store. It backs dev mode without
// Postgres and serves as the remote-store double in service tests.
type InMemory struct {
	mu      sync.RWMutex
	records map[models.Key]*models.Archetype
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{records: make(map[models.Key]*models.Archetype)}
}

// List returns all records ordered by (code type, value).
func (s *InMemory) List(_ context.Context) ([]*models.Archetype, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	archetypes := make([]*models.Archetype, 0, len(s.records))
	for _, a := range s.records {
		archetypes = append(archetypes, a)
	}
	sort.Slice(archetypes, func(i, j int) bool {
		if archetypes[i].CodeType != archetypes[j].CodeType {
			return archetypes[i].CodeType < archetypes[j].CodeType
		}
		return archetypes[i].Value < archetypes[j].Value
	})
	return archetypes, nil
}

// Find returns the record for a key, or sentinel.ErrNotFound.
func (s *InMemory) Find(_ context.Context, key models.Key) (*models.Archetype, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.records[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return a, nil
}

// Upsert inserts or replaces the record under its key.
func (s *InMemory) Upsert(_ context.Context, a *models.Archetype) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[a.Key()] = a
	return nil
}

// Len reports the number of stored records.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
