package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"numina/internal/archetype/models"
	"numina/pkg/platform/sentinel"
)

// fallbackKey is the single blob slot holding the whole archetype list.
const fallbackKey = "numina:archetypes:fallback"

// RedisFallback is the local persisted fallback tier: one JSON blob with the
// full archetype list, read only when the remote store is unreachable or
// empty, and rewritten opportunistically after successful remote loads.
type RedisFallback struct {
	client *redis.Client
}

// NewRedisFallback constructs the Redis-backed fallback store.
func NewRedisFallback(client *redis.Client) *RedisFallback {
	return &RedisFallback{client: client}
}

// List returns the archetypes stored in the fallback blob.
// Returns sentinel.ErrNotFound when the slot is empty.
func (s *RedisFallback) List(ctx context.Context) ([]*models.Archetype, error) {
	payload, err := s.client.Get(ctx, fallbackKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("read archetype fallback: %w", err)
	}

	var records []*models.StorageRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode archetype fallback: %w", err)
	}

	archetypes := make([]*models.Archetype, 0, len(records))
	for _, rec := range records {
		archetypes = append(archetypes, models.FromStorage(rec))
	}
	return archetypes, nil
}

// Replace overwrites the fallback blob with the given list.
func (s *RedisFallback) Replace(ctx context.Context, archetypes []*models.Archetype) error {
	records := make([]*models.StorageRecord, 0, len(archetypes))
	for _, a := range archetypes {
		records = append(records, models.ToStorage(a))
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode archetype fallback: %w", err)
	}
	if err := s.client.Set(ctx, fallbackKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("write archetype fallback: %w", err)
	}
	return nil
}
