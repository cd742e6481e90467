// Package audit records who changed consultation content and when. Services
// emit events through a Publisher; deployments route them to Kafka or, in dev
// and tests, to an in-memory store.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "numina/pkg/domain"
)

// Action names an auditable event.
type Action string

const (
	ActionArchetypeUpserted  Action = "archetype.upserted"
	ActionArchetypesReloaded Action = "archetypes.reloaded"
	ActionCalculationCreated Action = "calculation.created"
)

// Event is one audit record.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Action    Action    `json:"action"`
	ActorID   id.UserID `json:"actor_id,omitempty"`
	Subject   string    `json:"subject"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers audit events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Store persists audit events for querying.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}

// StorePublisher adapts a Store into a Publisher, stamping missing IDs and
// timestamps on the way through.
type StorePublisher struct {
	store Store
}

// NewStorePublisher wraps a store as a synchronous publisher.
func NewStorePublisher(store Store) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	Stamp(&event)
	return p.store.Append(ctx, event)
}

// Stamp fills a missing event ID and timestamp. Publishers call it so
// services only set the fields they care about.
func Stamp(event *Event) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
}
