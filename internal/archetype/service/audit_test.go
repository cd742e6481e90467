package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numina/internal/archetype/store"
	"numina/internal/numerology"
	"numina/internal/platform/audit"
)

func TestUpsertEmitsAuditEvent(t *testing.T) {
	ctx := context.Background()
	auditStore := audit.NewInMemoryStore()
	svc := New(store.NewInMemory(), testLogger(),
		WithAuditPublisher(audit.NewStorePublisher(auditStore)))

	require.NoError(t, svc.Upsert(ctx, archetype(numerology.CodeTypeMission, 7, "The Seeker")))

	events, err := auditStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionArchetypeUpserted, events[0].Action)
	assert.Equal(t, "archetype:mission:7", events[0].Subject)
}

func TestForcedReloadEmitsAuditEvent(t *testing.T) {
	ctx := context.Background()
	auditStore := audit.NewInMemoryStore()
	remote := seeded(t, archetype(numerology.CodeTypePersonality, 6, "The Caretaker"))
	svc := New(remote, testLogger(),
		WithAuditPublisher(audit.NewStorePublisher(auditStore)))

	require.True(t, svc.Load(ctx, true))

	events, err := auditStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionArchetypesReloaded, events[0].Action)
}

func TestFailedUpsertEmitsNothing(t *testing.T) {
	ctx := context.Background()
	auditStore := audit.NewInMemoryStore()
	svc := New(failingRemote{}, testLogger(),
		WithAuditPublisher(audit.NewStorePublisher(auditStore)))

	require.Error(t, svc.Upsert(ctx, archetype(numerology.CodeTypeMission, 7, "The Seeker")))

	events, err := auditStore.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}
