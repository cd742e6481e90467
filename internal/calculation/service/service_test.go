package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	archmodels "numina/internal/archetype/models"
	"numina/internal/calculation/models"
	"numina/internal/calculation/store"
	"numina/internal/numerology"
	"numina/internal/platform/audit"
	id "numina/pkg/domain"
	dErrors "numina/pkg/domain-errors"
	"numina/pkg/requestcontext"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// stubResolver returns a stub archetype per pair and records the batches it
// was asked to resolve.
type stubResolver struct {
	batches [][]numerology.CodePair
}

func (r *stubResolver) GetBatch(_ context.Context, pairs []numerology.CodePair) []*archmodels.Archetype {
	r.batches = append(r.batches, pairs)
	archetypes := make([]*archmodels.Archetype, 0, len(pairs))
	for _, p := range pairs {
		archetypes = append(archetypes, &archmodels.Archetype{
			CodeType: p.Type,
			Value:    p.Value,
			Title:    "stub",
		})
	}
	return archetypes
}

func testOwner(t *testing.T) id.UserID {
	t.Helper()
	owner, err := id.ParseUserID("5f2c2f7e-7a1e-4d0c-9b7a-1d3b9f6e8a01")
	require.NoError(t, err)
	return owner
}

func authedCtx(t *testing.T) context.Context {
	return requestcontext.WithUserID(context.Background(), testOwner(t))
}

func newTestService(t *testing.T) (*Service, *store.InMemory, *stubResolver, *audit.InMemoryStore) {
	t.Helper()
	memStore := store.NewInMemory()
	resolver := &stubResolver{}
	auditStore := audit.NewInMemoryStore()
	svc := NewService(testLogger(), memStore, resolver,
		WithAuditPublisher(audit.NewStorePublisher(auditStore)))
	return svc, memStore, resolver, auditStore
}

func TestCreatePersonal(t *testing.T) {
	svc, memStore, resolver, auditStore := newTestService(t)
	ctx := authedCtx(t)

	result, err := svc.Create(ctx, CreateInput{
		Kind:       models.KindPersonal,
		ClientName: "Anna",
		BirthDate:  "1990-05-15",
	})
	require.NoError(t, err)

	calc := result.Calculation
	require.NotNil(t, calc.Codes)
	assert.Equal(t, numerology.CodeSet{Personality: 6, Connector: 3, Realization: 9, Generator: 3, Mission: 9}, *calc.Codes)
	assert.Nil(t, calc.PartnerCodes)
	assert.Equal(t, testOwner(t), calc.CreatedBy)

	assert.Len(t, result.Archetypes, 5)
	assert.Empty(t, result.PartnerArchetypes)
	require.Len(t, resolver.batches, 1)

	assert.Equal(t, 1, memStore.Len())

	events, err := auditStore.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionCalculationCreated, events[0].Action)
	assert.Equal(t, "calculation:"+calc.ID.String(), events[0].Subject)
}

func TestCreatePartnership(t *testing.T) {
	svc, _, resolver, _ := newTestService(t)

	result, err := svc.Create(authedCtx(t), CreateInput{
		Kind:             models.KindPartnership,
		ClientName:       "Anna",
		BirthDate:        "1990-05-15",
		PartnerName:      "Boris",
		PartnerBirthDate: "1992-05-15",
	})
	require.NoError(t, err)

	calc := result.Calculation
	require.NotNil(t, calc.Codes)
	require.NotNil(t, calc.PartnerCodes)
	assert.Equal(t, 11, calc.PartnerCodes.Mission)

	assert.Len(t, result.Archetypes, 5)
	assert.Len(t, result.PartnerArchetypes, 5)
	assert.Len(t, resolver.batches, 2)
}

func TestCreateTarget(t *testing.T) {
	svc, _, resolver, _ := newTestService(t)

	result, err := svc.Create(authedCtx(t), CreateInput{
		Kind:        models.KindTarget,
		TargetQuery: "should I change careers this year?",
	})
	require.NoError(t, err)

	assert.Nil(t, result.Calculation.Codes)
	assert.Empty(t, result.Archetypes)
	assert.Empty(t, resolver.batches, "target calculations have no codes to resolve")
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := authedCtx(t)

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"unknown kind", CreateInput{Kind: "cosmic"}},
		{"personal without name", CreateInput{Kind: models.KindPersonal, BirthDate: "1990-05-15"}},
		{"personal without date", CreateInput{Kind: models.KindPersonal, ClientName: "Anna"}},
		{"partnership without partner", CreateInput{Kind: models.KindPartnership, ClientName: "Anna", BirthDate: "1990-05-15"}},
		{"target without query", CreateInput{Kind: models.KindTarget}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestCreateMalformedDate(t *testing.T) {
	svc, memStore, _, _ := newTestService(t)

	_, err := svc.Create(authedCtx(t), CreateInput{
		Kind:       models.KindPersonal,
		ClientName: "Anna",
		BirthDate:  "15.05.1990",
	})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Zero(t, memStore.Len())
}

func TestCreateRequiresAuth(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Kind:       models.KindPersonal,
		ClientName: "Anna",
		BirthDate:  "1990-05-15",
	})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestGetOwnCalculation(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := authedCtx(t)

	created, err := svc.Create(ctx, CreateInput{
		Kind:       models.KindPersonal,
		ClientName: "Anna",
		BirthDate:  "1990-05-15",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.Calculation.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Calculation.ID, got.Calculation.ID)
	assert.Len(t, got.Archetypes, 5)
}

func TestGetForeignCalculationNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	created, err := svc.Create(authedCtx(t), CreateInput{
		Kind:       models.KindPersonal,
		ClientName: "Anna",
		BirthDate:  "1990-05-15",
	})
	require.NoError(t, err)

	other, err := id.ParseUserID("0d3f1a9c-2b4e-4f6a-8c1d-9e7b5a3c2f10")
	require.NoError(t, err)
	otherCtx := requestcontext.WithUserID(context.Background(), other)

	_, err = svc.Get(otherCtx, created.Calculation.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestGetUnknownCalculation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Get(authedCtx(t), id.NewCalculationID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestListNewestFirst(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	owner := testOwner(t)

	for i := range 3 {
		ctx := requestcontext.WithUserID(context.Background(), owner)
		ctx = requestcontext.WithTime(ctx, base.Add(time.Duration(i)*time.Hour))
		_, err := svc.Create(ctx, CreateInput{
			Kind:       models.KindPersonal,
			ClientName: "Anna",
			BirthDate:  "1990-05-15",
		})
		require.NoError(t, err)
	}

	list, err := svc.List(requestcontext.WithUserID(context.Background(), owner))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
	assert.True(t, list[1].CreatedAt.After(list[2].CreatedAt))
}
