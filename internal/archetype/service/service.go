// Package service implements the archetype repository: an in-memory cache of
// archetype records keyed by (normalized code type, value), loaded through a
// three-tier chain (cache, remote store, local fallback) and written through
// on upsert.
//
// The read path never returns errors. A store failure degrades to the next
// tier and a missing record is a normal "not yet authored" state reported as
// a nil result, because a missing description must never break a
// consultation session.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"numina/internal/archetype/metrics"
	"numina/internal/archetype/models"
	"numina/internal/numerology"
	dErrors "numina/pkg/domain-errors"
	"numina/pkg/platform/sentinel"
)

// RemoteStore is the durable source of truth for archetype records.
type RemoteStore interface {
	List(ctx context.Context) ([]*models.Archetype, error)
	Find(ctx context.Context, key models.Key) (*models.Archetype, error)
	Upsert(ctx context.Context, a *models.Archetype) error
}

// FallbackStore is the local persisted mirror used when the remote store is
// unreachable or empty.
type FallbackStore interface {
	List(ctx context.Context) ([]*models.Archetype, error)
	Replace(ctx context.Context, archetypes []*models.Archetype) error
}

// Service owns the in-memory archetype cache. The cache is the only shared
// mutable state here and is mutated exclusively by this service.
type Service struct {
	logger   *slog.Logger
	remote   RemoteStore
	fallback FallbackStore
	metrics  *metrics.Metrics
	emitter  *auditEmitter
	tracer   trace.Tracer

	mu    sync.RWMutex
	cache map[models.Key]*models.Archetype
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithFallback attaches the local persisted fallback tier.
func WithFallback(fallback FallbackStore) Option {
	return func(s *Service) { s.fallback = fallback }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditPublisher attaches an audit event publisher.
func WithAuditPublisher(pub auditPublisher) Option {
	return func(s *Service) { s.emitter = newAuditEmitter(s.logger, pub) }
}

// New creates an archetype repository over the given remote store.
func New(remote RemoteStore, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		logger: logger,
		remote: remote,
		tracer: otel.Tracer("numina/archetype"),
		cache:  make(map[models.Key]*models.Archetype),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.emitter == nil {
		s.emitter = newAuditEmitter(logger, nil)
	}
	return s
}

// Load populates the cache. With force false a non-empty cache is trusted and
// no I/O happens. Otherwise the remote store is queried; on failure or an
// empty result the fallback tier is tried, and records found only in the
// fallback while the remote store is merely empty are migrated back to it.
//
// Load never returns an error: every failure degrades to the next tier and is
// logged. The result reports whether the cache is non-empty by any path.
func (s *Service) Load(ctx context.Context, force bool) bool {
	if !force && s.CachedCount() > 0 {
		s.metrics.RecordLoad("cache")
		return true
	}

	ctx, span := s.tracer.Start(ctx, "archetype.Load",
		trace.WithAttributes(attribute.Bool("force", force)))
	defer span.End()

	records, err := s.remote.List(ctx)
	remoteFailed := err != nil
	if remoteFailed {
		s.logger.WarnContext(ctx, "remote archetype store unavailable, trying fallback",
			"error", err.Error(),
		)
	}

	if !remoteFailed && len(records) > 0 {
		s.replaceCache(records)
		s.mirrorToFallback(ctx, records)
		s.metrics.RecordLoad("remote")
		if force {
			s.emitter.emitReloaded(ctx, len(records))
		}
		return true
	}

	records = s.loadFromFallback(ctx)
	if len(records) > 0 {
		s.replaceCache(records)
		if !remoteFailed {
			// Remote store reachable but empty: seed it from the fallback copy.
			s.migrateToRemote(ctx, records)
		}
		s.metrics.RecordLoad("fallback")
		if force {
			s.emitter.emitReloaded(ctx, len(records))
		}
		return true
	}

	s.metrics.RecordLoad("none")
	return s.CachedCount() > 0
}

// Get resolves one (code type, value) pair through the read-through cache.
// The raw code type is normalized here, at the boundary; internal comparisons
// use normalized keys only. A nil result means no description has been
// authored for the pair; callers render a placeholder, they do not fail.
//
// The wildcard type "all" matches any cached record with the given value;
// which one wins is unspecified.
func (s *Service) Get(ctx context.Context, rawType string, value int) *models.Archetype {
	start := time.Now()
	codeType := numerology.NormalizeCodeType(rawType)

	ctx, span := s.tracer.Start(ctx, "archetype.Get",
		trace.WithAttributes(
			attribute.String("code_type", string(codeType)),
			attribute.Int("value", value),
		))
	defer span.End()
	defer func() {
		s.metrics.ObserveLookupDuration(string(codeType), time.Since(start).Seconds())
	}()

	if codeType == numerology.CodeTypeAll {
		return s.anyCachedWithValue(value)
	}

	key := models.Key{CodeType: codeType, Value: value}
	if a := s.cached(key); a != nil {
		s.metrics.RecordCacheHit(string(codeType))
		return a
	}
	s.metrics.RecordCacheMiss(string(codeType))

	a, err := s.remote.Find(ctx, key)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "archetype lookup failed, rendering placeholder",
				"code_type", codeType,
				"value", value,
				"error", err.Error(),
			)
		}
		return nil
	}

	s.mu.Lock()
	s.cache[key] = a
	s.mu.Unlock()
	return a
}

// GetBatch resolves pairs concurrently and independently, preserving input
// order with misses dropped. Individual lookups race freely; there is no
// defined completion order within a batch.
func (s *Service) GetBatch(ctx context.Context, pairs []numerology.CodePair) []*models.Archetype {
	results := make([]*models.Archetype, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		g.Go(func() error {
			results[i] = s.Get(ctx, string(pair.Type), pair.Value)
			return nil
		})
	}
	_ = g.Wait() // lookups never return errors

	resolved := make([]*models.Archetype, 0, len(pairs))
	for _, a := range results {
		if a != nil {
			resolved = append(resolved, a)
		}
	}
	return resolved
}

// Upsert normalizes the record's code type, writes it to the remote store
// (update-else-insert on the key) and only then replaces the cache entry, so
// the cache never reflects an unconfirmed write. A failed write leaves the
// cache untouched and returns a coded error.
func (s *Service) Upsert(ctx context.Context, a *models.Archetype) error {
	if a == nil {
		return dErrors.New(dErrors.CodeBadRequest, "archetype record is required")
	}

	normalized := *a
	normalized.CodeType = numerology.NormalizeCodeType(string(a.CodeType))
	if !normalized.CodeType.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown code type %q", a.CodeType)
	}
	if normalized.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "archetype title is required")
	}
	if normalized.Payload != nil && normalized.Payload.Type() != normalized.CodeType {
		return dErrors.Newf(dErrors.CodeValidation, "payload variant %q does not match code type %q",
			normalized.Payload.Type(), normalized.CodeType)
	}

	if err := s.remote.Upsert(ctx, &normalized); err != nil {
		s.metrics.RecordUpsertFailure()
		s.logger.ErrorContext(ctx, "archetype upsert rejected by remote store",
			"code_type", normalized.CodeType,
			"value", normalized.Value,
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to save archetype")
	}

	s.mu.Lock()
	s.cache[normalized.Key()] = &normalized
	s.mu.Unlock()

	s.emitter.emitArchetypeUpserted(ctx, normalized.Key())
	return nil
}

// UpsertBatch applies Upsert to each record independently. Records that
// succeed stay committed even when later ones fail; there is no rollback.
// The returned error is nil only when every record was saved.
func (s *Service) UpsertBatch(ctx context.Context, records []*models.Archetype) error {
	var errs []error
	for _, a := range records {
		if err := s.Upsert(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CachedCount reports the number of cached records.
func (s *Service) CachedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func (s *Service) cached(key models.Key) *models.Archetype {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key]
}

func (s *Service) anyCachedWithValue(value int) *models.Archetype {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, a := range s.cache {
		if key.Value == value {
			return a
		}
	}
	return nil
}

func (s *Service) replaceCache(records []*models.Archetype) {
	next := make(map[models.Key]*models.Archetype, len(records))
	for _, a := range records {
		next[a.Key()] = a
	}
	s.mu.Lock()
	s.cache = next
	s.mu.Unlock()
}

func (s *Service) loadFromFallback(ctx context.Context) []*models.Archetype {
	if s.fallback == nil {
		return nil
	}
	records, err := s.fallback.List(ctx)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "archetype fallback store unavailable",
				"error", err.Error(),
			)
		}
		return nil
	}
	return records
}

// mirrorToFallback refreshes the local fallback blob after a successful
// remote load. Best effort.
func (s *Service) mirrorToFallback(ctx context.Context, records []*models.Archetype) {
	if s.fallback == nil {
		return
	}
	if err := s.fallback.Replace(ctx, records); err != nil {
		s.logger.WarnContext(ctx, "failed to refresh archetype fallback",
			"error", err.Error(),
		)
	}
}

// migrateToRemote writes fallback-only records back to the empty remote
// store. Best effort per record.
func (s *Service) migrateToRemote(ctx context.Context, records []*models.Archetype) {
	migrated := 0
	for _, a := range records {
		if err := s.remote.Upsert(ctx, a); err != nil {
			s.logger.WarnContext(ctx, "failed to migrate archetype to remote store",
				"code_type", a.CodeType,
				"value", a.Value,
				"error", err.Error(),
			)
			continue
		}
		migrated++
	}
	if migrated > 0 {
		s.logger.InfoContext(ctx, "migrated archetypes from fallback to remote store",
			"count", migrated,
		)
	}
}
