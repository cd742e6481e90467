package service

import (
	"context"
	"fmt"
	"log/slog"

	"numina/internal/archetype/models"
	"numina/internal/platform/audit"
	"numina/pkg/requestcontext"
)

type auditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// auditEmitter wraps the publisher so services can emit without nil checks.
// Publish failures are logged, never propagated: losing an audit event must
// not fail the edit that caused it.
type auditEmitter struct {
	logger    *slog.Logger
	publisher auditPublisher
}

func newAuditEmitter(logger *slog.Logger, publisher auditPublisher) *auditEmitter {
	return &auditEmitter{logger: logger, publisher: publisher}
}

func (e *auditEmitter) emitArchetypeUpserted(ctx context.Context, key models.Key) {
	e.emit(ctx, audit.Event{
		Action:    audit.ActionArchetypeUpserted,
		ActorID:   requestcontext.UserID(ctx),
		Subject:   fmt.Sprintf("archetype:%s:%d", key.CodeType, key.Value),
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: requestcontext.Now(ctx),
	})
}

func (e *auditEmitter) emitReloaded(ctx context.Context, count int) {
	e.emit(ctx, audit.Event{
		Action:    audit.ActionArchetypesReloaded,
		ActorID:   requestcontext.UserID(ctx),
		Subject:   fmt.Sprintf("archetypes:%d", count),
		RequestID: requestcontext.RequestID(ctx),
		Timestamp: requestcontext.Now(ctx),
	})
}

func (e *auditEmitter) emit(ctx context.Context, event audit.Event) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Emit(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "failed to publish audit event",
			"action", event.Action,
			"subject", event.Subject,
			"error", err.Error(),
		)
	}
}
