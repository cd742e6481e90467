package generation

import (
	"context"
	"errors"
	"log/slog"

	dErrors "numina/pkg/domain-errors"
	"numina/pkg/platform/sentinel"
	"numina/pkg/requestcontext"
)

// Service is the generation entry point for handlers. It fronts the Client
// with a per-calculation content cache; chat turns always go to the backend.
type Service struct {
	logger *slog.Logger
	client Client
	cache  ContentCache
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables the per-calculation content cache.
func WithCache(cache ContentCache) Option {
	return func(s *Service) { s.cache = cache }
}

// NewService creates a generation service.
func NewService(logger *slog.Logger, client Client, opts ...Option) *Service {
	s := &Service{
		logger: logger,
		client: client,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrGenerate returns the cached section when one exists, otherwise calls
// the backend and caches the result. Chat requests bypass the cache in both
// directions. Cache failures degrade to a direct generation call.
func (s *Service) GetOrGenerate(ctx context.Context, req Request) (*Result, error) {
	if !req.ContentType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown content type %q", req.ContentType)
	}
	if req.ContentType == ContentChat && req.UserMessage == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "chat requires a user message")
	}

	cacheable := req.ContentType != ContentChat

	if cacheable && s.cache != nil {
		text, err := s.cache.Get(ctx, req.CalculationID, req.ContentType)
		switch {
		case err == nil:
			return &Result{Text: text, Cached: true}, nil
		case !errors.Is(err, sentinel.ErrNotFound):
			s.logger.WarnContext(ctx, "content cache read failed, generating directly",
				"calculation_id", req.CalculationID.String(),
				"content_type", string(req.ContentType),
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}

	text, err := s.client.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, sentinel.ErrUnavailable) {
			return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "generation backend unavailable")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "generation failed")
	}

	if cacheable && s.cache != nil {
		if err := s.cache.Set(ctx, req.CalculationID, req.ContentType, text); err != nil {
			s.logger.WarnContext(ctx, "content cache write failed",
				"calculation_id", req.CalculationID.String(),
				"content_type", string(req.ContentType),
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}

	return &Result{Text: text}, nil
}
