// Package service implements calculation business logic: deriving codes from
// birth dates, resolving archetypes and persisting the consultation record.
package service

import (
	"context"
	"errors"
	"log/slog"

	archmodels "numina/internal/archetype/models"
	"numina/internal/calculation/models"
	"numina/internal/numerology"
	"numina/internal/platform/audit"
	id "numina/pkg/domain"
	dErrors "numina/pkg/domain-errors"
	"numina/pkg/platform/sentinel"
	"numina/pkg/requestcontext"
)

// Store persists calculations.
type Store interface {
	Insert(ctx context.Context, c *models.Calculation) error
	FindByID(ctx context.Context, calcID id.CalculationID) (*models.Calculation, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Calculation, error)
}

// ArchetypeResolver resolves code pairs to authored interpretations. Missing
// interpretations are simply absent from the result.
type ArchetypeResolver interface {
	GetBatch(ctx context.Context, pairs []numerology.CodePair) []*archmodels.Archetype
}

// Service coordinates calculation creation and retrieval.
type Service struct {
	logger     *slog.Logger
	store      Store
	archetypes ArchetypeResolver
	publisher  audit.Publisher
}

// Option configures a Service.
type Option func(*Service)

// WithAuditPublisher enables audit events for created calculations.
func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// NewService creates a calculation service.
func NewService(logger *slog.Logger, store Store, archetypes ArchetypeResolver, opts ...Option) *Service {
	s := &Service{
		logger:     logger,
		store:      store,
		archetypes: archetypes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries the request fields for a new calculation.
type CreateInput struct {
	Kind             models.Kind
	ClientName       string
	BirthDate        string
	PartnerName      string
	PartnerBirthDate string
	TargetQuery      string
}

// Result is a calculation together with its resolved archetypes.
type Result struct {
	Calculation       *models.Calculation     `json:"calculation"`
	Archetypes        []*archmodels.Archetype `json:"archetypes,omitempty"`
	PartnerArchetypes []*archmodels.Archetype `json:"partnerArchetypes,omitempty"`
}

// Create derives codes for the input, resolves archetypes and persists the
// calculation under the authenticated owner.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Result, error) {
	owner := requestcontext.UserID(ctx)
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	calc := &models.Calculation{
		ID:          id.NewCalculationID(),
		Kind:        input.Kind,
		ClientName:  input.ClientName,
		BirthDate:   input.BirthDate,
		PartnerName: input.PartnerName,
		TargetQuery: input.TargetQuery,
		CreatedBy:   owner,
		CreatedAt:   requestcontext.Now(ctx),
	}

	if input.Kind == models.KindPersonal || input.Kind == models.KindPartnership {
		codes, err := numerology.CalculateAll(input.BirthDate)
		if err != nil {
			return nil, err
		}
		calc.Codes = &codes
	}
	if input.Kind == models.KindPartnership {
		calc.PartnerBirthDate = input.PartnerBirthDate
		partnerCodes, err := numerology.CalculateAll(input.PartnerBirthDate)
		if err != nil {
			return nil, err
		}
		calc.PartnerCodes = &partnerCodes
	}

	if err := s.store.Insert(ctx, calc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist calculation")
	}

	s.emitCreated(ctx, calc)
	return s.resolve(ctx, calc), nil
}

// Get returns an owner's calculation with its archetypes resolved. Foreign
// calculations report not found rather than forbidden so IDs do not leak.
func (s *Service) Get(ctx context.Context, calcID id.CalculationID) (*Result, error) {
	owner := requestcontext.UserID(ctx)
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	calc, err := s.store.FindByID(ctx, calcID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "calculation not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load calculation")
	}
	if calc.CreatedBy != owner {
		return nil, dErrors.New(dErrors.CodeNotFound, "calculation not found")
	}

	return s.resolve(ctx, calc), nil
}

// List returns the authenticated owner's calculations, newest first.
func (s *Service) List(ctx context.Context) ([]*models.Calculation, error) {
	owner := requestcontext.UserID(ctx)
	if owner.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	calculations, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list calculations")
	}
	return calculations, nil
}

func (s *Service) resolve(ctx context.Context, calc *models.Calculation) *Result {
	result := &Result{Calculation: calc}
	if calc.Codes != nil {
		result.Archetypes = s.archetypes.GetBatch(ctx, calc.Codes.Pairs())
	}
	if calc.PartnerCodes != nil {
		result.PartnerArchetypes = s.archetypes.GetBatch(ctx, calc.PartnerCodes.Pairs())
	}
	return result
}

func (s *Service) emitCreated(ctx context.Context, calc *models.Calculation) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Emit(ctx, audit.Event{
		Action:    audit.ActionCalculationCreated,
		ActorID:   calc.CreatedBy,
		Subject:   "calculation:" + calc.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit publish failed",
			"action", string(audit.ActionCalculationCreated),
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func validateInput(input CreateInput) error {
	if !input.Kind.Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown calculation kind %q", input.Kind)
	}

	switch input.Kind {
	case models.KindPersonal:
		if input.ClientName == "" || input.BirthDate == "" {
			return dErrors.New(dErrors.CodeValidation, "personal calculation requires clientName and birthDate")
		}
	case models.KindPartnership:
		if input.ClientName == "" || input.BirthDate == "" || input.PartnerName == "" || input.PartnerBirthDate == "" {
			return dErrors.New(dErrors.CodeValidation, "partnership calculation requires both names and birth dates")
		}
	case models.KindTarget:
		if input.TargetQuery == "" {
			return dErrors.New(dErrors.CodeValidation, "target calculation requires targetQuery")
		}
	}
	return nil
}
