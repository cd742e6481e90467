// Package handler exposes calculation creation, retrieval and content
// generation over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"numina/internal/calculation/models"
	"numina/internal/calculation/service"
	"numina/internal/generation"
	"numina/internal/platform/middleware"
	"numina/internal/transport/http/shared"
	id "numina/pkg/domain"
	dErrors "numina/pkg/domain-errors"
	"numina/pkg/requestcontext"
)

// CalculationService defines the calculation operations the handler needs.
type CalculationService interface {
	Create(ctx context.Context, input service.CreateInput) (*service.Result, error)
	Get(ctx context.Context, calcID id.CalculationID) (*service.Result, error)
	List(ctx context.Context) ([]*models.Calculation, error)
}

// Generator produces consultation content for a calculation.
type Generator interface {
	GetOrGenerate(ctx context.Context, req generation.Request) (*generation.Result, error)
}

// Handler handles calculation endpoints.
type Handler struct {
	logger       *slog.Logger
	calculations CalculationService
	generator    Generator
	jwtValidator middleware.JWTValidator
}

// New creates a calculation Handler.
func New(calculations CalculationService, generator Generator, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		calculations: calculations,
		generator:    generator,
		jwtValidator: jwtValidator,
	}
}

// Register registers calculation routes with the chi router. All routes
// require a practitioner session.
func (h *Handler) Register(r chi.Router) {
	r.Route("/calculations", func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.RequestTime)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(90 * time.Second))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Post("/{id}/content", h.handleContent)
		r.Post("/{id}/chat", h.handleChat)
	})
}

type createRequest struct {
	Kind             string `json:"kind"`
	ClientName       string `json:"clientName"`
	BirthDate        string `json:"birthDate"`
	PartnerName      string `json:"partnerName"`
	PartnerBirthDate string `json:"partnerBirthDate"`
	TargetQuery      string `json:"targetQuery"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.calculations.Create(ctx, service.CreateInput{
		Kind:             models.Kind(req.Kind),
		ClientName:       req.ClientName,
		BirthDate:        req.BirthDate,
		PartnerName:      req.PartnerName,
		PartnerBirthDate: req.PartnerBirthDate,
		TargetQuery:      req.TargetQuery,
	})
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "create calculation failed",
				"kind", req.Kind,
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	calcID, err := id.ParseCalculationID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid calculation id"))
		return
	}

	result, err := h.calculations.Get(ctx, calcID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	calculations, err := h.calculations.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list calculations failed",
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"calculations": calculations})
}

type contentRequest struct {
	ContentType string `json:"contentType"`
}

func (h *Handler) handleContent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if generation.ContentType(req.ContentType) == generation.ContentChat {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "chat has its own endpoint"))
		return
	}

	h.generate(w, r, generation.ContentType(req.ContentType), "")
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	h.generate(w, r, generation.ContentChat, req.Message)
}

// generate resolves the calculation (which also enforces ownership) and runs
// the generation service.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request, contentType generation.ContentType, userMessage string) {
	ctx := r.Context()

	calcID, err := id.ParseCalculationID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid calculation id"))
		return
	}

	calc, err := h.calculations.Get(ctx, calcID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.generator.GetOrGenerate(ctx, generation.Request{
		CalculationID: calcID,
		ContentType:   contentType,
		ClientName:    calc.Calculation.ClientName,
		Archetypes:    append(calc.Archetypes, calc.PartnerArchetypes...),
		UserMessage:   userMessage,
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnavailable) || dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "content generation failed",
				"calculation_id", calcID.String(),
				"content_type", string(contentType),
				"error", err.Error(),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, result)
}
