// Package handler exposes archetype lookup and authoring over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"numina/internal/archetype/models"
	"numina/internal/numerology"
	"numina/internal/platform/middleware"
	"numina/internal/transport/http/shared"
	dErrors "numina/pkg/domain-errors"
	"numina/pkg/requestcontext"
)

// Service defines the archetype operations the handler needs.
type Service interface {
	Get(ctx context.Context, rawType string, value int) *models.Archetype
	GetBatch(ctx context.Context, pairs []numerology.CodePair) []*models.Archetype
	Upsert(ctx context.Context, a *models.Archetype) error
	UpsertBatch(ctx context.Context, records []*models.Archetype) error
	Load(ctx context.Context, force bool) bool
}

// Handler handles archetype endpoints.
type Handler struct {
	logger       *slog.Logger
	archetypes   Service
	jwtValidator middleware.JWTValidator
	adminToken   string
}

// New creates an archetype Handler.
func New(archetypes Service, logger *slog.Logger, jwtValidator middleware.JWTValidator, adminToken string) *Handler {
	return &Handler{
		logger:       logger,
		archetypes:   archetypes,
		jwtValidator: jwtValidator,
		adminToken:   adminToken,
	}
}

// Register registers archetype routes with the chi router. Lookup routes
// require a practitioner session; authoring routes require the admin token.
func (h *Handler) Register(r chi.Router) {
	r.Route("/archetypes", func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.RequestTime)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(15 * time.Second))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/{type}/{value}", h.handleGet)
		r.Post("/batch", h.handleGetBatch)
	})

	r.Route("/admin/archetypes", func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.RequestTime)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireAdminToken(h.adminToken, h.logger))
		r.Put("/", h.handleUpsert)
		r.Post("/bulk", h.handleUpsertBulk)
		r.Post("/reload", h.handleReload)
	})
}

// handleGet looks up one archetype. A miss is not an error condition for the
// service, so the handler owns the 404 shape: a placeholder the client can
// render for codes nobody has authored yet.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawType := chi.URLParam(r, "type")
	value, err := strconv.Atoi(chi.URLParam(r, "value"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "archetype value must be an integer"))
		return
	}

	if a := h.archetypes.Get(ctx, rawType, value); a != nil {
		shared.WriteJSON(w, http.StatusOK, a)
		return
	}

	shared.WriteJSON(w, http.StatusNotFound, placeholderResponse{
		CodeType: string(numerology.NormalizeCodeType(rawType)),
		Value:    value,
		Authored: false,
	})
}

func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req batchLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if len(req.Pairs) == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "at least one pair is required"))
		return
	}

	pairs := make([]numerology.CodePair, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		pairs = append(pairs, numerology.CodePair{
			Type:  numerology.NormalizeCodeType(p.CodeType),
			Value: p.Value,
		})
	}

	shared.WriteJSON(w, http.StatusOK, batchLookupResponse{
		Archetypes: h.archetypes.GetBatch(ctx, pairs),
	})
}

// handleUpsert accepts the admin authoring form. List fields arrive as
// free-form textarea content and are split server-side.
func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req upsertArchetypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	archetype := req.toArchetype()
	if err := h.archetypes.Upsert(ctx, archetype); err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "archetype upsert failed",
			"code_type", req.CodeType,
			"value", req.Value,
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, archetype)
}

func (h *Handler) handleUpsertBulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bulkUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if len(req.Archetypes) == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "at least one archetype is required"))
		return
	}

	records := make([]*models.Archetype, 0, len(req.Archetypes))
	for _, rec := range req.Archetypes {
		records = append(records, models.FromStorage(&rec))
	}

	err := h.archetypes.UpsertBatch(ctx, records)
	if err != nil {
		h.logger.WarnContext(ctx, "bulk upsert completed with failures",
			"total", len(records),
			"error", err.Error(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	shared.WriteJSON(w, http.StatusOK, bulkUpsertResponse{
		Total:  len(records),
		Errors: splitJoined(err),
	})
}

// handleReload forces a cache rebuild from the remote store.
func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	loaded := h.archetypes.Load(ctx, true)
	if !loaded {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "no archetype source is reachable"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, reloadResponse{Loaded: true})
}
