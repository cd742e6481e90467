// Package httptransport assembles the HTTP surface: domain handlers, health
// checking and Prometheus metrics.
package httptransport

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	redisplatform "numina/internal/platform/redis"
	"numina/internal/transport/http/shared"
)

// Registrar is implemented by domain handlers that attach their routes.
type Registrar interface {
	Register(r chi.Router)
}

// Dependencies carries everything the router needs. DB and Redis may be nil
// when the deployment runs without them; health reporting marks them disabled.
type Dependencies struct {
	Logger   *slog.Logger
	DB       *sql.DB
	Redis    *redisplatform.Client
	Handlers []Registrar
}

// NewRouter builds the root chi router.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", healthHandler(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for _, h := range deps.Handlers {
		h.Register(r)
	}
	return r
}

func healthHandler(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		components := map[string]string{}
		healthy := true

		if deps.DB == nil {
			components["postgres"] = "disabled"
		} else if err := deps.DB.PingContext(ctx); err != nil {
			components["postgres"] = "unreachable"
			healthy = false
		} else {
			components["postgres"] = "ok"
		}

		if deps.Redis == nil {
			components["redis"] = "disabled"
		} else if err := deps.Redis.Health(ctx); err != nil {
			components["redis"] = "unreachable"
			healthy = false
		} else {
			components["redis"] = "ok"
		}

		status := http.StatusOK
		state := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		shared.WriteJSON(w, status, map[string]any{
			"status":     state,
			"components": components,
		})
	}
}
