package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingHandler struct{ registered bool }

func (p *pingHandler) Register(r chi.Router) {
	p.registered = true
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestHealthzWithoutBackends(t *testing.T) {
	router := NewRouter(Dependencies{Logger: slog.New(slog.DiscardHandler)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, "disabled", got.Components["postgres"])
	assert.Equal(t, "disabled", got.Components["redis"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := NewRouter(Dependencies{Logger: slog.New(slog.DiscardHandler)})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestHandlersAreRegistered(t *testing.T) {
	ping := &pingHandler{}
	router := NewRouter(Dependencies{
		Logger:   slog.New(slog.DiscardHandler),
		Handlers: []Registrar{ping},
	})

	assert.True(t, ping.registered)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
