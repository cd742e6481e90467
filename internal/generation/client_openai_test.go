package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numina/internal/archetype/models"
	id "numina/pkg/domain"
	"numina/pkg/platform/circuit"
	"numina/pkg/platform/sentinel"
)

func completionResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": text}},
		},
	})
	return string(body)
}

func TestOpenAIClientGenerate(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq chatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("a grounded summary")))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testLogger(), srv.URL, "sk-test", "gpt-4o-mini")

	text, err := client.Generate(context.Background(), Request{
		CalculationID: id.NewCalculationID(),
		ContentType:   ContentSummary,
		ClientName:    "Anna",
		Archetypes: []*models.Archetype{
			{CodeType: "personality", Value: 6, Title: "The Caretaker"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "a grounded summary", text)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "Anna")
	assert.Contains(t, gotReq.Messages[1].Content, "The Caretaker")
}

func TestOpenAIClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewOpenAIClient(testLogger(), srv.URL, "", "gpt-4o-mini")

	_, err := client.Generate(context.Background(), Request{ContentType: ContentSummary})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestOpenAIClientCircuitOpensAfterFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenAIClient(testLogger(), srv.URL, "", "gpt-4o-mini")

	for range 3 {
		_, err := client.Generate(context.Background(), Request{ContentType: ContentSummary})
		require.Error(t, err)
	}
	assert.Equal(t, 3, calls)

	// Circuit is open now: calls fail fast without reaching the backend.
	_, err := client.Generate(context.Background(), Request{ContentType: ContentSummary})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	assert.True(t, strings.Contains(err.Error(), "circuit open"))
	assert.Equal(t, 3, calls)
}

func TestOpenAIClientRecoversAfterCooldown(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 3 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("back on the air")))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testLogger(), srv.URL, "", "gpt-4o-mini")
	client.breaker = circuit.New("generation-backend",
		circuit.WithFailureThreshold(3),
		circuit.WithCooldown(0))

	for range 3 {
		_, err := client.Generate(context.Background(), Request{ContentType: ContentSummary})
		require.Error(t, err)
	}
	require.Equal(t, 3, calls)

	// The backend has recovered and the cooldown has elapsed: the trial call
	// must reach it and close the circuit, not fail fast forever.
	text, err := client.Generate(context.Background(), Request{ContentType: ContentSummary})
	require.NoError(t, err)
	assert.Equal(t, "back on the air", text)
	assert.Equal(t, 4, calls)
	assert.False(t, client.breaker.IsOpen())
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewOpenAIClient(testLogger(), srv.URL, "", "gpt-4o-mini")

	_, err := client.Generate(context.Background(), Request{ContentType: ContentSummary})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}
