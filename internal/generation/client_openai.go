package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"numina/pkg/platform/circuit"
	"numina/pkg/platform/sentinel"
)

const (
	defaultTimeout  = 60 * time.Second
	breakerCooldown = 30 * time.Second
)

// OpenAIClient speaks an OpenAI-compatible chat-completions API. A circuit
// breaker sheds calls while the backend is down so request handlers fail fast
// instead of stacking up on a dead upstream; after the cooldown a trial call
// goes through, and a success closes the circuit again.
type OpenAIClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	breaker    *circuit.Breaker
}

// OpenAIOption configures an OpenAIClient.
type OpenAIOption func(*OpenAIClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) OpenAIOption {
	return func(c *OpenAIClient) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(c *OpenAIClient) { c.httpClient.Timeout = d }
}

// NewOpenAIClient creates a client for the given backend.
func NewOpenAIClient(logger *slog.Logger, baseURL, apiKey, model string, opts ...OpenAIOption) *OpenAIClient {
	c := &OpenAIClient{
		logger:     logger,
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		breaker: circuit.New("generation-backend",
			circuit.WithFailureThreshold(3),
			circuit.WithCooldown(breakerCooldown)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate renders the request into a prompt and calls the backend.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	if c.breaker.IsOpen() {
		return "", fmt.Errorf("generation backend circuit open: %w", sentinel.ErrUnavailable)
	}

	text, err := c.complete(ctx, buildUserPrompt(req))
	if err != nil {
		if _, change := c.breaker.RecordFailure(); change.Opened {
			c.logger.ErrorContext(ctx, "generation backend circuit opened", "error", err.Error())
		}
		return "", err
	}

	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "generation backend circuit closed")
	}
	return text, nil
}

func (c *OpenAIClient) complete(ctx context.Context, userPrompt string) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call generation backend: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w: %w", sentinel.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation backend returned status %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if completion.Error != nil {
		return "", fmt.Errorf("generation backend error: %s: %w", completion.Error.Message, sentinel.ErrUnavailable)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("generation backend returned no choices: %w", sentinel.ErrUnavailable)
	}

	return completion.Choices[0].Message.Content, nil
}
