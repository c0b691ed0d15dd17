package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"

	"regintel-backend/metrics"
)

var (
	ErrLLMUnavailable    = errors.New("llm client not configured")
	ErrLLMEmptyResponse  = errors.New("llm returned empty response")
	ErrLLMInvalidJSON    = errors.New("llm response is not valid json")
	ErrLLMRetryExhausted = errors.New("llm operation failed after retries")
)

const llmInitialBackoff = 200 * time.Millisecond

// TextGenerator is the generation surface the services depend on
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (map[string]any, error)
}

// LLMClient wraps the Gemini client with per-operation timeout, retry with
// linear backoff and metrics
type LLMClient struct {
	client     *genai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

// LLMOption is a functional option for LLMClient
type LLMOption func(*LLMClient)

// LLMWithModel sets the generation model name
func LLMWithModel(model string) LLMOption {
	return func(c *LLMClient) {
		c.model = model
	}
}

// LLMWithTimeout bounds each generation attempt
func LLMWithTimeout(d time.Duration) LLMOption {
	return func(c *LLMClient) {
		c.timeout = d
	}
}

// LLMWithMaxRetries sets how many times a failed operation is retried
func LLMWithMaxRetries(n int) LLMOption {
	return func(c *LLMClient) {
		c.maxRetries = n
	}
}

// LLMWithMetrics sets the metrics sink
func LLMWithMetrics(m *metrics.Metrics) LLMOption {
	return func(c *LLMClient) {
		c.metrics = m
	}
}

// LLMWithLogger sets the client logger
func LLMWithLogger(log zerolog.Logger) LLMOption {
	return func(c *LLMClient) {
		c.log = log
	}
}

// NewLLMClient creates a Gemini-backed text generator
func NewLLMClient(client *genai.Client, opts ...LLMOption) *LLMClient {
	c := &LLMClient{
		client:     client,
		model:      "gemini-2.5-flash",
		timeout:    25 * time.Second,
		maxRetries: 2,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateText produces a completion for the prompt, retrying transient
// failures with linear backoff
func (c *LLMClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", ErrLLMUnavailable
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		start := time.Now()
		text, err := c.generateOnce(ctx, prompt)
		if c.metrics != nil {
			c.metrics.ObserveLLM("generation", time.Since(start), err)
		}
		if err == nil {
			return text, nil
		}

		lastErr = err
		c.log.Warn().Err(err).Int("attempt", attempt+1).Msg("llm generation attempt failed")
		if attempt < c.maxRetries {
			select {
			case <-time.After(llmInitialBackoff * time.Duration(attempt+1)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("%w: %v", ErrLLMRetryExhausted, lastErr)
}

func (c *LLMClient) generateOnce(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrLLMEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	out := sb.String()
	if strings.TrimSpace(out) == "" {
		return "", ErrLLMEmptyResponse
	}
	return out, nil
}

// GenerateJSON produces a completion and decodes it as a JSON object,
// tolerating markdown code fences around the payload
func (c *LLMClient) GenerateJSON(ctx context.Context, prompt string) (map[string]any, error) {
	text, err := c.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return decodeJSONPayload(text)
}

func decodeJSONPayload(text string) (map[string]any, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMInvalidJSON, err)
	}
	return payload, nil
}
