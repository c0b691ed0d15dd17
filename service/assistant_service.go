package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"regintel-backend/cache"
	"regintel-backend/models"
)

// ErrEmptyMessage is returned when a chat message is blank
var ErrEmptyMessage = errors.New("message is required")

// ContextRetriever is the retrieval surface the assistant depends on
type ContextRetriever interface {
	RetrieveContext(ctx context.Context, profile models.OrganizationProfile, query string) ([]models.RetrievedChunk, error)
}

// AssistantService answers chat messages from retrieved policy context.
// An LLM failure degrades to a deterministic fallback reply rather than an
// error; only rejected prompts surface to the caller.
type AssistantService struct {
	retrieval ContextRetriever
	llm       TextGenerator
	cache     *cache.Cache
	log       zerolog.Logger
}

// AssistantServiceOption is a functional option for AssistantService
type AssistantServiceOption func(*AssistantService)

// AssistantWithRetrieval sets the context retriever
func AssistantWithRetrieval(r ContextRetriever) AssistantServiceOption {
	return func(s *AssistantService) {
		s.retrieval = r
	}
}

// AssistantWithGenerator sets the text generator
func AssistantWithGenerator(g TextGenerator) AssistantServiceOption {
	return func(s *AssistantService) {
		s.llm = g
	}
}

// AssistantWithCache sets the reply cache
func AssistantWithCache(c *cache.Cache) AssistantServiceOption {
	return func(s *AssistantService) {
		s.cache = c
	}
}

// AssistantWithLogger sets the service logger
func AssistantWithLogger(log zerolog.Logger) AssistantServiceOption {
	return func(s *AssistantService) {
		s.log = log
	}
}

// NewAssistantService creates an assistant service
func NewAssistantService(opts ...AssistantServiceOption) *AssistantService {
	s := &AssistantService{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chat answers one message grounded on retrieved policy context
func (s *AssistantService) Chat(ctx context.Context, message string, profile models.OrganizationProfile) (*models.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	if err := validatePromptInput(message); err != nil {
		return nil, err
	}

	cacheKey := chatCacheKey(message, profile)
	if s.cache != nil {
		var cached models.ChatReply
		found, err := s.cache.GetJSON(ctx, "assistant", cacheKey, &cached)
		if err != nil {
			s.log.Warn().Err(err).Msg("assistant cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	var retrieved []models.RetrievedChunk
	if s.retrieval != nil {
		chunks, err := s.retrieval.RetrieveContext(ctx, profile, message)
		if err != nil {
			s.log.Warn().Err(err).Msg("context retrieval failed, answering without context")
		} else {
			retrieved = chunks
		}
	}

	contextText := buildContext(retrieved)
	prompt := "You are a regulatory assistant. Answer concisely and only from provided context. " +
		"Context: " + contextText + "\n" +
		"Question: " + message

	var reply string
	generated, err := s.generate(ctx, prompt)
	if err != nil {
		if contextText != "" {
			reply = sanitizeOutputText("Fallback response: based on retrieved policy context, key points include " + truncate(contextText, 320))
		} else {
			reply = sanitizeOutputText("Fallback response: no matching policy context was retrieved. Please refine your question with specific policy identifiers or obligations.")
		}
	} else {
		reply = sanitizeOutputText(generated)
	}

	confidence := "LOW"
	switch {
	case len(retrieved) >= 3:
		confidence = "HIGH"
	case len(retrieved) >= 1:
		confidence = "MEDIUM"
	}

	response := &models.ChatReply{
		Reply:       reply,
		Confidence:  confidence,
		ContextUsed: len(retrieved),
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, "assistant", cacheKey, response); err != nil {
			s.log.Warn().Err(err).Msg("assistant cache write failed")
		}
	}
	return response, nil
}

func (s *AssistantService) generate(ctx context.Context, prompt string) (string, error) {
	if s.llm == nil {
		return "", ErrLLMUnavailable
	}
	return s.llm.GenerateText(ctx, prompt)
}

func buildContext(retrieved []models.RetrievedChunk) string {
	limit := len(retrieved)
	if limit > 4 {
		limit = 4
	}
	parts := make([]string, 0, limit)
	for _, chunk := range retrieved[:limit] {
		parts = append(parts, truncate(chunk.Content, 250))
	}
	out := ""
	for i, part := range parts {
		if i > 0 {
			out += "\n"
		}
		out += part
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func chatCacheKey(message string, profile models.OrganizationProfile) string {
	raw, _ := json.Marshal(profile)
	sum := sha256.Sum256([]byte(message + ":" + string(raw)))
	return hex.EncodeToString(sum[:])
}
