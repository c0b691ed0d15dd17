package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"regintel-backend/models"
)

const (
	qaChunkSize    = 3500
	qaChunkOverlap = 300
	qaSourceLimit  = 3

	qaNotFound = "No verified information found in available gazette records."
)

const policyQueryPrompt = `You are a compliance assistant.

Answer the user's question strictly using the provided gazette excerpts.

If the answer is not clearly found in the excerpts, say:
"%s"

Do not fabricate information.
Do not use external knowledge.
Keep answer concise.

Question: %s

Gazette Excerpts:
%s`

// QAService answers free-form questions against the gazette dataset. It
// ranks text excerpts by lexical overlap with the question and asks the
// LLM to answer strictly from those excerpts, so an answer never draws on
// anything outside the dataset.
type QAService struct {
	gazettes GazetteReader
	llm      TextGenerator
	log      zerolog.Logger
}

// QAServiceOption is a functional option for QAService
type QAServiceOption func(*QAService)

// QAWithGazettes sets the gazette source
func QAWithGazettes(gazettes GazetteReader) QAServiceOption {
	return func(s *QAService) {
		s.gazettes = gazettes
	}
}

// QAWithGenerator sets the text generator
func QAWithGenerator(llm TextGenerator) QAServiceOption {
	return func(s *QAService) {
		s.llm = llm
	}
}

// QAWithLogger sets the service logger
func QAWithLogger(log zerolog.Logger) QAServiceOption {
	return func(s *QAService) {
		s.log = log
	}
}

// NewQAService creates a policy question answering service
func NewQAService(opts ...QAServiceOption) *QAService {
	s := &QAService{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ask answers a question from gazette excerpts. A non-empty gazetteID
// narrows the search to that record. Questions with no supporting excerpt
// get the not-found answer rather than a guess.
func (s *QAService) Ask(ctx context.Context, question, gazetteID string) (*models.PolicyQueryResult, error) {
	records, err := s.gazettes.List(ctx)
	if err != nil {
		return nil, err
	}
	if want := strings.TrimSpace(gazetteID); want != "" {
		kept := make([]models.GazetteRecord, 0, 1)
		for _, record := range records {
			if strings.TrimSpace(record.ID) == want {
				kept = append(kept, record)
			}
		}
		records = kept
	}

	sources := rankExcerpts(question, records)
	if len(sources) == 0 {
		return &models.PolicyQueryResult{
			Answer:  qaNotFound,
			Sources: []models.PolicyQuerySource{},
		}, nil
	}

	prompt := fmt.Sprintf(policyQueryPrompt, qaNotFound, question, excerptBlock(sources))
	answer := s.generateAnswer(ctx, prompt)
	if answer == "" {
		return &models.PolicyQueryResult{Error: analysisUnavailable, Sources: sources}, nil
	}
	if strings.Contains(strings.ToLower(answer), strings.ToLower(qaNotFound)) {
		answer = qaNotFound
	}
	return &models.PolicyQueryResult{Answer: answer, Sources: sources}, nil
}

// generateAnswer makes at most two attempts, treating an empty completion
// like a failure
func (s *QAService) generateAnswer(ctx context.Context, prompt string) string {
	for attempt := 1; attempt <= 2; attempt++ {
		text, err := s.llm.GenerateText(ctx, prompt)
		if err != nil {
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("policy query generation failed")
			continue
		}
		if cleaned := strings.TrimSpace(text); cleaned != "" {
			return cleaned
		}
	}
	return ""
}

// rankExcerpts chunks every record's text and scores each chunk by the
// share of question tokens it contains, keeping the best few
func rankExcerpts(question string, records []models.GazetteRecord) []models.PolicyQuerySource {
	queryTokens := tokenSet(question)
	if len(queryTokens) == 0 {
		return nil
	}

	type candidate struct {
		source models.PolicyQuerySource
		score  float64
	}
	var candidates []candidate
	for _, record := range records {
		id := strings.TrimSpace(record.ID)
		text := strings.TrimSpace(record.Text)
		if id == "" || text == "" {
			continue
		}
		for _, chunk := range chunkText(text, qaChunkSize, qaChunkOverlap) {
			matched := 0
			for token := range tokenSet(chunk) {
				if _, ok := queryTokens[token]; ok {
					matched++
				}
			}
			if matched == 0 {
				continue
			}
			candidates = append(candidates, candidate{
				source: models.PolicyQuerySource{
					GazetteID: id,
					Subject:   strings.TrimSpace(record.Subject),
					Chunk:     chunk,
				},
				score: float64(matched) / float64(len(queryTokens)),
			})
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > qaSourceLimit {
		candidates = candidates[:qaSourceLimit]
	}

	sources := make([]models.PolicyQuerySource, 0, len(candidates))
	for _, c := range candidates {
		sources = append(sources, c.source)
	}
	return sources
}

func excerptBlock(sources []models.PolicyQuerySource) string {
	blocks := make([]string, 0, len(sources))
	for _, src := range sources {
		blocks = append(blocks, fmt.Sprintf("[Gazette ID: %s; Subject: %s]\n%s", src.GazetteID, src.Subject, src.Chunk))
	}
	return strings.Join(blocks, "\n\n")
}

func tokenSet(value string) map[string]struct{} {
	tokens := analyzerTokenPattern.FindAllString(strings.ToLower(value), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}
