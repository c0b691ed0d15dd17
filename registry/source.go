package registry

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"regintel-backend/models"
)

// PolicyLister fetches the policy collection
type PolicyLister interface {
	ListPolicies(ctx context.Context) ([]models.Policy, error)
}

// GazetteLister fetches the gazette collection. The returned values are
// loosely typed; elements may not be records at all.
type GazetteLister interface {
	ListGazettes(ctx context.Context) ([]any, error)
}

// Source loads and merges the backend collections into registry rows.
// Each collection fetch is independently fallible and degrades to empty;
// an all-empty merge substitutes the fixed sample dataset. Loads commit
// through a liveness token so a superseded load never overwrites the
// snapshot of a newer one, and the previous snapshot stays visible until
// a newer load resolves.
type Source struct {
	policies PolicyLister
	gazettes GazetteLister
	timeout  time.Duration
	now      func() time.Time
	log      zerolog.Logger

	mu     sync.RWMutex
	latest uint64
	rows   []models.Document
}

// SourceOption is a functional option for Source
type SourceOption func(*Source)

// WithPolicyLister sets the policy collection fetcher
func WithPolicyLister(l PolicyLister) SourceOption {
	return func(s *Source) {
		s.policies = l
	}
}

// WithGazetteLister sets the gazette collection fetcher
func WithGazetteLister(l GazetteLister) SourceOption {
	return func(s *Source) {
		s.gazettes = l
	}
}

// WithFetchTimeout bounds each load; a timed-out collection degrades to
// empty like any other failed fetch
func WithFetchTimeout(d time.Duration) SourceOption {
	return func(s *Source) {
		s.timeout = d
	}
}

// WithClock overrides the clock used for fallback dates
func WithClock(now func() time.Time) SourceOption {
	return func(s *Source) {
		s.now = now
	}
}

// WithLogger sets the source logger
func WithLogger(log zerolog.Logger) SourceOption {
	return func(s *Source) {
		s.log = log
	}
}

// NewSource creates a document source
func NewSource(opts ...SourceOption) *Source {
	s := &Source{
		timeout: 10 * time.Second,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rows returns the current snapshot
func (s *Source) Rows() []models.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Document, len(s.rows))
	copy(out, s.rows)
	return out
}

// Load fetches all collections concurrently, merges them in fixed order
// (policies first, gazettes appended) and commits the result. It returns
// the snapshot current after the attempt, which is the merged result
// unless a newer load has already committed.
func (s *Source) Load(ctx context.Context) []models.Document {
	token := s.begin()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		wg       sync.WaitGroup
		policies []models.Policy
		gazettes []any
	)

	if s.policies != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.policies.ListPolicies(ctx)
			if err != nil {
				s.log.Warn().Err(err).Msg("policy fetch failed, degrading to empty")
				return
			}
			policies = got
		}()
	}

	if s.gazettes != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.gazettes.ListGazettes(ctx)
			if err != nil {
				s.log.Warn().Err(err).Msg("gazette fetch failed, degrading to empty")
				return
			}
			gazettes = got
		}()
	}

	wg.Wait()

	fallbackDate := s.now().Format("2006-01-02")
	merged := make([]models.Document, 0, len(policies)+len(gazettes))
	for _, p := range policies {
		merged = append(merged, NormalizePolicy(p, fallbackDate))
	}
	for i, raw := range gazettes {
		if doc, ok := NormalizeGazette(raw, i, fallbackDate); ok {
			merged = append(merged, doc)
		}
	}

	if len(merged) == 0 {
		merged = SampleDocuments()
	}

	s.commit(token, merged)
	return s.Rows()
}

// Invalidate discards any in-flight load. Called on teardown or when the
// consuming view restarts its load cycle.
func (s *Source) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
}

func (s *Source) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

func (s *Source) commit(token uint64, rows []models.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.latest {
		return false
	}
	s.rows = rows
	return true
}

// NormalizePolicy maps a policy record onto a registry row. The authority
// becomes the sector, a missing status defaults to Unreviewed and the AI
// status is Processed only for already-processed policies.
func NormalizePolicy(p models.Policy, fallbackDate string) models.Document {
	status := models.DocumentStatus(p.Status)
	if p.Status == "" {
		status = models.StatusUnreviewed
	}

	aiStatus := models.AIStatusQueued
	if p.Status == "Processed" {
		aiStatus = models.AIStatusProcessed
	}

	date := p.EffectiveDate
	if date == "" {
		date = fallbackDate
	}

	return models.Document{
		ID:       p.ID,
		Type:     models.TypePolicy,
		Title:    p.Title,
		FileName: fileNameFor(p.Title, p.ID),
		Date:     date,
		Sector:   p.Authority,
		Status:   status,
		AIStatus: aiStatus,
	}
}

// NormalizeGazette maps one loosely-typed gazette entry onto a registry
// row. It never fails: non-record entries and records with neither subject
// nor url are dropped, a missing id falls back to a positional one, and
// all other fields coerce to empty strings.
func NormalizeGazette(raw any, index int, fallbackDate string) (models.Document, bool) {
	record, ok := raw.(map[string]any)
	if !ok {
		return models.Document{}, false
	}

	id := stringField(record, "id")
	if id == "" {
		id = "gazette-" + strconv.Itoa(index)
	}
	subject := stringField(record, "subject")
	url := stringField(record, "url")
	text := stringField(record, "text")

	if subject == "" && url == "" {
		return models.Document{}, false
	}

	return models.Document{
		ID:         id,
		Type:       models.TypeGazette,
		Title:      subject,
		FileName:   fileNameFor(subject, id),
		Date:       fallbackDate,
		Sector:     "Government",
		Status:     models.StatusUnreviewed,
		AIStatus:   models.AIStatusQueued,
		SourceURL:  url,
		RawContent: text,
	}, true
}

func stringField(record map[string]any, key string) string {
	value, ok := record[key]
	if !ok || value == nil {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(str)
}

func fileNameFor(title, id string) string {
	base := strings.TrimSpace(title)
	if base == "" {
		base = id
	}
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, base)
	return strings.Trim(base, "_") + ".pdf"
}
