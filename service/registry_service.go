package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"regintel-backend/models"
	"regintel-backend/registry"
)

// ErrPolicyDetailUnavailable is returned when no policy store is configured
var ErrPolicyDetailUnavailable = errors.New("policy details unavailable")

// PolicyGetter loads one stored policy with its content
type PolicyGetter interface {
	GetByID(ctx context.Context, id string) (*models.Policy, error)
}

// RegistryPage is one page of the document registry together with the
// selection state for the session. SelectedCount and AllSelected are
// computed over the whole filtered set, not just the visible page, so a
// selection made before filtering is still reported while its rows are
// hidden.
type RegistryPage struct {
	Rows          []models.Document `json:"rows"`
	Total         int               `json:"total"`
	PageIndex     int               `json:"pageIndex"`
	PageCount     int               `json:"pageCount"`
	RangeStart    int               `json:"rangeStart"`
	RangeEnd      int               `json:"rangeEnd"`
	RangeLabel    string            `json:"rangeLabel"`
	Selected      []string          `json:"selected"`
	SelectedCount int               `json:"selectedCount"`
	AllSelected   bool              `json:"allSelected"`
}

// RegistryService composes the document source, the projection engine and
// the per-session selection store behind the registry endpoints
type RegistryService struct {
	source     *registry.Source
	selections *registry.SelectionStore
	policies   PolicyGetter
	pageSize   int
	log        zerolog.Logger
}

// RegistryServiceOption is a functional option for RegistryService
type RegistryServiceOption func(*RegistryService)

// RegistryWithSource sets the document source
func RegistryWithSource(source *registry.Source) RegistryServiceOption {
	return func(s *RegistryService) {
		s.source = source
	}
}

// RegistryWithSelections sets the selection store
func RegistryWithSelections(store *registry.SelectionStore) RegistryServiceOption {
	return func(s *RegistryService) {
		s.selections = store
	}
}

// RegistryWithPolicyGetter sets the policy detail source
func RegistryWithPolicyGetter(policies PolicyGetter) RegistryServiceOption {
	return func(s *RegistryService) {
		s.policies = policies
	}
}

// RegistryWithPageSize overrides the page size
func RegistryWithPageSize(size int) RegistryServiceOption {
	return func(s *RegistryService) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// RegistryWithLogger sets the service logger
func RegistryWithLogger(log zerolog.Logger) RegistryServiceOption {
	return func(s *RegistryService) {
		s.log = log
	}
}

// NewRegistryService creates a registry service
func NewRegistryService(opts ...RegistryServiceOption) *RegistryService {
	s := &RegistryService{
		selections: registry.NewSelectionStore(),
		pageSize:   registry.DefaultPageSize,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List resolves one page for the session's controls. The snapshot is loaded
// on first use and reused until invalidated.
func (s *RegistryService) List(ctx context.Context, session string, controls registry.Controls, pageIndex int) *RegistryPage {
	rows := s.source.Rows()
	if len(rows) == 0 {
		rows = s.source.Load(ctx)
	}

	filtered := registry.Filter(rows, controls)
	page := registry.Project(rows, controls, pageIndex, s.pageSize)

	filteredIDs := documentIDs(filtered)
	selected := make([]string, 0, len(filteredIDs))
	for _, id := range filteredIDs {
		if s.selections.Selected(session, id) {
			selected = append(selected, id)
		}
	}

	return &RegistryPage{
		Rows:          page.Rows,
		Total:         page.Total,
		PageIndex:     page.PageIndex,
		PageCount:     page.PageCount,
		RangeStart:    page.RangeStart,
		RangeEnd:      page.RangeEnd,
		RangeLabel:    rangeLabel(page),
		Selected:      selected,
		SelectedCount: s.selections.Count(session, filteredIDs),
		AllSelected:   s.selections.AllSelected(session, filteredIDs),
	}
}

// Refresh discards the snapshot and reloads from the live sources
func (s *RegistryService) Refresh(ctx context.Context) []models.Document {
	s.source.Invalidate()
	return s.source.Load(ctx)
}

// Select toggles one document for the session
func (s *RegistryService) Select(session, id string, value bool) {
	s.selections.SetSelected(session, id, value)
}

// SelectAllFiltered sets every document passing the session's current
// filter to the given value in one atomic step
func (s *RegistryService) SelectAllFiltered(ctx context.Context, session string, controls registry.Controls, value bool) int {
	rows := s.source.Rows()
	if len(rows) == 0 {
		rows = s.source.Load(ctx)
	}
	ids := documentIDs(registry.Filter(rows, controls))
	s.selections.SetManySelected(session, ids, value)
	return len(ids)
}

// ClearSelection drops every selection for the session
func (s *RegistryService) ClearSelection(session string) {
	s.selections.ClearSelected(session)
}

// PolicyDetail loads one stored policy and splits its content into
// numbered sections, one per non-empty line
func (s *RegistryService) PolicyDetail(ctx context.Context, id string) (*models.PolicyDetail, error) {
	if s.policies == nil {
		return nil, ErrPolicyDetailUnavailable
	}
	policy, err := s.policies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.PolicyDetail{
		Policy:  *policy,
		Content: policy.Content,
		Metadata: map[string]string{
			"authority":      policy.Authority,
			"version":        policy.Version,
			"effective_date": policy.EffectiveDate,
		},
		Sections: parseSections(policy.Content),
	}
	return detail, nil
}

func parseSections(content string) []models.PolicySection {
	var sections []models.PolicySection
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		sections = append(sections, models.PolicySection{
			Title:   "Section " + strconv.Itoa(len(sections)+1),
			Content: trimmed,
		})
	}
	return sections
}

func documentIDs(rows []models.Document) []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids
}

func rangeLabel(page registry.Page) string {
	return "Showing " + strconv.Itoa(page.RangeStart) + "-" + strconv.Itoa(page.RangeEnd) +
		" of " + strconv.Itoa(page.Total)
}
