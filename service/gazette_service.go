package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"regintel-backend/models"
	"regintel-backend/storage"
)

var (
	// ErrGazetteDataUnavailable is returned when no dataset object can be
	// read from storage
	ErrGazetteDataUnavailable = errors.New("failed to fetch gazette data")
	// ErrGazetteNotFound is returned when no record matches the id
	ErrGazetteNotFound = errors.New("gazette not found")
)

// GazetteService reads the gazette dataset from the storage layer. The
// dataset is a JSON array of loosely-typed records; unusable elements are
// tolerated here and dropped during normalization.
type GazetteService struct {
	store storage.Storage
	keys  []string
	log   zerolog.Logger
}

// GazetteServiceOption is a functional option for GazetteService
type GazetteServiceOption func(*GazetteService)

// GazetteWithStorage sets the dataset storage
func GazetteWithStorage(store storage.Storage) GazetteServiceOption {
	return func(s *GazetteService) {
		s.store = store
	}
}

// GazetteWithDatasetKeys sets the candidate object keys, probed in order
func GazetteWithDatasetKeys(keys ...string) GazetteServiceOption {
	return func(s *GazetteService) {
		s.keys = keys
	}
}

// GazetteWithLogger sets the service logger
func GazetteWithLogger(log zerolog.Logger) GazetteServiceOption {
	return func(s *GazetteService) {
		s.log = log
	}
}

// NewGazetteService creates a gazette service
func NewGazetteService(opts ...GazetteServiceOption) *GazetteService {
	s := &GazetteService{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListGazettes returns the raw dataset values. Elements may not be records;
// callers normalize defensively. Implements the registry gazette lister.
func (s *GazetteService) ListGazettes(ctx context.Context) ([]any, error) {
	data, err := s.readDataset(ctx)
	if err != nil {
		return nil, err
	}

	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGazetteDataUnavailable, err)
	}
	return values, nil
}

// List returns the typed gazette records, skipping non-record elements
func (s *GazetteService) List(ctx context.Context) ([]models.GazetteRecord, error) {
	values, err := s.ListGazettes(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]models.GazetteRecord, 0, len(values))
	for _, value := range values {
		record, ok := value.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, models.GazetteRecord{
			ID:      coerceString(record["id"]),
			Subject: coerceString(record["subject"]),
			URL:     coerceString(record["url"]),
			Text:    coerceString(record["text"]),
		})
	}
	return records, nil
}

// GetByID returns the record whose trimmed id matches
func (s *GazetteService) GetByID(ctx context.Context, id string) (*models.GazetteRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	want := strings.TrimSpace(id)
	for i := range records {
		if strings.TrimSpace(records[i].ID) == want {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrGazetteNotFound, id)
}

func (s *GazetteService) readDataset(ctx context.Context) ([]byte, error) {
	if s.store == nil {
		return nil, ErrGazetteDataUnavailable
	}

	var lastErr error
	for _, key := range s.keys {
		rc, err := s.store.Get(ctx, key)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return data, nil
	}

	if lastErr != nil {
		s.log.Warn().Err(lastErr).Msg("no gazette dataset object readable")
	}
	return nil, ErrGazetteDataUnavailable
}

func coerceString(value any) string {
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return str
}
