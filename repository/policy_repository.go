package repository

import (
	"context"
	"errors"
	"fmt"

	"regintel-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrPolicyNotFound is returned when a policy id has no row
var ErrPolicyNotFound = errors.New("policy not found")

// PolicyRepository handles database operations for policies
type PolicyRepository struct {
	db *pgxpool.Pool
}

// NewPolicyRepository creates a new policy repository
func NewPolicyRepository(db *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// Upsert inserts or replaces a policy record
func (r *PolicyRepository) Upsert(ctx context.Context, policy *models.Policy) error {
	query := `
		INSERT INTO policies (
			id, title, authority, version, effective_date, status, assigned, content
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			authority = EXCLUDED.authority,
			version = EXCLUDED.version,
			effective_date = EXCLUDED.effective_date,
			status = EXCLUDED.status,
			assigned = EXCLUDED.assigned,
			content = EXCLUDED.content
		RETURNING created_at`

	err := r.db.QueryRow(
		ctx, query,
		policy.ID,
		policy.Title,
		policy.Authority,
		policy.Version,
		policy.EffectiveDate,
		policy.Status,
		policy.Assigned,
		policy.Content,
	).Scan(&policy.CreatedAt)

	return err
}

// List retrieves policies in insertion order, without content
func (r *PolicyRepository) List(ctx context.Context, limit int) ([]models.Policy, error) {
	query := `
		SELECT id, title, authority, version, effective_date, status, assigned
		FROM policies
		ORDER BY created_at, id`

	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []models.Policy
	for rows.Next() {
		var p models.Policy
		err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Authority,
			&p.Version,
			&p.EffectiveDate,
			&p.Status,
			&p.Assigned,
		)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}

	return policies, rows.Err()
}

// ListWithContent retrieves policies including their full content, for
// keyword retrieval
func (r *PolicyRepository) ListWithContent(ctx context.Context, limit int) ([]models.Policy, error) {
	query := `
		SELECT id, title, authority, version, effective_date, status, assigned, content
		FROM policies
		ORDER BY created_at, id`

	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var policies []models.Policy
	for rows.Next() {
		var p models.Policy
		err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Authority,
			&p.Version,
			&p.EffectiveDate,
			&p.Status,
			&p.Assigned,
			&p.Content,
		)
		if err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}

	return policies, rows.Err()
}

// GetByID retrieves one policy with its content
func (r *PolicyRepository) GetByID(ctx context.Context, id string) (*models.Policy, error) {
	policy := &models.Policy{}
	query := `
		SELECT id, title, authority, version, effective_date, status, assigned, content, created_at
		FROM policies
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&policy.ID,
		&policy.Title,
		&policy.Authority,
		&policy.Version,
		&policy.EffectiveDate,
		&policy.Status,
		&policy.Assigned,
		&policy.Content,
		&policy.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPolicyNotFound, id)
		}
		return nil, err
	}

	return policy, nil
}

// UpdateStatus overwrites the processing status for one policy
func (r *PolicyRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE policies SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrPolicyNotFound, id)
	}
	return nil
}

// Delete removes a policy
func (r *PolicyRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM policies WHERE id = $1`, id)
	return err
}
