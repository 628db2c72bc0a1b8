package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uiparity/uiparity/internal/domain"
)

// RunRepository persists comparison runs
type RunRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a run repository
func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

type runRow struct {
	ID          uuid.UUID       `db:"id"`
	Path        string          `db:"path"`
	LegacyURL   string          `db:"legacy_url"`
	ModernURL   string          `db:"modern_url"`
	Passed      int             `db:"passed"`
	Failed      int             `db:"failed"`
	Skipped     int             `db:"skipped"`
	Errors      int             `db:"errors"`
	Success     bool            `db:"success"`
	Report      json.RawMessage `db:"report"`
	StartedAt   time.Time       `db:"started_at"`
	CompletedAt time.Time       `db:"completed_at"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r runRow) toDomain() *domain.Run {
	return &domain.Run{
		ID:        r.ID,
		Path:      r.Path,
		LegacyURL: r.LegacyURL,
		ModernURL: r.ModernURL,
		Tally: domain.Tally{
			Passed:  r.Passed,
			Failed:  r.Failed,
			Skipped: r.Skipped,
			Errors:  r.Errors,
		},
		Success:     r.Success,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
	}
}

// Create inserts a completed run with its outcome report
func (r *RunRepository) Create(ctx context.Context, run *domain.Run, outcomes []domain.CategoryOutcome) error {
	report, err := json.Marshal(outcomes)
	if err != nil {
		return fmt.Errorf("encoding outcomes: %w", err)
	}

	query := `
		INSERT INTO comparison_runs (
			id, path, legacy_url, modern_url,
			passed, failed, skipped, errors,
			success, report, started_at, completed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.Path, run.LegacyURL, run.ModernURL,
		run.Tally.Passed, run.Tally.Failed, run.Tally.Skipped, run.Tally.Errors,
		run.Success, report, run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ValidationError("id", fmt.Sprintf("run %s already exists", run.ID))
		}
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetByID fetches a run by its ID
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	var row runRow
	query := `SELECT * FROM comparison_runs WHERE id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("run", id)
		}
		return nil, fmt.Errorf("fetching run: %w", err)
	}
	return row.toDomain(), nil
}

// GetReport fetches a run's stored outcome report
func (r *RunRepository) GetReport(ctx context.Context, id uuid.UUID) ([]domain.CategoryOutcome, error) {
	var report json.RawMessage
	query := `SELECT report FROM comparison_runs WHERE id = $1`

	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("run", id)
		}
		return nil, fmt.Errorf("fetching report: %w", err)
	}

	var outcomes []domain.CategoryOutcome
	if err := json.Unmarshal(report, &outcomes); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return outcomes, nil
}

// ListRecent returns a page of the most recent runs, newest first
func (r *RunRepository) ListRecent(ctx context.Context, limit, offset int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []runRow
	query := `SELECT * FROM comparison_runs ORDER BY started_at DESC LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	runs := make([]*domain.Run, len(rows))
	for i, row := range rows {
		runs[i] = row.toDomain()
	}
	return runs, nil
}

// ListByPath returns runs for one path, newest first
func (r *RunRepository) ListByPath(ctx context.Context, path string, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []runRow
	query := `SELECT * FROM comparison_runs WHERE path = $1 ORDER BY started_at DESC LIMIT $2`

	if err := r.db.SelectContext(ctx, &rows, query, path, limit); err != nil {
		return nil, fmt.Errorf("listing runs by path: %w", err)
	}

	runs := make([]*domain.Run, len(rows))
	for i, row := range rows {
		runs[i] = row.toDomain()
	}
	return runs, nil
}
