package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/jobboard/internal/domain"
)

// ApplicationRepository handles application data access.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a pending application. A second application for the same
// pair fails with domain.ErrConflict, enforced by the primary key.
func (r *ApplicationRepository) Create(ctx context.Context, jobID, userID int64) (*domain.Application, error) {
	var app domain.Application
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO applications (job_id, user_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING job_id, user_id, status, created_at`,
		jobID, userID, domain.ApplicationPending,
	).StructScan(&app)
	if err != nil {
		return nil, fmt.Errorf("create application %d/%d: %w", jobID, userID, mapDBError(err))
	}
	return &app, nil
}

// Find retrieves the application of userID to jobID.
func (r *ApplicationRepository) Find(ctx context.Context, jobID, userID int64) (*domain.Application, error) {
	var app domain.Application
	err := r.db.GetContext(ctx, &app,
		`SELECT job_id, user_id, status, created_at
		 FROM applications WHERE job_id = $1 AND user_id = $2`, jobID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find application %d/%d: %w", jobID, userID, err)
	}
	return &app, nil
}

// Check reports whether the pair has applied and whether it has evaluated.
func (r *ApplicationRepository) Check(ctx context.Context, jobID, userID int64) (domain.ApplicationCheck, error) {
	var row struct {
		domain.Application
		HasEvaluation bool `db:"has_evaluation"`
	}
	err := r.db.GetContext(ctx, &row,
		`SELECT a.job_id, a.user_id, a.status, a.created_at,
		        EXISTS (SELECT 1 FROM evaluations e
		                WHERE e.job_id = a.job_id AND e.user_id = a.user_id) AS has_evaluation
		 FROM applications a
		 WHERE a.job_id = $1 AND a.user_id = $2`, jobID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ApplicationCheck{}, nil
		}
		return domain.ApplicationCheck{}, fmt.Errorf("check application %d/%d: %w", jobID, userID, err)
	}
	app := row.Application
	return domain.ApplicationCheck{Exists: true, Application: &app, HasEvaluation: row.HasEvaluation}, nil
}

// UpdateStatus moves an application along its review transitions. An illegal
// transition fails with domain.ErrConflict.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, jobID, userID int64, to domain.ApplicationStatus) (*domain.Application, error) {
	var app domain.Application
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current domain.ApplicationStatus
		err := tx.GetContext(ctx, &current,
			`SELECT status FROM applications WHERE job_id = $1 AND user_id = $2 FOR UPDATE`, jobID, userID)
		if err != nil {
			return mapDBError(err)
		}
		if !domain.CanTransitionApplication(current, to) {
			return fmt.Errorf("%w: application cannot move from %s to %s", domain.ErrConflict, current, to)
		}
		return tx.QueryRowxContext(ctx,
			`UPDATE applications SET status = $3 WHERE job_id = $1 AND user_id = $2
			 RETURNING job_id, user_id, status, created_at`,
			jobID, userID, to,
		).StructScan(&app)
	})
	if err != nil {
		return nil, fmt.Errorf("update application %d/%d: %w", jobID, userID, err)
	}
	return &app, nil
}
