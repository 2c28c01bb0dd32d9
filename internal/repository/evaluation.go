package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/jobboard/internal/domain"
)

// EvaluationRepository handles evaluations and the state changes they cause.
type EvaluationRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewEvaluationRepository creates a new EvaluationRepository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db, now: time.Now}
}

// Exists reports whether userID already evaluated jobID.
func (r *EvaluationRepository) Exists(ctx context.Context, jobID, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM evaluations WHERE job_id = $1 AND user_id = $2)`, jobID, userID)
	if err != nil {
		return false, fmt.Errorf("check evaluation %d/%d: %w", jobID, userID, err)
	}
	return exists, nil
}

// Submit stores an evaluation, refreshes the cached all-time average and
// applies the demotion policy, all in one transaction.
func (r *EvaluationRepository) Submit(ctx context.Context, e domain.NewEvaluation, policy domain.DemotionPolicy) (domain.EvaluationResult, error) {
	var result domain.EvaluationResult
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		current, err := lockJobState(ctx, tx, e.JobID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO evaluations (job_id, user_id, score, comment) VALUES ($1, $2, $3, $4)`,
			e.JobID, e.UserID, int(e.Score), e.Comment,
		); err != nil {
			return fmt.Errorf("insert evaluation: %w", mapDBError(err))
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE jobs
			 SET average_rating = (SELECT AVG(score) FROM evaluations WHERE job_id = $1)
			 WHERE id = $1`, e.JobID,
		); err != nil {
			return fmt.Errorf("refresh average rating: %w", err)
		}

		result, err = r.demote(ctx, tx, e.JobID, current, policy, true)
		return err
	})
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("submit evaluation %d/%d: %w", e.JobID, e.UserID, err)
	}
	return result, nil
}

// Reassess re-applies the policy to a posting without a new evaluation. The
// window slides, so a posting's verdict can change with time alone. Only
// actual demotions are written to the history.
func (r *EvaluationRepository) Reassess(ctx context.Context, jobID int64, policy domain.DemotionPolicy) (domain.EvaluationResult, error) {
	var result domain.EvaluationResult
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		current, err := lockJobState(ctx, tx, jobID)
		if err != nil {
			return err
		}
		result, err = r.demote(ctx, tx, jobID, current, policy, false)
		return err
	})
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("reassess job %d: %w", jobID, err)
	}
	return result, nil
}

// demote applies the policy inside tx. A flagged verdict is written to the
// history with a snapshot of the window statistics; with recordFlagged unset
// only verdicts that change the state are. Evaluations older than the latest
// admin override fall outside the window.
func (r *EvaluationRepository) demote(ctx context.Context, tx *sqlx.Tx, jobID int64, current domain.JobState, policy domain.DemotionPolicy, recordFlagged bool) (domain.EvaluationResult, error) {
	var overriddenAt sql.NullTime
	if err := tx.GetContext(ctx, &overriddenAt,
		`SELECT MAX(created_at) FROM job_state_history WHERE job_id = $1 AND reason = $2`,
		jobID, domain.ReasonAdminOverride,
	); err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("last override of job %d: %w", jobID, err)
	}

	var stats domain.WindowStats
	err := tx.GetContext(ctx, &stats,
		`SELECT COUNT(*) AS total,
		        COALESCE(AVG(score), 0) AS average,
		        COUNT(*) FILTER (WHERE score <= $2) AS negative,
		        COALESCE(MIN(score), 0) AS min_score
		 FROM evaluations
		 WHERE job_id = $1 AND created_at >= $3`,
		jobID, policy.NegativeScore, policy.WindowStartSince(r.now(), overriddenAt.Time))
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("window stats of job %d: %w", jobID, err)
	}

	result := domain.EvaluationResult{PreviousState: current, NewState: current, Stats: stats}
	outcome := policy.Apply(current, stats)
	if !outcome.Flagged || (!outcome.Demoted() && !recordFlagged) {
		return result, nil
	}

	if outcome.Demoted() {
		if err := updateJobState(ctx, tx, jobID, outcome.To); err != nil {
			return result, err
		}
	}
	details, err := json.Marshal(struct {
		domain.WindowStats
		NegativeRatio float64 `json:"negative_ratio"`
	}{stats, stats.NegativeRatio()})
	if err != nil {
		return result, fmt.Errorf("encode transition details: %w", err)
	}
	if err := insertTransition(ctx, tx, &domain.StateTransition{
		JobID:     jobID,
		FromState: outcome.From,
		ToState:   outcome.To,
		Reason:    outcome.Reason,
		Details:   details,
	}); err != nil {
		return result, err
	}

	if outcome.Demoted() {
		result.StateChanged = true
		result.NewState = outcome.To
		result.Reason = outcome.Reason
	}
	return result, nil
}

// List returns all evaluations of a posting with the rater's display name, newest first.
func (r *EvaluationRepository) List(ctx context.Context, jobID int64) ([]domain.Evaluation, error) {
	evals := []domain.Evaluation{}
	err := r.db.SelectContext(ctx, &evals,
		`SELECT e.job_id, e.user_id, e.score, e.comment, e.created_at,
		        COALESCE(u.display_name, 'Anonymous') AS rater_name
		 FROM evaluations e
		 LEFT JOIN users u ON u.id = e.user_id
		 WHERE e.job_id = $1
		 ORDER BY e.created_at DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list evaluations of job %d: %w", jobID, err)
	}
	return evals, nil
}
