package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sumire/jobboard/internal/domain"
)

const jobColumns = `j.id, j.title, j.description, j.requirements, j.salary, j.state, j.job_type,
	j.phone, j.email, j.published_at, j.starts_on, j.applications_close_on, j.posted_by,
	COALESCE(u.display_name, '') AS publisher_name, j.average_rating,
	l.id AS "location.id", l.region AS "location.region", l.comuna AS "location.comuna",
	l.city AS "location.city", l.address AS "location.address",
	s.id AS "schedule.id", to_char(s.starts_at, 'HH24:MI') AS "schedule.starts_at",
	to_char(s.ends_at, 'HH24:MI') AS "schedule.ends_at"`

const jobJoins = `FROM jobs j
	JOIN locations l ON l.id = j.location_id
	JOIN schedules s ON s.id = j.schedule_id
	LEFT JOIN users u ON u.id = j.posted_by`

// JobRepository handles job posting data access, including the location and
// schedule rows each posting owns.
type JobRepository struct {
	db *sqlx.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *sqlx.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts the location, the schedule and the posting in one transaction.
// Either all three rows exist afterwards or none does.
func (r *JobRepository) Create(ctx context.Context, in domain.NewJob) (*domain.JobPosting, error) {
	job := domain.JobPosting{
		Title:               in.Title,
		Description:         in.Description,
		Requirements:        in.Requirements,
		Salary:              in.Salary,
		State:               domain.JobStateActive,
		JobType:             in.JobType,
		Phone:               in.Phone,
		Email:               in.Email,
		StartsOn:            in.StartsOn,
		ApplicationsCloseOn: in.ApplicationsCloseOn,
		PostedBy:            in.PostedBy,
		Location:            in.Location,
		Schedule:            domain.Schedule{StartsAt: in.StartTime, EndsAt: in.EndTime},
	}

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := tx.QueryRowxContext(ctx,
			`INSERT INTO locations (region, comuna, city, address)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			job.Location.Region, job.Location.Comuna, job.Location.City, job.Location.Address,
		).Scan(&job.Location.ID); err != nil {
			return fmt.Errorf("insert location: %w", mapDBError(err))
		}

		if err := tx.QueryRowxContext(ctx,
			`INSERT INTO schedules (starts_at, ends_at)
			 VALUES ($1::time, $2::time) RETURNING id`,
			job.Schedule.StartsAt, job.Schedule.EndsAt,
		).Scan(&job.Schedule.ID); err != nil {
			return fmt.Errorf("insert schedule: %w", mapDBError(err))
		}

		if err := tx.QueryRowxContext(ctx,
			`INSERT INTO jobs (title, description, requirements, salary, state, job_type, phone, email,
			                   starts_on, applications_close_on, posted_by, location_id, schedule_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 RETURNING id, published_at`,
			job.Title, job.Description, job.Requirements, job.Salary, job.State, job.JobType,
			job.Phone, job.Email, job.StartsOn, job.ApplicationsCloseOn, job.PostedBy,
			job.Location.ID, job.Schedule.ID,
		).Scan(&job.ID, &job.PublishedAt); err != nil {
			return fmt.Errorf("insert job: %w", mapJobInsertError(err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	job.PublisherName = domain.PublisherOrAnonymous(job.PublisherName)
	return &job, nil
}

// FindByID retrieves a posting in any state.
func (r *JobRepository) FindByID(ctx context.Context, id int64) (*domain.JobPosting, error) {
	var job domain.JobPosting
	err := r.db.GetContext(ctx, &job, `SELECT `+jobColumns+` `+jobJoins+` WHERE j.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find job by id %d: %w", id, err)
	}
	job.PublisherName = domain.PublisherOrAnonymous(job.PublisherName)
	return &job, nil
}

// FindActive retrieves a posting only while it is active.
func (r *JobRepository) FindActive(ctx context.Context, id int64) (*domain.JobPosting, error) {
	job, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.State != domain.JobStateActive {
		return nil, domain.ErrNotFound
	}
	return job, nil
}

// ListActive returns every active posting, newest first.
func (r *JobRepository) ListActive(ctx context.Context) ([]domain.JobPosting, error) {
	return r.Search(ctx, domain.JobFilter{})
}

// Search returns the active postings matching every set field of f, newest first.
func (r *JobRepository) Search(ctx context.Context, f domain.JobFilter) ([]domain.JobPosting, error) {
	query, args := buildSearchQuery(f)
	jobs := []domain.JobPosting{}
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	for i := range jobs {
		jobs[i].PublisherName = domain.PublisherOrAnonymous(jobs[i].PublisherName)
	}
	return jobs, nil
}

// Stats aggregates application and evaluation counts for a posting.
func (r *JobRepository) Stats(ctx context.Context, jobID int64) (domain.JobStats, error) {
	var stats domain.JobStats
	err := r.db.GetContext(ctx, &stats.Applications,
		`SELECT COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		        COUNT(*) FILTER (WHERE status = 'accepted') AS accepted,
		        COUNT(*) FILTER (WHERE status = 'rejected') AS rejected
		 FROM applications WHERE job_id = $1`, jobID)
	if err != nil {
		return stats, fmt.Errorf("count applications of job %d: %w", jobID, err)
	}
	err = r.db.GetContext(ctx, &stats.Evaluations,
		`SELECT COUNT(*) AS total,
		        COALESCE(AVG(score), 0) AS average,
		        COALESCE(MIN(score), 0) AS min,
		        COALESCE(MAX(score), 0) AS max
		 FROM evaluations WHERE job_id = $1`, jobID)
	if err != nil {
		return stats, fmt.Errorf("summarize evaluations of job %d: %w", jobID, err)
	}
	return stats, nil
}

// History returns the state transitions of a posting, newest first.
func (r *JobRepository) History(ctx context.Context, jobID int64) ([]domain.StateTransition, error) {
	history := []domain.StateTransition{}
	err := r.db.SelectContext(ctx, &history,
		`SELECT id, job_id, from_state, to_state, reason, details, created_at
		 FROM job_state_history WHERE job_id = $1
		 ORDER BY created_at DESC, id DESC`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list history of job %d: %w", jobID, err)
	}
	return history, nil
}

// Reinstate moves a demoted posting back to active and records who did it.
// Reinstating an active posting is a conflict.
func (r *JobRepository) Reinstate(ctx context.Context, jobID, actorID int64, note string) (*domain.StateTransition, error) {
	var transition domain.StateTransition
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		current, err := lockJobState(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if current == domain.JobStateActive {
			return fmt.Errorf("%w: job %d is already active", domain.ErrConflict, jobID)
		}
		if err := updateJobState(ctx, tx, jobID, domain.JobStateActive); err != nil {
			return err
		}
		details, err := json.Marshal(map[string]any{"actor_id": actorID, "note": note})
		if err != nil {
			return fmt.Errorf("encode override details: %w", err)
		}
		transition = domain.StateTransition{
			JobID:     jobID,
			FromState: current,
			ToState:   domain.JobStateActive,
			Reason:    domain.ReasonAdminOverride,
			Details:   details,
		}
		return insertTransition(ctx, tx, &transition)
	})
	if err != nil {
		return nil, fmt.Errorf("reinstate job %d: %w", jobID, err)
	}
	return &transition, nil
}

// ListDemotionCandidates returns postings that are not yet removed and have at
// least minSamples evaluations since the given instant. For a reinstated
// posting only evaluations after its latest admin override count.
func (r *JobRepository) ListDemotionCandidates(ctx context.Context, since time.Time, minSamples int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids,
		`SELECT j.id
		 FROM jobs j
		 LEFT JOIN LATERAL (
		     SELECT MAX(h.created_at) AS at
		     FROM job_state_history h
		     WHERE h.job_id = j.id AND h.reason = $3
		 ) o ON TRUE
		 JOIN evaluations e ON e.job_id = j.id AND e.created_at >= GREATEST($1, o.at)
		 WHERE j.state <> 'removed'
		 GROUP BY j.id
		 HAVING COUNT(*) >= $2
		 ORDER BY j.id`, since, minSamples, domain.ReasonAdminOverride)
	if err != nil {
		return nil, fmt.Errorf("list demotion candidates: %w", err)
	}
	return ids, nil
}

// lockJobState reads a posting's state and holds its row lock until the
// transaction ends, serializing writers of the same posting.
func lockJobState(ctx context.Context, tx *sqlx.Tx, jobID int64) (domain.JobState, error) {
	var state domain.JobState
	err := tx.GetContext(ctx, &state, `SELECT state FROM jobs WHERE id = $1 FOR UPDATE`, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("lock job %d: %w", jobID, err)
	}
	return state, nil
}

func updateJobState(ctx context.Context, tx *sqlx.Tx, jobID int64, state domain.JobState) error {
	if _, err := tx.ExecContext(ctx, `UPDATE jobs SET state = $2 WHERE id = $1`, jobID, state); err != nil {
		return fmt.Errorf("update state of job %d: %w", jobID, mapDBError(err))
	}
	return nil
}

func insertTransition(ctx context.Context, tx *sqlx.Tx, t *domain.StateTransition) error {
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO job_state_history (job_id, from_state, to_state, reason, details)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.JobID, t.FromState, t.ToState, t.Reason, string(t.Details),
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert state transition: %w", mapDBError(err))
	}
	return nil
}
