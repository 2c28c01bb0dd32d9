package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sumire/jobboard/internal/domain"
)

// JobStore defines the posting data access interface consumed by JobService.
type JobStore interface {
	Create(ctx context.Context, in domain.NewJob) (*domain.JobPosting, error)
	FindByID(ctx context.Context, id int64) (*domain.JobPosting, error)
	FindActive(ctx context.Context, id int64) (*domain.JobPosting, error)
	ListActive(ctx context.Context) ([]domain.JobPosting, error)
	Search(ctx context.Context, f domain.JobFilter) ([]domain.JobPosting, error)
	Stats(ctx context.Context, jobID int64) (domain.JobStats, error)
	History(ctx context.Context, jobID int64) ([]domain.StateTransition, error)
}

// UserMatcher finds the users whose preferences match a posting.
type UserMatcher interface {
	FindMatchingUsers(ctx context.Context, c domain.MatchCriteria) []int64
}

// JobNotifier fans a new posting out to matched users and live clients.
type JobNotifier interface {
	NotifyNewJob(ctx context.Context, job domain.JobPosting, userIDs []int64) int
}

// JobService handles posting creation and read views.
type JobService struct {
	jobs     JobStore
	matcher  UserMatcher
	notifier JobNotifier
	logger   *slog.Logger
}

// NewJobService creates a new JobService.
func NewJobService(jobs JobStore, matcher UserMatcher, notifier JobNotifier, logger *slog.Logger) *JobService {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobService{
		jobs:     jobs,
		matcher:  matcher,
		notifier: notifier,
		logger:   logger.With("component", "job_service"),
	}
}

// CreateJob stores a posting with its location and schedule, then notifies
// matching users. Matching and notification problems never fail the creation.
func (s *JobService) CreateJob(ctx context.Context, in domain.NewJob) (*domain.JobPosting, error) {
	if in.JobType == "" {
		in.JobType = domain.JobTypeFullTime
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	job, err := s.jobs.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	userIDs := s.matcher.FindMatchingUsers(ctx, domain.CriteriaFor(*job))
	sent := s.notifier.NotifyNewJob(ctx, *job, userIDs)
	s.logger.Info("job created",
		"job_id", job.ID,
		"matched_users", len(userIDs),
		"notifications", sent,
	)
	return job, nil
}

// Get returns an active posting.
func (s *JobService) Get(ctx context.Context, id int64) (*domain.JobPosting, error) {
	return s.jobs.FindActive(ctx, id)
}

// List returns every active posting, newest first.
func (s *JobService) List(ctx context.Context) ([]domain.JobPosting, error) {
	return s.jobs.ListActive(ctx)
}

// Search returns the active postings matching every set filter.
func (s *JobService) Search(ctx context.Context, f domain.JobFilter) ([]domain.JobPosting, error) {
	if f.SalaryMin != nil && f.SalaryMax != nil && *f.SalaryMin > *f.SalaryMax {
		return nil, domain.NewValidationError("salaryMax", "must not be lower than salaryMin")
	}
	return s.jobs.Search(ctx, f)
}

// Stats returns application and evaluation counts of a posting in any state.
func (s *JobService) Stats(ctx context.Context, id int64) (domain.JobStats, error) {
	if _, err := s.jobs.FindByID(ctx, id); err != nil {
		return domain.JobStats{}, err
	}
	return s.jobs.Stats(ctx, id)
}

// History returns the state transitions of a posting, newest first.
func (s *JobService) History(ctx context.Context, id int64) ([]domain.StateTransition, error) {
	if _, err := s.jobs.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.jobs.History(ctx, id)
}
