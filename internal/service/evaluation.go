package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/live"
)

// EvaluationStore defines the evaluation data access interface consumed by
// EvaluationService.
type EvaluationStore interface {
	Exists(ctx context.Context, jobID, userID int64) (bool, error)
	Submit(ctx context.Context, e domain.NewEvaluation, policy domain.DemotionPolicy) (domain.EvaluationResult, error)
	List(ctx context.Context, jobID int64) ([]domain.Evaluation, error)
}

// ApplicationFinder looks up a single application.
type ApplicationFinder interface {
	Find(ctx context.Context, jobID, userID int64) (*domain.Application, error)
}

// Announcer pushes an event to live clients without failing the caller.
type Announcer interface {
	Broadcast(ctx context.Context, ev live.Event)
}

// EvaluationService accepts ratings from applicants and demotes postings whose
// ratings fall below the policy thresholds.
type EvaluationService struct {
	evals     EvaluationStore
	jobs      JobFinder
	apps      ApplicationFinder
	announcer Announcer
	policy    domain.DemotionPolicy
	logger    *slog.Logger
}

// NewEvaluationService creates a new EvaluationService.
func NewEvaluationService(evals EvaluationStore, jobs JobFinder, apps ApplicationFinder, announcer Announcer, policy domain.DemotionPolicy, logger *slog.Logger) *EvaluationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluationService{
		evals:     evals,
		jobs:      jobs,
		apps:      apps,
		announcer: announcer,
		policy:    policy,
		logger:    logger.With("component", "evaluation_service"),
	}
}

// Submit stores an evaluation. Preconditions are checked in order: the posting
// exists, the user applied to it, the user has not evaluated it yet, and only
// then the score and comment are validated.
func (s *EvaluationService) Submit(ctx context.Context, in domain.NewEvaluation) (domain.EvaluationResult, error) {
	if _, err := s.jobs.FindByID(ctx, in.JobID); err != nil {
		return domain.EvaluationResult{}, err
	}

	if _, err := s.apps.Find(ctx, in.JobID, in.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.EvaluationResult{}, fmt.Errorf("%w: must apply before evaluating", domain.ErrPreconditionFailed)
		}
		return domain.EvaluationResult{}, err
	}

	exists, err := s.evals.Exists(ctx, in.JobID, in.UserID)
	if err != nil {
		return domain.EvaluationResult{}, err
	}
	if exists {
		return domain.EvaluationResult{}, fmt.Errorf("%w: already evaluated", domain.ErrConflict)
	}

	if err := in.Validate(); err != nil {
		return domain.EvaluationResult{}, err
	}

	result, err := s.evals.Submit(ctx, in.Normalized(), s.policy)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.EvaluationResult{}, fmt.Errorf("%w: already evaluated", domain.ErrConflict)
		}
		return domain.EvaluationResult{}, err
	}

	if result.StateChanged {
		s.logger.Info("job demoted",
			"job_id", in.JobID,
			"from", result.PreviousState,
			"to", result.NewState,
			"reason", result.Reason,
			"window_total", result.Stats.Total,
			"window_average", result.Stats.Average,
		)
		s.announcer.Broadcast(ctx, live.StateChangedEvent(in.JobID, result.NewState, result.Reason))
	}
	return result, nil
}

// List returns every evaluation of a posting with the all-time average.
func (s *EvaluationService) List(ctx context.Context, jobID int64) (domain.EvaluationList, error) {
	if _, err := s.jobs.FindByID(ctx, jobID); err != nil {
		return domain.EvaluationList{}, err
	}
	evals, err := s.evals.List(ctx, jobID)
	if err != nil {
		return domain.EvaluationList{}, err
	}
	return domain.NewEvaluationList(evals), nil
}
