package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/live"
)

// ModerationStore defines the posting state access interface consumed by
// ModerationService.
type ModerationStore interface {
	Reinstate(ctx context.Context, jobID, actorID int64, note string) (*domain.StateTransition, error)
	ListDemotionCandidates(ctx context.Context, since time.Time, minSamples int64) ([]int64, error)
}

// Reassessor re-applies the demotion policy to a posting.
type Reassessor interface {
	Reassess(ctx context.Context, jobID int64, policy domain.DemotionPolicy) (domain.EvaluationResult, error)
}

// SweepResult summarizes one pass of the demotion sweep.
type SweepResult struct {
	Checked int
	Demoted int
	Failed  int
}

// ModerationService handles manual reinstatement and the periodic demotion sweep.
type ModerationService struct {
	jobs      ModerationStore
	evals     Reassessor
	announcer Announcer
	policy    domain.DemotionPolicy
	now       func() time.Time
	logger    *slog.Logger
}

// NewModerationService creates a new ModerationService.
func NewModerationService(jobs ModerationStore, evals Reassessor, announcer Announcer, policy domain.DemotionPolicy, logger *slog.Logger) *ModerationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ModerationService{
		jobs:      jobs,
		evals:     evals,
		announcer: announcer,
		policy:    policy,
		now:       time.Now,
		logger:    logger.With("component", "moderation_service"),
	}
}

// Reinstate makes a demoted posting active again on behalf of an admin.
func (s *ModerationService) Reinstate(ctx context.Context, jobID, actorID int64, note string) (*domain.StateTransition, error) {
	t, err := s.jobs.Reinstate(ctx, jobID, actorID, note)
	if err != nil {
		return nil, err
	}
	s.logger.Info("job reinstated", "job_id", jobID, "from", t.FromState, "actor_id", actorID)
	s.announcer.Broadcast(ctx, live.StateChangedEvent(jobID, t.ToState, t.Reason))
	return t, nil
}

// Sweep re-applies the demotion policy to every posting with enough
// evaluations inside the window. A failure on one posting does not stop the
// others.
func (s *ModerationService) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	ids, err := s.jobs.ListDemotionCandidates(ctx, s.policy.WindowStart(s.now()), s.policy.MinSamples)
	if err != nil {
		return res, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Checked++

		result, err := s.evals.Reassess(ctx, id, s.policy)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			res.Failed++
			s.logger.Warn("reassessment failed", "job_id", id, "error", err)
			continue
		}
		if result.StateChanged {
			res.Demoted++
			s.logger.Info("job demoted by sweep", "job_id", id, "to", result.NewState, "reason", result.Reason)
			s.announcer.Broadcast(ctx, live.StateChangedEvent(id, result.NewState, result.Reason))
		}
	}
	return res, nil
}
