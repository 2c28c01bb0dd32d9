package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/live"
)

func TestModerationService_Reinstate(t *testing.T) {
	ctx := context.Background()

	t.Run("announces reinstatement", func(t *testing.T) {
		jobs := &mockJobStore{}
		announcer := &recordingAnnouncer{}
		svc := NewModerationService(jobs, &mockEvaluationStore{}, announcer, domain.DefaultDemotionPolicy(), discardLogger())
		jobs.On("Reinstate", ctx, int64(4), int64(1), "appeal accepted").Return(&domain.StateTransition{
			JobID:     4,
			FromState: domain.JobStateInactive,
			ToState:   domain.JobStateActive,
			Reason:    domain.ReasonAdminOverride,
		}, nil)

		tr, err := svc.Reinstate(ctx, 4, 1, "appeal accepted")

		require.NoError(t, err)
		assert.Equal(t, domain.JobStateInactive, tr.FromState)
		require.Len(t, announcer.events, 1)
		assert.Equal(t, live.StateChangedEvent(4, domain.JobStateActive, domain.ReasonAdminOverride), announcer.events[0])
	})

	t.Run("already active conflicts", func(t *testing.T) {
		jobs := &mockJobStore{}
		announcer := &recordingAnnouncer{}
		svc := NewModerationService(jobs, &mockEvaluationStore{}, announcer, domain.DefaultDemotionPolicy(), discardLogger())
		jobs.On("Reinstate", ctx, int64(4), int64(1), "").Return(nil, domain.ErrConflict)

		_, err := svc.Reinstate(ctx, 4, 1, "")

		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Empty(t, announcer.events)
	})
}

func TestModerationService_Sweep(t *testing.T) {
	ctx := context.Background()
	policy := domain.DefaultDemotionPolicy()
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	jobs := &mockJobStore{}
	evals := &mockEvaluationStore{}
	announcer := &recordingAnnouncer{}
	svc := NewModerationService(jobs, evals, announcer, policy, discardLogger())
	svc.now = func() time.Time { return now }

	jobs.On("ListDemotionCandidates", ctx, policy.WindowStart(now), policy.MinSamples).Return([]int64{1, 2, 3, 4}, nil)
	evals.On("Reassess", ctx, int64(1), policy).Return(domain.EvaluationResult{
		StateChanged: true, NewState: domain.JobStateInactive, Reason: domain.ReasonLowScore,
	}, nil)
	evals.On("Reassess", ctx, int64(2), policy).Return(domain.EvaluationResult{NewState: domain.JobStateActive}, nil)
	evals.On("Reassess", ctx, int64(3), policy).Return(domain.EvaluationResult{}, errors.New("deadlock"))
	evals.On("Reassess", ctx, int64(4), policy).Return(domain.EvaluationResult{}, domain.ErrNotFound)

	res, err := svc.Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, SweepResult{Checked: 4, Demoted: 1, Failed: 1}, res)
	require.Len(t, announcer.events, 1)
	assert.Equal(t, int64(1), announcer.events[0].JobID)
	evals.AssertExpectations(t)
}
