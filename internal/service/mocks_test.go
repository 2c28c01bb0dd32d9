package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/live"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockJobStore is a mock implementation of JobStore, JobFinder and ModerationStore.
type mockJobStore struct {
	mock.Mock
}

func (m *mockJobStore) Create(ctx context.Context, in domain.NewJob) (*domain.JobPosting, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

func (m *mockJobStore) FindByID(ctx context.Context, id int64) (*domain.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

func (m *mockJobStore) FindActive(ctx context.Context, id int64) (*domain.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

func (m *mockJobStore) ListActive(ctx context.Context) ([]domain.JobPosting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobPosting), args.Error(1)
}

func (m *mockJobStore) Search(ctx context.Context, f domain.JobFilter) ([]domain.JobPosting, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JobPosting), args.Error(1)
}

func (m *mockJobStore) Stats(ctx context.Context, jobID int64) (domain.JobStats, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(domain.JobStats), args.Error(1)
}

func (m *mockJobStore) History(ctx context.Context, jobID int64) ([]domain.StateTransition, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StateTransition), args.Error(1)
}

func (m *mockJobStore) Reinstate(ctx context.Context, jobID, actorID int64, note string) (*domain.StateTransition, error) {
	args := m.Called(ctx, jobID, actorID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StateTransition), args.Error(1)
}

func (m *mockJobStore) ListDemotionCandidates(ctx context.Context, since time.Time, minSamples int64) ([]int64, error) {
	args := m.Called(ctx, since, minSamples)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// mockPreferenceStore is a mock implementation of PreferenceStore.
type mockPreferenceStore struct {
	mock.Mock
}

func (m *mockPreferenceStore) FindMatchingUsers(ctx context.Context, c domain.MatchCriteria) ([]int64, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// mockNotificationStore is a mock implementation of NotificationStore and AppliedMarker.
type mockNotificationStore struct {
	mock.Mock
}

func (m *mockNotificationStore) Create(ctx context.Context, n domain.Notification) (int64, error) {
	args := m.Called(ctx, n)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationStore) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockNotificationStore) MarkApplied(ctx context.Context, userID, jobID int64) (int64, error) {
	args := m.Called(ctx, userID, jobID)
	return args.Get(0).(int64), args.Error(1)
}

// mockApplicationStore is a mock implementation of ApplicationStore.
type mockApplicationStore struct {
	mock.Mock
}

func (m *mockApplicationStore) Create(ctx context.Context, jobID, userID int64) (*domain.Application, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *mockApplicationStore) Find(ctx context.Context, jobID, userID int64) (*domain.Application, error) {
	args := m.Called(ctx, jobID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *mockApplicationStore) Check(ctx context.Context, jobID, userID int64) (domain.ApplicationCheck, error) {
	args := m.Called(ctx, jobID, userID)
	return args.Get(0).(domain.ApplicationCheck), args.Error(1)
}

func (m *mockApplicationStore) UpdateStatus(ctx context.Context, jobID, userID int64, to domain.ApplicationStatus) (*domain.Application, error) {
	args := m.Called(ctx, jobID, userID, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

// mockUserStore is a mock implementation of UserStore.
type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// mockEvaluationStore is a mock implementation of EvaluationStore and Reassessor.
type mockEvaluationStore struct {
	mock.Mock
}

func (m *mockEvaluationStore) Exists(ctx context.Context, jobID, userID int64) (bool, error) {
	args := m.Called(ctx, jobID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockEvaluationStore) Submit(ctx context.Context, e domain.NewEvaluation, policy domain.DemotionPolicy) (domain.EvaluationResult, error) {
	args := m.Called(ctx, e, policy)
	return args.Get(0).(domain.EvaluationResult), args.Error(1)
}

func (m *mockEvaluationStore) Reassess(ctx context.Context, jobID int64, policy domain.DemotionPolicy) (domain.EvaluationResult, error) {
	args := m.Called(ctx, jobID, policy)
	return args.Get(0).(domain.EvaluationResult), args.Error(1)
}

func (m *mockEvaluationStore) List(ctx context.Context, jobID int64) ([]domain.Evaluation, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Evaluation), args.Error(1)
}

// mockBroadcaster is a mock implementation of live.Broadcaster.
type mockBroadcaster struct {
	mock.Mock
}

func (m *mockBroadcaster) Broadcast(ctx context.Context, ev live.Event) error {
	return m.Called(ctx, ev).Error(0)
}

// recordingAnnouncer collects announced events.
type recordingAnnouncer struct {
	events []live.Event
}

func (r *recordingAnnouncer) Broadcast(_ context.Context, ev live.Event) {
	r.events = append(r.events, ev)
}
