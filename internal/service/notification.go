package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/live"
)

// NotificationStore defines the inbox data access interface consumed by
// NotificationService.
type NotificationStore interface {
	Create(ctx context.Context, n domain.Notification) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

// JobFinder looks up a posting in any state.
type JobFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.JobPosting, error)
}

// NotificationService writes inbox entries and pushes live events.
type NotificationService struct {
	store       NotificationStore
	jobs        JobFinder
	broadcaster live.Broadcaster
	logger      *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store NotificationStore, jobs JobFinder, broadcaster live.Broadcaster, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		store:       store,
		jobs:        jobs,
		broadcaster: broadcaster,
		logger:      logger.With("component", "notification_service"),
	}
}

// Notify stores a new_job inbox entry for userID and returns its id.
func (s *NotificationService) Notify(ctx context.Context, userID int64, job domain.JobPosting) (int64, error) {
	id, err := s.store.Create(ctx, domain.NewJobNotification(userID, job))
	if err != nil {
		return 0, fmt.Errorf("notify user %d of job %d: %w", userID, job.ID, err)
	}
	return id, nil
}

// NotifyNewJob stores one inbox entry per user, then broadcasts the posting to
// every live client regardless of preferences. It returns the number of inbox
// entries written; individual failures are logged and skipped.
func (s *NotificationService) NotifyNewJob(ctx context.Context, job domain.JobPosting, userIDs []int64) int {
	sent := 0
	for _, userID := range userIDs {
		if _, err := s.Notify(ctx, userID, job); err != nil {
			s.logger.Warn("notification not stored", "job_id", job.ID, "user_id", userID, "error", err)
			continue
		}
		sent++
	}
	s.Broadcast(ctx, live.NewJobEvent(job))
	return sent
}

// NotifyUser stores a new_job entry for a single user on request.
func (s *NotificationService) NotifyUser(ctx context.Context, jobID, userID int64) (int64, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return 0, err
	}
	return s.Notify(ctx, userID, *job)
}

// Broadcast pushes ev to live clients. Delivery problems are logged only.
func (s *NotificationService) Broadcast(ctx context.Context, ev live.Event) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Broadcast(ctx, ev); err != nil {
		s.logger.Warn("live broadcast failed", "type", ev.Type, "error", err)
	}
}

// MarkRead flags a notification as read. Marking twice is not an error.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.store.MarkRead(ctx, id)
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID int64) ([]domain.Notification, error) {
	return s.store.ListByUser(ctx, userID)
}
