package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sumire/jobboard/internal/domain"
)

// ApplicationStore defines the application data access interface consumed by
// ApplicationService.
type ApplicationStore interface {
	Create(ctx context.Context, jobID, userID int64) (*domain.Application, error)
	Find(ctx context.Context, jobID, userID int64) (*domain.Application, error)
	Check(ctx context.Context, jobID, userID int64) (domain.ApplicationCheck, error)
	UpdateStatus(ctx context.Context, jobID, userID int64, to domain.ApplicationStatus) (*domain.Application, error)
}

// UserStore looks up users.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}

// AppliedMarker flags a user's inbox entries for a posting as applied.
type AppliedMarker interface {
	MarkApplied(ctx context.Context, userID, jobID int64) (int64, error)
}

// ApplicationService handles applying to postings and reviewing applications.
type ApplicationService struct {
	apps    ApplicationStore
	jobs    JobStore
	users   UserStore
	applied AppliedMarker
	logger  *slog.Logger
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(apps ApplicationStore, jobs JobStore, users UserStore, applied AppliedMarker, logger *slog.Logger) *ApplicationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationService{
		apps:    apps,
		jobs:    jobs,
		users:   users,
		applied: applied,
		logger:  logger.With("component", "application_service"),
	}
}

// Apply records userID's application to an active posting. A second
// application for the same pair is a conflict.
func (s *ApplicationService) Apply(ctx context.Context, jobID, userID int64) (*domain.Application, error) {
	if _, err := s.jobs.FindActive(ctx, jobID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.apps.Find(ctx, jobID, userID); err == nil {
		return nil, fmt.Errorf("%w: already applied", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	app, err := s.apps.Create(ctx, jobID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: already applied", domain.ErrConflict)
		}
		return nil, err
	}

	if n, err := s.applied.MarkApplied(ctx, userID, jobID); err != nil {
		s.logger.Warn("notification applied flag not updated", "job_id", jobID, "user_id", userID, "error", err)
	} else if n > 0 {
		s.logger.Debug("notification applied flag updated", "job_id", jobID, "user_id", userID, "rows", n)
	}

	s.logger.Info("application created", "job_id", jobID, "user_id", userID)
	return app, nil
}

// Check reports whether userID applied to jobID and already evaluated it.
func (s *ApplicationService) Check(ctx context.Context, jobID, userID int64) (domain.ApplicationCheck, error) {
	return s.apps.Check(ctx, jobID, userID)
}

// UpdateStatus reviews a pending application. Accepted and rejected
// applications cannot change again.
func (s *ApplicationService) UpdateStatus(ctx context.Context, jobID, userID int64, to domain.ApplicationStatus) (*domain.Application, error) {
	if to == domain.ApplicationPending {
		return nil, domain.NewValidationError("status", "must be accepted or rejected")
	}
	app, err := s.apps.UpdateStatus(ctx, jobID, userID, to)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application reviewed", "job_id", jobID, "user_id", userID, "status", to)
	return app, nil
}
