package handler

import (
	"context"

	"github.com/sumire/jobboard/internal/domain"
	"github.com/sumire/jobboard/internal/service"
)

// JobService is the posting behavior the job endpoints depend on.
type JobService interface {
	CreateJob(ctx context.Context, in domain.NewJob) (*domain.JobPosting, error)
	Get(ctx context.Context, id int64) (*domain.JobPosting, error)
	List(ctx context.Context) ([]domain.JobPosting, error)
	Search(ctx context.Context, f domain.JobFilter) ([]domain.JobPosting, error)
	Stats(ctx context.Context, id int64) (domain.JobStats, error)
	History(ctx context.Context, id int64) ([]domain.StateTransition, error)
}

// ApplicationService is the application behavior the job endpoints depend on.
type ApplicationService interface {
	Apply(ctx context.Context, jobID, userID int64) (*domain.Application, error)
	Check(ctx context.Context, jobID, userID int64) (domain.ApplicationCheck, error)
	UpdateStatus(ctx context.Context, jobID, userID int64, to domain.ApplicationStatus) (*domain.Application, error)
}

// EvaluationService is the rating behavior the job endpoints depend on.
type EvaluationService interface {
	Submit(ctx context.Context, in domain.NewEvaluation) (domain.EvaluationResult, error)
	List(ctx context.Context, jobID int64) (domain.EvaluationList, error)
}

// NotificationService is the inbox behavior the notification endpoints depend on.
type NotificationService interface {
	List(ctx context.Context, userID int64) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	NotifyUser(ctx context.Context, jobID, userID int64) (int64, error)
}

// ModerationService is the override behavior the admin endpoints depend on.
type ModerationService interface {
	Reinstate(ctx context.Context, jobID, actorID int64, note string) (*domain.StateTransition, error)
}

// TokenValidator resolves a bearer token to the caller's claims.
type TokenValidator interface {
	ValidateToken(token string) (service.Claims, error)
}

var (
	_ JobService          = (*service.JobService)(nil)
	_ ApplicationService  = (*service.ApplicationService)(nil)
	_ EvaluationService   = (*service.EvaluationService)(nil)
	_ NotificationService = (*service.NotificationService)(nil)
	_ ModerationService   = (*service.ModerationService)(nil)
	_ TokenValidator      = (*service.AuthService)(nil)
)
