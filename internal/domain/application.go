package domain

import (
	"fmt"
	"time"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// applicationTransitions lists every allowed (from -> to) pair.
// Accepted and rejected are terminal.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending: {ApplicationAccepted, ApplicationRejected},
}

// ParseApplicationStatus converts a raw string to an ApplicationStatus.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return st, nil
	}
	return "", NewValidationError("status", fmt.Sprintf("unknown application status %q", s))
}

// CanTransitionApplication reports whether an application may move from -> to.
func CanTransitionApplication(from, to ApplicationStatus) bool {
	for _, s := range applicationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Application is a user's application to a job posting. (JobID, UserID) is unique.
type Application struct {
	JobID     int64             `json:"job_id" db:"job_id"`
	UserID    int64             `json:"user_id" db:"user_id"`
	Status    ApplicationStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
}

// ApplicationCheck tells a client whether to offer "apply" or "rate".
type ApplicationCheck struct {
	Exists        bool         `json:"exists"`
	Application   *Application `json:"application"`
	HasEvaluation bool         `json:"has_evaluation"`
}

// ApplicationCounts aggregates the applications of one posting by status.
type ApplicationCounts struct {
	Total    int64 `json:"total" db:"total"`
	Pending  int64 `json:"pending" db:"pending"`
	Accepted int64 `json:"accepted" db:"accepted"`
	Rejected int64 `json:"rejected" db:"rejected"`
}
