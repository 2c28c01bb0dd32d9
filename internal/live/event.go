// Package live pushes job board events to connected browsers over WebSocket.
//
// Delivery is at-most-once: events are not stored, a client that is offline
// when an event is broadcast never sees it and must catch up through the
// notification inbox.
package live

import (
	"context"

	"github.com/sumire/jobboard/internal/domain"
)

// EventType discriminates the events sent over the channel.
type EventType string

const (
	EventHello           EventType = "hello"
	EventAuth            EventType = "auth"
	EventAuthOK          EventType = "auth_ok"
	EventNewJob          EventType = "new_job"
	EventJobStateChanged EventType = "job_state_changed"
)

// Event is one message on the live channel.
type Event struct {
	Type        EventType `json:"type"`
	Job         *JobEvent `json:"job,omitempty"`
	JobID       int64     `json:"job_id,omitempty"`
	State       string    `json:"state,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	UserID      int64     `json:"user_id,omitempty"`
	ReconnectMS int64     `json:"reconnect_ms,omitempty"`
}

// JobEvent is the posting summary carried by a new_job event.
type JobEvent struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Salary      domain.Salary  `json:"salary"`
	Location    JobLocation    `json:"location"`
	JobType     domain.JobType `json:"job_type"`
	Schedule    JobSchedule    `json:"schedule"`
}

type JobLocation struct {
	Region string  `json:"region"`
	Comuna string  `json:"comuna"`
	City   *string `json:"city,omitempty"`
}

type JobSchedule struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// NewJobEvent describes a freshly created posting.
func NewJobEvent(job domain.JobPosting) Event {
	return Event{
		Type: EventNewJob,
		Job: &JobEvent{
			ID:          job.ID,
			Title:       job.Title,
			Description: job.Description,
			Salary:      job.Salary,
			Location: JobLocation{
				Region: job.Location.Region,
				Comuna: job.Location.Comuna,
				City:   job.Location.City,
			},
			JobType:  job.JobType,
			Schedule: JobSchedule{Start: job.Schedule.StartsAt, End: job.Schedule.EndsAt},
		},
	}
}

// StateChangedEvent announces that a posting's visibility changed.
func StateChangedEvent(jobID int64, state domain.JobState, reason domain.TransitionReason) Event {
	return Event{Type: EventJobStateChanged, JobID: jobID, State: string(state), Reason: string(reason)}
}

// Broadcaster sends an event to every connected client.
type Broadcaster interface {
	Broadcast(ctx context.Context, ev Event) error
}
