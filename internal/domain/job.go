package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// JobState represents the visibility state of a job posting.
type JobState string

const (
	JobStateActive   JobState = "active"
	JobStateInactive JobState = "inactive"
	JobStateRemoved  JobState = "removed"
)

// visibility orders states from least to most visible.
var visibility = map[JobState]int{
	JobStateRemoved:  0,
	JobStateInactive: 1,
	JobStateActive:   2,
}

// ParseJobState converts a raw string to a JobState.
func ParseJobState(s string) (JobState, error) {
	st := JobState(s)
	if _, ok := visibility[st]; !ok {
		return "", fmt.Errorf("%w: unknown job state %q", ErrInvalidInput, s)
	}
	return st, nil
}

// IsDemotion reports whether moving from -> to makes a posting less visible.
// Automatic transitions are only ever demotions.
func IsDemotion(from, to JobState) bool {
	f, okFrom := visibility[from]
	t, okTo := visibility[to]
	return okFrom && okTo && t < f
}

// JobType is the working-hours category of a posting.
type JobType string

const (
	JobTypeFullTime JobType = "full_time"
	JobTypePartTime JobType = "part_time"
	JobTypeOther    JobType = "other"
)

// ParseJobType converts a raw string to a JobType. An empty string means full time.
func ParseJobType(s string) (JobType, error) {
	switch jt := JobType(strings.TrimSpace(s)); jt {
	case "":
		return JobTypeFullTime, nil
	case JobTypeFullTime, JobTypePartTime, JobTypeOther:
		return jt, nil
	}
	return "", NewValidationError("job_type", fmt.Sprintf("unknown job type %q", s))
}

// Location is the address a posting is offered at. Each posting owns its own row.
type Location struct {
	ID      int64   `json:"id" db:"id"`
	Region  string  `json:"region" db:"region"`
	Comuna  string  `json:"comuna" db:"comuna"`
	City    *string `json:"city,omitempty" db:"city"`
	Address *string `json:"address,omitempty" db:"address"`
}

// Schedule holds the daily working hours of a posting as HH:MM strings.
type Schedule struct {
	ID       int64   `json:"id" db:"id"`
	StartsAt *string `json:"start,omitempty" db:"starts_at"`
	EndsAt   *string `json:"end,omitempty" db:"ends_at"`
}

// JobPosting is a single employer-submitted job opportunity.
type JobPosting struct {
	ID                  int64      `json:"id" db:"id"`
	Title               string     `json:"title" db:"title"`
	Description         string     `json:"description" db:"description"`
	Requirements        string     `json:"requirements" db:"requirements"`
	Salary              Salary     `json:"salary" db:"salary"`
	State               JobState   `json:"state" db:"state"`
	JobType             JobType    `json:"job_type" db:"job_type"`
	Phone               string     `json:"phone" db:"phone"`
	Email               string     `json:"email" db:"email"`
	PublishedAt         time.Time  `json:"published_at" db:"published_at"`
	StartsOn            *time.Time `json:"starts_on,omitempty" db:"starts_on"`
	ApplicationsCloseOn *time.Time `json:"applications_close_on,omitempty" db:"applications_close_on"`
	PostedBy            *int64     `json:"posted_by,omitempty" db:"posted_by"`
	PublisherName       string     `json:"publisher_name" db:"publisher_name"`
	AverageRating       *float64   `json:"average_rating,omitempty" db:"average_rating"`
	Location            Location   `json:"location" db:"location"`
	Schedule            Schedule   `json:"schedule" db:"schedule"`
}

// WithState returns a copy of the posting with the given state.
func (j JobPosting) WithState(state JobState) JobPosting {
	j.State = state
	return j
}

// NewJob is the input of a job creation request.
type NewJob struct {
	Title               string
	Description         string
	Requirements        string
	Phone               string
	Email               string
	Salary              Salary
	JobType             JobType
	Location            Location
	StartTime           *string
	EndTime             *string
	StartsOn            *time.Time
	ApplicationsCloseOn *time.Time
	PostedBy            *int64
}

// Validate checks the fields a posting cannot be stored without.
func (j NewJob) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"title", j.Title},
		{"phone", j.Phone},
		{"email", j.Email},
		{"location.region", j.Location.Region},
		{"location.comuna", j.Location.Comuna},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewValidationError(r.field, "is required")
		}
	}
	if _, err := mail.ParseAddress(j.Email); err != nil {
		return NewValidationError("email", "is not a valid address")
	}
	if j.Salary < 0 {
		return NewValidationError("salary", "must not be negative")
	}
	clocks := []struct {
		field string
		value *string
	}{
		{"start_time", j.StartTime},
		{"end_time", j.EndTime},
	}
	for _, c := range clocks {
		if c.value == nil {
			continue
		}
		if _, err := time.Parse(ClockLayout, *c.value); err != nil {
			return NewValidationError(c.field, "must be formatted as HH:MM")
		}
	}
	if j.StartsOn != nil && j.ApplicationsCloseOn != nil && j.ApplicationsCloseOn.Before(*j.StartsOn) {
		return NewValidationError("end_posting_date", "must not be before start_date")
	}
	return nil
}

// JobFilter narrows a search over active postings. Zero values are ignored and
// set fields combine with AND.
type JobFilter struct {
	Query     string
	SalaryMin *Salary
	SalaryMax *Salary
	Region    string
	Comuna    string
	JobType   JobType
	StartTime string
	EndTime   string
	StartDate *time.Time
	EndDate   *time.Time
}
