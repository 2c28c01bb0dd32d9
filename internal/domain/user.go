package domain

import "time"

// User is a registered account. Users are managed by the accounts service and
// read-only here.
type User struct {
	ID          int64     `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Role is the authorization role carried by an access token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// MatchCriteria is the job side of the preference matching predicate: a user
// matches when their preferred region and job type are equal and their desired
// salary does not exceed the offer.
type MatchCriteria struct {
	Region  string
	JobType JobType
	Salary  Salary
}

// CriteriaFor extracts the match criteria of a posting.
func CriteriaFor(job JobPosting) MatchCriteria {
	return MatchCriteria{Region: job.Location.Region, JobType: job.JobType, Salary: job.Salary}
}
