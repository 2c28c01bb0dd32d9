package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NotificationType represents the kind of notification.
type NotificationType string

const (
	NotificationNewJob NotificationType = "new_job"
)

// NotificationPayload is the structured data attached to a notification.
type NotificationPayload struct {
	JobID   int64 `json:"job_id"`
	Applied bool  `json:"applied"`
}

// Scan implements sql.Scanner for JSONB columns.
func (p *NotificationPayload) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = NotificationPayload{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan notification payload: unsupported type %T", src)
	}
	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("scan notification payload: %w", err)
	}
	return nil
}

// Value implements driver.Valuer.
func (p NotificationPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Notification represents an in-app notification for a user.
type Notification struct {
	ID        int64               `json:"id" db:"id"`
	UserID    int64               `json:"user_id" db:"user_id"`
	Type      NotificationType    `json:"type" db:"type"`
	Message   string              `json:"message" db:"message"`
	Payload   NotificationPayload `json:"payload" db:"payload"`
	Read      bool                `json:"read" db:"read"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	Job       *NotificationJob    `json:"job,omitempty" db:"-"`
}

// NotificationJob is the related posting joined into a notification listing.
type NotificationJob struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Salary       Salary   `json:"salary"`
	JobType      JobType  `json:"job_type"`
	Requirements string   `json:"requirements"`
	Schedule     Schedule `json:"schedule"`
	Region       string   `json:"region"`
	Comuna       string   `json:"comuna"`
}

// NewJobNotification builds the inbox entry for a user matched to job.
func NewJobNotification(userID int64, job JobPosting) Notification {
	return Notification{
		UserID:  userID,
		Type:    NotificationNewJob,
		Message: "New job posting: " + job.Title,
		Payload: NotificationPayload{JobID: job.ID},
	}
}
