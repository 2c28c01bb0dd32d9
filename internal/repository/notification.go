package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/xeipuuv/gojsonschema"

	"github.com/sumire/jobboard/internal/domain"
)

const payloadSchemaJSON = `{
	"type": "object",
	"required": ["job_id", "applied"],
	"properties": {
		"job_id": {"type": "integer", "minimum": 1},
		"applied": {"type": "boolean"}
	},
	"additionalProperties": false
}`

var payloadSchema = mustCompileSchema(payloadSchemaJSON)

func mustCompileSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compile notification payload schema: %v", err))
	}
	return schema
}

// validatePayload checks a payload against the stored document schema before it
// reaches the JSONB column.
func validatePayload(p domain.NotificationPayload) error {
	result, err := payloadSchema.Validate(gojsonschema.NewGoLoader(p))
	if err != nil {
		return fmt.Errorf("validate notification payload: %w", err)
	}
	if !result.Valid() {
		desc := result.Errors()[0]
		return domain.NewValidationError("payload."+desc.Field(), desc.Description())
	}
	return nil
}

// NotificationRepository handles the per-user notification inbox.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a notification and returns its ID.
func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) (int64, error) {
	if err := validatePayload(n.Payload); err != nil {
		return 0, err
	}
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, type, message, payload)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		n.UserID, n.Type, n.Message, n.Payload,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create notification for user %d: %w", n.UserID, mapDBError(err))
	}
	return id, nil
}

type notificationRow struct {
	domain.Notification
	JobTitle        *string        `db:"job_title"`
	JobDescription  *string        `db:"job_description"`
	JobSalary       *domain.Salary `db:"job_salary"`
	JobType         *string        `db:"job_type"`
	JobRequirements *string        `db:"job_requirements"`
	JobStartsAt     *string        `db:"job_starts_at"`
	JobEndsAt       *string        `db:"job_ends_at"`
	JobRegion       *string        `db:"job_region"`
	JobComuna       *string        `db:"job_comuna"`
}

func (row notificationRow) toDomain() domain.Notification {
	n := row.Notification
	if row.JobTitle == nil {
		return n
	}
	n.Job = &domain.NotificationJob{
		Title:        *row.JobTitle,
		Description:  deref(row.JobDescription),
		JobType:      domain.JobType(deref(row.JobType)),
		Requirements: deref(row.JobRequirements),
		Schedule:     domain.Schedule{StartsAt: row.JobStartsAt, EndsAt: row.JobEndsAt},
		Region:       deref(row.JobRegion),
		Comuna:       deref(row.JobComuna),
	}
	if row.JobSalary != nil {
		n.Job.Salary = *row.JobSalary
	}
	return n
}

// ListByUser returns a user's notifications newest first, each joined with its
// related posting when that posting still resolves.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Notification, error) {
	var rows []notificationRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT n.id, n.user_id, n.type, n.message, n.payload, n.read, n.created_at,
		        j.title AS job_title, j.description AS job_description, j.salary AS job_salary,
		        j.job_type AS job_type, j.requirements AS job_requirements,
		        to_char(s.starts_at, 'HH24:MI') AS job_starts_at,
		        to_char(s.ends_at, 'HH24:MI') AS job_ends_at,
		        l.region AS job_region, l.comuna AS job_comuna
		 FROM notifications n
		 LEFT JOIN jobs j ON j.id = (n.payload->>'job_id')::bigint
		 LEFT JOIN schedules s ON s.id = j.schedule_id
		 LEFT JOIN locations l ON l.id = j.location_id
		 WHERE n.user_id = $1
		 ORDER BY n.created_at DESC, n.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications of user %d: %w", userID, err)
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// MarkRead sets the read flag. Marking an already-read notification succeeds.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkApplied flags every notification of userID about jobID as applied and
// returns how many were updated.
func (r *NotificationRepository) MarkApplied(ctx context.Context, userID, jobID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications
		 SET payload = jsonb_set(payload, '{applied}', 'true'::jsonb)
		 WHERE user_id = $1 AND (payload->>'job_id')::bigint = $2`,
		userID, jobID)
	if err != nil {
		return 0, fmt.Errorf("mark notifications of user %d applied to job %d: %w", userID, jobID, err)
	}
	return res.RowsAffected()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
