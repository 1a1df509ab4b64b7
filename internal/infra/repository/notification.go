package repository

import (
	"context"
	"time"

	"studio-booking/internal/infra/db"

	"github.com/google/uuid"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

// CreateJob enqueues an outbox row inside the caller's transaction so the
// notification becomes visible exactly when the booking change commits.
func (r *NotificationRepository) CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	const q = `
		INSERT INTO notification_jobs (id, kind, topic, payload, run_at, attempts, status)
		VALUES ($1, $2, $3, $4, $5, 0, 'pending')`

	if _, err := dbtx.Exec(ctx, q, uuid.New(), kind, topic, payload, runAt); err != nil {
		return wrapQueryErr("failed to create notification job", err)
	}
	return nil
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int
}

// ClaimDue locks a batch of due jobs for one worker pass. SKIP LOCKED lets
// multiple workers drain the queue without contention.
func (r *NotificationRepository) ClaimDue(ctx context.Context, dbtx db.DBTX, now time.Time, limit int) ([]*NotificationJob, error) {
	const q = `
		SELECT id, kind, topic, payload, attempts
		FROM notification_jobs
		WHERE status = 'pending' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED`

	rows, err := dbtx.Query(ctx, q, now, limit)
	if err != nil {
		return nil, wrapQueryErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var out []*NotificationJob
	for rows.Next() {
		var job NotificationJob
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.Payload, &job.Attempts); err != nil {
			return nil, wrapQueryErr("failed to scan notification job", err)
		}
		out = append(out, &job)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to iterate notification jobs", err)
	}
	return out, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	const q = `
		UPDATE notification_jobs
		SET status = 'sent', attempts = attempts + 1, updated_at = now()
		WHERE id = $1`

	if _, err := dbtx.Exec(ctx, q, id); err != nil {
		return wrapQueryErr("failed to mark notification job sent", err)
	}
	return nil
}

// MarkFailed records the delivery error; once maxAttempts is reached the job
// is parked as dead instead of being rescheduled.
func (r *NotificationRepository) MarkFailed(ctx context.Context, dbtx db.DBTX, id uuid.UUID, lastError string, nextRunAt time.Time, maxAttempts int) error {
	const q = `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
		    last_error = $2,
		    run_at = $3,
		    status = CASE WHEN attempts + 1 >= $4 THEN 'dead' ELSE 'pending' END,
		    updated_at = now()
		WHERE id = $1`

	if _, err := dbtx.Exec(ctx, q, id, lastError, nextRunAt, maxAttempts); err != nil {
		return wrapQueryErr("failed to mark notification job failed", err)
	}
	return nil
}
