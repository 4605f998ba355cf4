package repository

import (
	"context"
	"time"

	"heavyhub/internal/infra"
	"heavyhub/internal/infra/db"

	"github.com/google/uuid"
)

// NotificationRepository persists dispatch jobs in the same transaction
// as the booking mutation that caused them. One row per event is the
// exactly-once record; the relay (internal/notifier) owns delivery.
type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

const createNotificationJobSQL = `
INSERT INTO notification_jobs (kind, topic, payload, run_at)
VALUES ($1, $2, $3, $4)
`

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx, createNotificationJobSQL, kind, topic, payload, runAt)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err, kindForPgErr(err))
	}
	return nil
}

type NotificationJob struct {
	ID      uuid.UUID
	Kind    string
	Topic   string
	Payload []byte
}

const claimJobsSQL = `
SELECT id, kind, topic, payload
FROM notification_jobs
WHERE status = 'pending' AND run_at <= $1
ORDER BY run_at
LIMIT $2
FOR UPDATE SKIP LOCKED
`

// ClaimPending locks a batch of runnable jobs for the calling
// transaction; SKIP LOCKED keeps concurrent relay instances from
// delivering the same job twice.
func (r *NotificationRepository) ClaimPending(ctx context.Context, now time.Time, limit int32) ([]NotificationJob, error) {
	rows, err := r.db.Query(ctx, claimJobsSQL, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var j NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification jobs", err)
	}

	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_jobs SET status = 'sent', updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job sent", err)
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_jobs
		 SET attempts = attempts + 1, last_error = $2, updated_at = now()
		 WHERE id = $1`, id, cause)
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}
