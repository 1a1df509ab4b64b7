package notify

import (
	"context"
	"log/slog"
	"time"

	"studio-booking/internal/infra/repository"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// Worker drains the notification outbox. Each pass claims a batch of due
// jobs under row locks, delivers them through the Sender, and records the
// outcome before the claiming transaction commits.
type Worker struct {
	pool   *pgxpool.Pool
	jobs   *repository.NotificationRepository
	sender Sender
	cfg    config.NotifyConfig
	clock  clock.Clock
}

func NewWorker(
	pool *pgxpool.Pool,
	jobs *repository.NotificationRepository,
	sender Sender,
	cfg config.NotifyConfig,
	clk clock.Clock,
) *Worker {
	return &Worker{
		pool:   pool,
		jobs:   jobs,
		sender: sender,
		cfg:    cfg,
		clock:  clk,
	}
}

// Run polls until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := w.RunOnce(ctx); err != nil {
				slog.Error("notification pass failed", "error", err.Error())
			} else if n > 0 {
				slog.Debug("notification pass complete", "delivered", n)
			}
		}
	}
}

// RunOnce processes a single batch and reports how many jobs were delivered.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	now := w.clock.Now()
	claimed, err := w.jobs.ClaimDue(ctx, tx, now, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, job := range claimed {
		if err := w.deliver(ctx, Message{Kind: job.Kind, Topic: job.Topic, Payload: job.Payload}); err != nil {
			slog.Warn("notification delivery failed",
				"job_id", job.ID, "topic", job.Topic, "error", err.Error())
			if err := w.jobs.MarkFailed(ctx, tx, job.ID, err.Error(), w.nextRunAt(job.Attempts), w.cfg.MaxAttempts); err != nil {
				return delivered, err
			}
			continue
		}
		if err := w.jobs.MarkSent(ctx, tx, job.ID); err != nil {
			return delivered, err
		}
		delivered++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return delivered, nil
}

// deliver retries transient sender failures with exponential backoff before
// giving the job back to the queue.
func (w *Worker) deliver(ctx context.Context, msg Message) error {
	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := w.sender.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// nextRunAt pushes a failed job out by a delay that grows with its attempt
// count, so a broken provider does not get hammered every poll.
func (w *Worker) nextRunAt(attempts int) time.Time {
	delay := w.cfg.PollInterval * time.Duration(attempts+1)
	if delay > 5*time.Minute {
		delay = 5 * time.Minute
	}
	return w.clock.Now().Add(delay)
}
