package repository

import (
	"context"
	"errors"
	"time"

	"studio-booking/internal/domain/waitlist"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WaitlistRepository struct{}

func NewWaitlistRepository() *WaitlistRepository {
	return &WaitlistRepository{}
}

func (r *WaitlistRepository) Create(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) (uuid.UUID, error) {
	const q = `
		INSERT INTO waitlist_entries (id, user_id, session_id, status, attempts, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q,
		e.ID(), e.UserID(), e.SessionID(), e.Status().String(), e.Attempts(), e.JoinedAt(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapQueryErr("failed to create waitlist entry", err)
	}
	return id, nil
}

// NextWaiting returns the earliest waiting entry strictly after the given
// position, FIFO by joined_at with id as tiebreaker. The cursor is a keyset
// on (joined_at, id) so entries sharing a joined_at are still walked one by
// one. SKIP LOCKED keeps two concurrent promotion passes from fighting over
// the same entry. A nil snapshot means the queue is exhausted.
func (r *WaitlistRepository) NextWaiting(
	ctx context.Context,
	dbtx db.DBTX,
	sessionID uuid.UUID,
	afterJoinedAt time.Time,
	afterID uuid.UUID,
) (*shared.WaitlistEntrySnapshot, error) {
	const q = `
		SELECT id, user_id, session_id, status, attempts, joined_at
		FROM waitlist_entries
		WHERE session_id = $1 AND status = 'waiting' AND (joined_at, id) > ($2, $3)
		ORDER BY joined_at, id
		LIMIT 1
		FOR UPDATE SKIP LOCKED`

	var snap shared.WaitlistEntrySnapshot
	err := dbtx.QueryRow(ctx, q, sessionID, afterJoinedAt, afterID).Scan(
		&snap.ID, &snap.UserID, &snap.SessionID, &snap.Status, &snap.Attempts, &snap.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapQueryErr("failed to fetch next waiting entry", err)
	}
	return &snap, nil
}

// UpdateStatus only transitions entries still waiting, so two racing
// promotion passes cannot overwrite each other's terminal state.
func (r *WaitlistRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status waitlist.Status) error {
	const q = `
		UPDATE waitlist_entries
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'waiting'`

	if _, err := dbtx.Exec(ctx, q, id, status.String()); err != nil {
		return wrapQueryErr("failed to update waitlist entry status", err)
	}
	return nil
}

func (r *WaitlistRepository) IncrementAttempts(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	const q = `UPDATE waitlist_entries SET attempts = attempts + 1, updated_at = now() WHERE id = $1`

	if _, err := dbtx.Exec(ctx, q, id); err != nil {
		return wrapQueryErr("failed to increment waitlist attempts", err)
	}
	return nil
}

// CancelWaiting flips the user's waiting entry to cancelled; false means
// there was nothing waiting to cancel.
func (r *WaitlistRepository) CancelWaiting(ctx context.Context, dbtx db.DBTX, userID, sessionID uuid.UUID) (bool, error) {
	const q = `
		UPDATE waitlist_entries
		SET status = 'cancelled', updated_at = now()
		WHERE user_id = $1 AND session_id = $2 AND status = 'waiting'`

	tag, err := dbtx.Exec(ctx, q, userID, sessionID)
	if err != nil {
		return false, wrapQueryErr("failed to cancel waitlist entry", err)
	}
	return tag.RowsAffected() > 0, nil
}
