package repository

import (
	"context"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	const q = `
		INSERT INTO bookings (id, user_id, session_id, credit_id, status, cancellation_deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q,
		b.ID(), b.UserID(), b.SessionID(), b.CreditID(),
		b.Status().String(), b.CancellationDeadline(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapQueryErr("failed to create booking", err)
	}
	return id, nil
}

// CountConfirmed is always computed live from booking rows; there is no
// cached seat counter that could drift.
func (r *BookingRepository) CountConfirmed(ctx context.Context, dbtx db.DBTX, sessionID uuid.UUID) (int, error) {
	const q = `SELECT count(*) FROM bookings WHERE session_id = $1 AND status = 'confirmed'`

	var n int
	if err := dbtx.QueryRow(ctx, q, sessionID).Scan(&n); err != nil {
		return 0, wrapQueryErr("failed to count confirmed bookings", err)
	}
	return n, nil
}

func (r *BookingRepository) ExistsConfirmed(ctx context.Context, dbtx db.DBTX, userID, sessionID uuid.UUID) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND session_id = $2 AND status = 'confirmed'
		)`

	var exists bool
	if err := dbtx.QueryRow(ctx, q, userID, sessionID).Scan(&exists); err != nil {
		return false, wrapQueryErr("failed to check existing booking", err)
	}
	return exists, nil
}

// CancelIfConfirmed performs the confirmed→cancelled flip with the status
// guard in SQL. A zero row count means another transaction won the flip, so
// the caller must not issue a refund.
func (r *BookingRepository) CancelIfConfirmed(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	const q = `
		UPDATE bookings
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status = 'confirmed'`

	tag, err := dbtx.Exec(ctx, q, id)
	if err != nil {
		return false, wrapQueryErr("failed to cancel booking", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) ListConfirmedBySession(ctx context.Context, dbtx db.DBTX, sessionID uuid.UUID) ([]*shared.BookingSnapshot, error) {
	const q = `
		SELECT id, user_id, session_id, credit_id, status, cancellation_deadline, created_at, updated_at
		FROM bookings
		WHERE session_id = $1 AND status = 'confirmed'
		ORDER BY created_at`

	rows, err := dbtx.Query(ctx, q, sessionID)
	if err != nil {
		return nil, wrapQueryErr("failed to list confirmed bookings", err)
	}
	defer rows.Close()

	var out []*shared.BookingSnapshot
	for rows.Next() {
		var snap shared.BookingSnapshot
		if err := rows.Scan(
			&snap.ID, &snap.UserID, &snap.SessionID, &snap.CreditID,
			&snap.Status, &snap.CancellationDeadline, &snap.CreatedAt, &snap.UpdatedAt,
		); err != nil {
			return nil, wrapQueryErr("failed to scan booking row", err)
		}
		out = append(out, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to iterate booking rows", err)
	}
	return out, nil
}
