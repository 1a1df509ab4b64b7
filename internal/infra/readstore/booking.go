package readstore

import (
	"context"

	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingReadStore struct {
	dbtx db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{dbtx: dbtx}
}

func (s *BookingReadStore) Snapshot(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	const q = `
		SELECT id, user_id, session_id, credit_id, status, cancellation_deadline, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	var snap shared.BookingSnapshot
	err := s.dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.UserID, &snap.SessionID, &snap.CreditID,
		&snap.Status, &snap.CancellationDeadline, &snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		return nil, wrapReadErr("failed to read booking", err)
	}
	return &snap, nil
}

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	const q = `
		SELECT b.id, b.user_id, b.session_id, ct.name, ct.class_type_group,
		       s.scheduled_at, s.personal_user_id, b.credit_id, b.status,
		       b.cancellation_deadline, b.created_at, b.updated_at
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE b.id = $1`

	var view queries.BookingView
	err := s.dbtx.QueryRow(ctx, q, id).Scan(
		&view.ID, &view.UserID, &view.SessionID, &view.ClassTypeName, &view.ClassTypeGroup,
		&view.ScheduledAt, &view.PersonalUserID, &view.CreditID, &view.Status,
		&view.CancellationDeadline, &view.CreatedAt, &view.UpdatedAt,
	)
	if err != nil {
		return nil, wrapReadErr("failed to read booking view", err)
	}
	return &view, nil
}

func (s *BookingReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.BookingListItem, error) {
	const q = `
		SELECT b.id, b.session_id, ct.name, s.scheduled_at, b.status, b.created_at
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE b.user_id = $1
		ORDER BY s.scheduled_at DESC`

	rows, err := s.dbtx.Query(ctx, q, userID)
	if err != nil {
		return nil, wrapReadErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*queries.BookingListItem
	for rows.Next() {
		var item queries.BookingListItem
		if err := rows.Scan(
			&item.ID, &item.SessionID, &item.ClassTypeName, &item.ScheduledAt, &item.Status, &item.CreatedAt,
		); err != nil {
			return nil, wrapReadErr("failed to scan booking list row", err)
		}
		out = append(out, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapReadErr("failed to iterate booking list", err)
	}
	return out, nil
}
