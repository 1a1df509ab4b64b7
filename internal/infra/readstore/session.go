package readstore

import (
	"context"
	"time"

	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type SessionReadStore struct {
	dbtx db.DBTX
}

func NewSessionReadStore(dbtx db.DBTX) *SessionReadStore {
	return &SessionReadStore{dbtx: dbtx}
}

// Snapshot reads without locking; the write path relocks through the session
// repository before acting on what it saw.
func (s *SessionReadStore) Snapshot(ctx context.Context, id uuid.UUID) (*shared.SessionSnapshot, error) {
	const q = `
		SELECT s.id, s.class_type_id, ct.class_type_group, ct.is_personal, s.scheduled_at,
		       s.capacity, s.personal_user_id, s.created_at, s.updated_at
		FROM sessions s
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE s.id = $1`

	var snap shared.SessionSnapshot
	err := s.dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.ClassTypeID, &snap.Group, &snap.PersonalType, &snap.ScheduledAt,
		&snap.Capacity, &snap.PersonalUserID, &snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		return nil, wrapReadErr("failed to read session", err)
	}
	return &snap, nil
}

func (s *SessionReadStore) Availability(ctx context.Context, id uuid.UUID) (*queries.SessionAvailabilityView, error) {
	const q = `
		SELECT s.id, s.scheduled_at, s.capacity,
		       (SELECT count(*) FROM bookings b WHERE b.session_id = s.id AND b.status = 'confirmed'),
		       (SELECT count(*) FROM waitlist_entries w WHERE w.session_id = s.id AND w.status = 'waiting')
		FROM sessions s
		WHERE s.id = $1`

	var view queries.SessionAvailabilityView
	err := s.dbtx.QueryRow(ctx, q, id).Scan(
		&view.SessionID, &view.ScheduledAt, &view.Capacity, &view.Confirmed, &view.Waiting,
	)
	if err != nil {
		return nil, wrapReadErr("failed to read session availability", err)
	}
	view.OpenSeats = view.Capacity - view.Confirmed
	if view.OpenSeats < 0 {
		view.OpenSeats = 0
	}
	return &view, nil
}

// FindUnderbooked lists upcoming shared sessions whose confirmed headcount is
// below the minimum attendance, for the operational auto-cancel sweep.
func (s *SessionReadStore) FindUnderbooked(ctx context.Context, from, until time.Time, minAttendance int) ([]uuid.UUID, error) {
	const q = `
		SELECT s.id
		FROM sessions s
		WHERE s.personal_user_id IS NULL
		  AND s.scheduled_at > $1
		  AND s.scheduled_at <= $2
		  AND (SELECT count(*) FROM bookings b
		       WHERE b.session_id = s.id AND b.status = 'confirmed') < $3
		ORDER BY s.scheduled_at`

	rows, err := s.dbtx.Query(ctx, q, from, until, minAttendance)
	if err != nil {
		return nil, wrapReadErr("failed to find underbooked sessions", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, wrapReadErr("failed to scan session id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapReadErr("failed to iterate session ids", err)
	}
	return ids, nil
}

// PersonalOwner returns the bound user of a personal session, or nil for
// shared sessions. Used by the privacy filter on the query side.
func (s *SessionReadStore) PersonalOwner(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	const q = `SELECT personal_user_id FROM sessions WHERE id = $1`

	var owner *uuid.UUID
	if err := s.dbtx.QueryRow(ctx, q, id).Scan(&owner); err != nil {
		return nil, wrapReadErr("failed to read session owner", err)
	}
	return owner, nil
}
