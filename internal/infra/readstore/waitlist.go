package readstore

import (
	"context"

	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type WaitlistReadStore struct {
	dbtx db.DBTX
}

func NewWaitlistReadStore(dbtx db.DBTX) *WaitlistReadStore {
	return &WaitlistReadStore{dbtx: dbtx}
}

func (s *WaitlistReadStore) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*queries.WaitlistEntryView, error) {
	const q = `
		SELECT id, user_id, status, attempts, joined_at
		FROM waitlist_entries
		WHERE session_id = $1 AND status = 'waiting'
		ORDER BY joined_at, id`

	rows, err := s.dbtx.Query(ctx, q, sessionID)
	if err != nil {
		return nil, wrapReadErr("failed to list waitlist entries", err)
	}
	defer rows.Close()

	var out []*queries.WaitlistEntryView
	for rows.Next() {
		var view queries.WaitlistEntryView
		if err := rows.Scan(&view.ID, &view.UserID, &view.Status, &view.Attempts, &view.JoinedAt); err != nil {
			return nil, wrapReadErr("failed to scan waitlist row", err)
		}
		view.Position = len(out) + 1
		out = append(out, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapReadErr("failed to iterate waitlist rows", err)
	}
	return out, nil
}
