package repository

import (
	"context"

	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type SessionRepository struct{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// LockByID takes the per-session row lock. Every concurrent seat claim and
// cancellation for the same session serializes here; claims on other sessions
// are unaffected.
func (r *SessionRepository) LockByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.SessionSnapshot, error) {
	const q = `
		SELECT s.id, s.class_type_id, ct.class_type_group, ct.is_personal, s.scheduled_at,
		       s.capacity, s.personal_user_id, s.created_at, s.updated_at
		FROM sessions s
		JOIN class_types ct ON ct.id = s.class_type_id
		WHERE s.id = $1
		FOR UPDATE OF s`

	var snap shared.SessionSnapshot
	err := dbtx.QueryRow(ctx, q, id).Scan(
		&snap.ID, &snap.ClassTypeID, &snap.Group, &snap.PersonalType, &snap.ScheduledAt,
		&snap.Capacity, &snap.PersonalUserID, &snap.CreatedAt, &snap.UpdatedAt,
	)
	if err != nil {
		return nil, wrapQueryErr("failed to lock session", err)
	}
	return &snap, nil
}

// Delete removes a vacated personal session. Dependent waitlist entries go
// with it via ON DELETE CASCADE, inside the caller's transaction.
func (r *SessionRepository) Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	tag, err := dbtx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return wrapQueryErr("failed to delete session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "session not found for delete", nil)
	}
	return nil
}
