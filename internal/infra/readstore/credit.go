package readstore

import (
	"context"

	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type CreditReadStore struct {
	dbtx db.DBTX
}

func NewCreditReadStore(dbtx db.DBTX) *CreditReadStore {
	return &CreditReadStore{dbtx: dbtx}
}

func (s *CreditReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.CreditView, error) {
	const q = `
		SELECT id, package_id, class_type_group, is_personal, classes_remaining,
		       classes_used_this_month, kind, expires_at, next_reset_at, status
		FROM user_credits
		WHERE user_id = $1
		ORDER BY COALESCE(expires_at, next_reset_at), id`

	rows, err := s.dbtx.Query(ctx, q, userID)
	if err != nil {
		return nil, wrapReadErr("failed to list credits", err)
	}
	defer rows.Close()

	var out []*queries.CreditView
	for rows.Next() {
		var view queries.CreditView
		if err := rows.Scan(
			&view.ID, &view.PackageID, &view.ClassTypeGroup, &view.IsPersonal,
			&view.ClassesRemaining, &view.ClassesUsedThisMonth, &view.Kind,
			&view.ExpiresAt, &view.NextResetAt, &view.Status,
		); err != nil {
			return nil, wrapReadErr("failed to scan credit row", err)
		}
		out = append(out, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapReadErr("failed to iterate credit rows", err)
	}
	return out, nil
}

// FindAdjustTarget picks the credit an admin delta lands on: the
// soonest-expiring active credit for the group, shared credits only.
func (s *CreditReadStore) FindAdjustTarget(ctx context.Context, userID uuid.UUID, group string) (uuid.UUID, error) {
	const q = `
		SELECT id
		FROM user_credits
		WHERE user_id = $1
		  AND class_type_group = $2
		  AND is_personal = false
		  AND status IN ('active', 'depleted')
		ORDER BY COALESCE(expires_at, next_reset_at), id
		LIMIT 1`

	var id uuid.UUID
	if err := s.dbtx.QueryRow(ctx, q, userID, group).Scan(&id); err != nil {
		return uuid.Nil, wrapReadErr("failed to find adjustable credit", err)
	}
	return id, nil
}
