package repository

import (
	"context"

	"studio-booking/internal/domain/credit"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreditRepository struct{}

func NewCreditRepository() *CreditRepository {
	return &CreditRepository{}
}

func (r *CreditRepository) Create(ctx context.Context, dbtx db.DBTX, c *credit.Credit) (uuid.UUID, error) {
	const q = `
		INSERT INTO user_credits (
			id, user_id, package_id, class_type_group, is_personal,
			classes_remaining, classes_used_this_month, rollover_classes_remaining,
			kind, expires_at, next_reset_at, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	var id uuid.UUID
	err := dbtx.QueryRow(ctx, q,
		c.ID(), c.UserID(), c.PackageID(), c.Group().String(), c.IsPersonal(),
		c.ClassesRemaining(), c.ClassesUsedThisMonth(), c.RolloverClassesRemaining(),
		string(c.Kind()), c.ExpiresAt(), c.NextResetAt(), c.Status().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrapQueryErr("failed to create credit", err)
	}
	return id, nil
}

// FindSpendable lists a user's active, non-empty credits for the group and
// personal flag, soonest-expiring first so the ledger burns the credit that
// would otherwise be wasted. The date-window check is left to the ledger so
// it can tell "no credit" apart from "credit for a different month".
func (r *CreditRepository) FindSpendable(
	ctx context.Context,
	dbtx db.DBTX,
	userID uuid.UUID,
	group credit.ClassTypeGroup,
	isPersonal bool,
) ([]*shared.CreditSnapshot, error) {
	const q = `
		SELECT id, user_id, package_id, class_type_group, is_personal,
		       classes_remaining, kind, expires_at, next_reset_at, status
		FROM user_credits
		WHERE user_id = $1
		  AND class_type_group = $2
		  AND is_personal = $3
		  AND status = 'active'
		  AND classes_remaining > 0
		ORDER BY COALESCE(expires_at, next_reset_at), id`

	rows, err := dbtx.Query(ctx, q, userID, group.String(), isPersonal)
	if err != nil {
		return nil, wrapQueryErr("failed to query spendable credits", err)
	}
	defer rows.Close()

	var out []*shared.CreditSnapshot
	for rows.Next() {
		var snap shared.CreditSnapshot
		if err := rows.Scan(
			&snap.ID, &snap.UserID, &snap.PackageID, &snap.Group, &snap.IsPersonal,
			&snap.ClassesRemaining, &snap.Kind, &snap.ExpiresAt, &snap.NextResetAt, &snap.Status,
		); err != nil {
			return nil, wrapQueryErr("failed to scan credit row", err)
		}
		out = append(out, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryErr("failed to iterate credit rows", err)
	}
	return out, nil
}

// Debit decrements by one with the non-negativity guard in the WHERE clause.
// The row lock taken by the UPDATE serializes concurrent debits of the same
// credit; a zero row count means the balance was already spent and the whole
// reservation must abort.
func (r *CreditRepository) Debit(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error) {
	const q = `
		UPDATE user_credits
		SET classes_remaining = classes_remaining - 1,
		    classes_used_this_month = classes_used_this_month + 1,
		    status = CASE WHEN classes_remaining - 1 = 0 THEN 'depleted' ELSE status END,
		    updated_at = now()
		WHERE id = $1 AND status = 'active' AND classes_remaining > 0`

	tag, err := dbtx.Exec(ctx, q, id)
	if err != nil {
		return false, wrapQueryErr("failed to debit credit", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Refund gives one class back and revives a depleted credit. Callers
// guarantee at-most-once per booking via the booking status flip.
func (r *CreditRepository) Refund(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error {
	const q = `
		UPDATE user_credits
		SET classes_remaining = classes_remaining + 1,
		    classes_used_this_month = GREATEST(classes_used_this_month - 1, 0),
		    status = CASE WHEN status = 'depleted' THEN 'active' ELSE status END,
		    updated_at = now()
		WHERE id = $1`

	tag, err := dbtx.Exec(ctx, q, id)
	if err != nil {
		return wrapQueryErr("failed to refund credit", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr(infra.KindNotFound, "credit not found for refund", nil)
	}
	return nil
}

// Adjust applies an admin delta under the same locking discipline as Debit,
// so an admin removal racing a reserve can never drive the balance negative.
func (r *CreditRepository) Adjust(ctx context.Context, dbtx db.DBTX, id uuid.UUID, delta int) (bool, error) {
	const q = `
		UPDATE user_credits
		SET classes_remaining = classes_remaining + $2,
		    status = CASE
		        WHEN classes_remaining + $2 = 0 THEN 'depleted'
		        WHEN status = 'depleted' AND classes_remaining + $2 > 0 THEN 'active'
		        ELSE status
		    END,
		    updated_at = now()
		WHERE id = $1 AND classes_remaining + $2 >= 0`

	tag, err := dbtx.Exec(ctx, q, id, delta)
	if err != nil {
		return false, wrapQueryErr("failed to adjust credit", err)
	}
	return tag.RowsAffected() == 1, nil
}
