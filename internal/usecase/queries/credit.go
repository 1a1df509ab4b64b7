package queries

import (
	"context"

	"github.com/google/uuid"
)

type CreditQueries interface {
	ListUserCredits(ctx context.Context, userID uuid.UUID, viewer Viewer) ([]*CreditView, error)
}

type CreditReadStore interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*CreditView, error)
}

type creditQueryImpl struct {
	store CreditReadStore
}

func NewCreditQueries(store CreditReadStore) CreditQueries {
	return &creditQueryImpl{store: store}
}

func (q *creditQueryImpl) ListUserCredits(ctx context.Context, userID uuid.UUID, viewer Viewer) ([]*CreditView, error) {
	if !viewer.canSee(userID) {
		return nil, ErrForbidden
	}
	return q.store.FindByUserID(ctx, userID)
}
