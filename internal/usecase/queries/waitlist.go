package queries

import (
	"context"

	"github.com/google/uuid"
)

type WaitlistQueries interface {
	// ListWaitlist returns the FIFO queue of a session. Admins see everyone;
	// members see only their own entries, with positions computed against
	// the whole queue.
	ListWaitlist(ctx context.Context, sessionID uuid.UUID, viewer Viewer) ([]*WaitlistEntryView, error)
}

type WaitlistReadStore interface {
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*WaitlistEntryView, error)
}

type waitlistQueryImpl struct {
	store WaitlistReadStore
}

func NewWaitlistQueries(store WaitlistReadStore) WaitlistQueries {
	return &waitlistQueryImpl{store: store}
}

func (q *waitlistQueryImpl) ListWaitlist(ctx context.Context, sessionID uuid.UUID, viewer Viewer) ([]*WaitlistEntryView, error) {
	entries, err := q.store.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if viewer.Role.IsAdmin() {
		return entries, nil
	}

	mine := make([]*WaitlistEntryView, 0, 1)
	for _, e := range entries {
		if e.UserID == viewer.ID {
			mine = append(mine, e)
		}
	}
	return mine, nil
}
