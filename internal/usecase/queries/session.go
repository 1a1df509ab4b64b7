package queries

import (
	"context"

	"studio-booking/internal/infra"

	"github.com/google/uuid"
)

type SessionQueries interface {
	// GetAvailability returns the live seat picture of a session. Personal
	// sessions answer not-found to everyone but their bound user and admins.
	GetAvailability(ctx context.Context, sessionID uuid.UUID, viewer Viewer) (*SessionAvailabilityView, error)
}

type SessionReadStore interface {
	Availability(ctx context.Context, id uuid.UUID) (*SessionAvailabilityView, error)
	PersonalOwner(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
}

type sessionQueryImpl struct {
	store SessionReadStore
}

func NewSessionQueries(store SessionReadStore) SessionQueries {
	return &sessionQueryImpl{store: store}
}

func (q *sessionQueryImpl) GetAvailability(ctx context.Context, sessionID uuid.UUID, viewer Viewer) (*SessionAvailabilityView, error) {
	owner, err := q.store.PersonalOwner(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if owner != nil && !viewer.canSee(*owner) {
		return nil, ErrNotFound
	}

	view, err := q.store.Availability(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return view, nil
}
