package queries

import (
	"context"

	"studio-booking/internal/infra"

	"github.com/google/uuid"
)

type BookingQueries interface {
	GetBooking(ctx context.Context, id uuid.UUID, viewer Viewer) (*BookingView, error)
	ListUserBookings(ctx context.Context, userID uuid.UUID, viewer Viewer) ([]*BookingListItem, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*BookingListItem, error)
}

type bookingQueryImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueryImpl{store: store}
}

func (q *bookingQueryImpl) GetBooking(ctx context.Context, id uuid.UUID, viewer Viewer) (*BookingView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// Not-found rather than forbidden, so probing ids leaks nothing.
	if !viewer.canSee(view.UserID) {
		return nil, ErrNotFound
	}
	return view, nil
}

func (q *bookingQueryImpl) ListUserBookings(ctx context.Context, userID uuid.UUID, viewer Viewer) ([]*BookingListItem, error) {
	if !viewer.canSee(userID) {
		return nil, ErrForbidden
	}
	return q.store.FindByUserID(ctx, userID)
}
