//go:build unit || e2e

package builder

import (
	"time"

	dombooking "studio-booking/internal/domain/booking"
	"studio-booking/internal/usecase/queries"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	SessionID   uuid.UUID
	CreditID    uuid.UUID
	ScheduledAt time.Time
	Cutoff      time.Duration
	Now         time.Time
	Status      dombooking.Status
}

func NewBookingBuilder() *BookingBuilder {
	scheduled := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		SessionID:   uuid.New(),
		CreditID:    uuid.New(),
		ScheduledAt: scheduled,
		Cutoff:      12 * time.Hour,
		Now:         scheduled.Add(-48 * time.Hour),
		Status:      dombooking.StatusConfirmed,
	}
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	return dombooking.NewBooking(b.UserID, b.SessionID, b.CreditID, b.ScheduledAt, b.Cutoff, b.Now)
}

func (b *BookingBuilder) BuildSnapshot() *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:                   b.ID,
		UserID:               b.UserID,
		SessionID:            b.SessionID,
		CreditID:             b.CreditID,
		Status:               b.Status,
		CancellationDeadline: b.ScheduledAt.Add(-b.Cutoff),
		CreatedAt:            b.Now,
		UpdatedAt:            b.Now,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	return &queries.BookingView{
		ID:                   b.ID,
		UserID:               b.UserID,
		SessionID:            b.SessionID,
		ClassTypeName:        "Reformer Flow",
		ClassTypeGroup:       "REFORMER",
		ScheduledAt:          b.ScheduledAt,
		CreditID:             b.CreditID,
		Status:               b.Status.String(),
		CancellationDeadline: b.ScheduledAt.Add(-b.Cutoff),
		CreatedAt:            b.Now,
		UpdatedAt:            b.Now,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	return &queries.BookingListItem{
		ID:            b.ID,
		SessionID:     b.SessionID,
		ClassTypeName: "Reformer Flow",
		ScheduledAt:   b.ScheduledAt,
		Status:        b.Status.String(),
		CreatedAt:     b.Now,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithUserID(id uuid.UUID) *BookingBuilder {
	b.UserID = id
	return b
}

func (b *BookingBuilder) WithScheduledAt(t time.Time) *BookingBuilder {
	b.ScheduledAt = t
	return b
}

func (b *BookingBuilder) WithCutoff(d time.Duration) *BookingBuilder {
	b.Cutoff = d
	return b
}

func (b *BookingBuilder) WithNow(t time.Time) *BookingBuilder {
	b.Now = t
	return b
}

func (b *BookingBuilder) AsCancelled() *BookingBuilder {
	b.Status = dombooking.StatusCancelled
	return b
}
