package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionInPast     = errors.New("session already started")
	ErrAlreadyCancelled  = errors.New("booking is already cancelled")
	ErrCutoffPassed      = errors.New("cancellation cutoff has passed")
	ErrInvalidCutoff     = errors.New("cutoff must be positive")
	ErrMissingCredit     = errors.New("booking requires a paying credit")
)

// Booking is one confirmed seat in a session, paid for by exactly one credit.
// The cancellation deadline is fixed at creation time from the session start
// and the cutoff policy in force; it is never recomputed afterwards, so policy
// changes do not retroactively alter issued bookings.
type Booking struct {
	id                   uuid.UUID
	userID               uuid.UUID
	sessionID            uuid.UUID
	creditID             uuid.UUID
	status               Status
	cancellationDeadline time.Time
	createdAt            time.Time
	updatedAt            time.Time
}

func NewBooking(
	userID, sessionID, creditID uuid.UUID,
	scheduledAt time.Time,
	cutoff time.Duration,
	now time.Time,
) (*Booking, error) {
	if creditID == uuid.Nil {
		return nil, ErrMissingCredit
	}
	if cutoff <= 0 {
		return nil, ErrInvalidCutoff
	}
	if !scheduledAt.After(now) {
		return nil, ErrSessionInPast
	}

	return &Booking{
		id:                   uuid.New(),
		userID:               userID,
		sessionID:            sessionID,
		creditID:             creditID,
		status:               StatusConfirmed,
		cancellationDeadline: scheduledAt.Add(-cutoff),
	}, nil
}

func ReconstructBooking(
	id, userID, sessionID, creditID uuid.UUID,
	status Status,
	cancellationDeadline time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:                   id,
		userID:               userID,
		sessionID:            sessionID,
		creditID:             creditID,
		status:               status,
		cancellationDeadline: cancellationDeadline,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// CancellableAt is binary: before the stored deadline a cancellation refunds,
// after it the request is rejected outright. There is no forfeiture path.
func (b *Booking) CancellableAt(now time.Time) error {
	if b.status != StatusConfirmed {
		return ErrAlreadyCancelled
	}
	if now.After(b.cancellationDeadline) {
		return ErrCutoffPassed
	}
	return nil
}

func (b *Booking) IsConfirmed() bool {
	return b.status == StatusConfirmed
}

func (b *Booking) OwnedBy(userID uuid.UUID) bool {
	return b.userID == userID
}

func (b *Booking) ID() uuid.UUID                   { return b.id }
func (b *Booking) UserID() uuid.UUID               { return b.userID }
func (b *Booking) SessionID() uuid.UUID            { return b.sessionID }
func (b *Booking) CreditID() uuid.UUID             { return b.creditID }
func (b *Booking) Status() Status                  { return b.status }
func (b *Booking) CancellationDeadline() time.Time { return b.cancellationDeadline }
func (b *Booking) CreatedAt() time.Time            { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time            { return b.updatedAt }
