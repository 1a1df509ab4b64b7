//go:build unit

package booking_test

import (
	"testing"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBooking(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewBookingBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, booking.StatusConfirmed, actual.Status())
		assert.True(t, actual.IsConfirmed())
	})

	t.Run("deadline is session start minus cutoff", func(t *testing.T) {
		scheduled := time.Date(2026, 11, 3, 18, 0, 0, 0, time.UTC)
		b, err := builder.NewBookingBuilder().
			WithScheduledAt(scheduled).
			WithCutoff(12 * time.Hour).
			WithNow(scheduled.Add(-72 * time.Hour)).
			BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, scheduled.Add(-12*time.Hour), b.CancellationDeadline())
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*builder.BookingBuilder)
			errIs  error
		}{
			{
				name:   "session already started",
				mutate: func(b *builder.BookingBuilder) { b.WithNow(b.ScheduledAt) },
				errIs:  booking.ErrSessionInPast,
			},
			{
				name:   "session in the past",
				mutate: func(b *builder.BookingBuilder) { b.WithNow(b.ScheduledAt.Add(time.Hour)) },
				errIs:  booking.ErrSessionInPast,
			},
			{
				name:   "zero cutoff",
				mutate: func(b *builder.BookingBuilder) { b.WithCutoff(0) },
				errIs:  booking.ErrInvalidCutoff,
			},
			{
				name:   "missing credit",
				mutate: func(b *builder.BookingBuilder) { b.CreditID = uuid.Nil },
				errIs:  booking.ErrMissingCredit,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := builder.NewBookingBuilder()
				tc.mutate(b)
				_, err := b.BuildDomain()
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestCancellableAt(t *testing.T) {
	scheduled := time.Date(2026, 11, 3, 18, 0, 0, 0, time.UTC)
	deadline := scheduled.Add(-12 * time.Hour)

	newBooking := func(status booking.Status) *booking.Booking {
		return booking.ReconstructBooking(
			uuid.New(), uuid.New(), uuid.New(), uuid.New(),
			status, deadline, time.Now(), time.Now(),
		)
	}

	t.Run("well before the deadline", func(t *testing.T) {
		b := newBooking(booking.StatusConfirmed)
		assert.NoError(t, b.CancellableAt(deadline.Add(-24*time.Hour)))
	})

	t.Run("exactly at the deadline", func(t *testing.T) {
		b := newBooking(booking.StatusConfirmed)
		assert.NoError(t, b.CancellableAt(deadline))
	})

	t.Run("after the deadline", func(t *testing.T) {
		b := newBooking(booking.StatusConfirmed)
		assert.ErrorIs(t, b.CancellableAt(deadline.Add(time.Minute)), booking.ErrCutoffPassed)
	})

	t.Run("already cancelled", func(t *testing.T) {
		b := newBooking(booking.StatusCancelled)
		assert.ErrorIs(t, b.CancellableAt(deadline.Add(-24*time.Hour)), booking.ErrAlreadyCancelled)
	})
}

func TestOwnedBy(t *testing.T) {
	owner := uuid.New()
	b := booking.ReconstructBooking(
		uuid.New(), owner, uuid.New(), uuid.New(),
		booking.StatusConfirmed, time.Now().Add(time.Hour), time.Now(), time.Now(),
	)

	assert.True(t, b.OwnedBy(owner))
	assert.False(t, b.OwnedBy(uuid.New()))
}
