//go:build unit

package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakySender struct {
	failures int
	calls    int
}

func (s *flakySender) Send(_ context.Context, _ Message) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("provider unavailable")
	}
	return nil
}

func TestDeliver(t *testing.T) {
	t.Parallel()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		t.Parallel()

		sender := &flakySender{failures: 2}
		w := &Worker{sender: sender}

		err := w.deliver(context.Background(), Message{Kind: "email", Topic: "booking_confirmed"})

		require.NoError(t, err)
		assert.Equal(t, 3, sender.calls)
	})

	t.Run("gives up once retries are exhausted", func(t *testing.T) {
		t.Parallel()

		sender := &flakySender{failures: 10}
		w := &Worker{sender: sender}

		err := w.deliver(context.Background(), Message{Kind: "email", Topic: "booking_confirmed"})

		require.Error(t, err)
		assert.Equal(t, 3, sender.calls)
	})
}

func TestNextRunAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	newWorker := func(poll time.Duration) *Worker {
		return &Worker{
			cfg:   config.NotifyConfig{PollInterval: poll},
			clock: clock.NewMockClock(now),
		}
	}

	t.Run("delay grows with the attempt count", func(t *testing.T) {
		t.Parallel()

		w := newWorker(5 * time.Second)
		assert.Equal(t, now.Add(5*time.Second), w.nextRunAt(0))
		assert.Equal(t, now.Add(15*time.Second), w.nextRunAt(2))
	})

	t.Run("delay is capped at five minutes", func(t *testing.T) {
		t.Parallel()

		w := newWorker(time.Minute)
		assert.Equal(t, now.Add(5*time.Minute), w.nextRunAt(100))
	})
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	err := NewLogSender().Send(context.Background(), Message{
		Kind:    "email",
		Topic:   "booking_confirmed",
		Payload: []byte(`{"user_id":"x"}`),
	})
	require.NoError(t, err)
}
