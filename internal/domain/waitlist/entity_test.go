//go:build unit

package waitlist_test

import (
	"testing"
	"time"

	"studio-booking/internal/domain/waitlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewEntry(t *testing.T) {
	now := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	e := waitlist.NewEntry(uuid.New(), uuid.New(), now)

	assert.NotEqual(t, uuid.Nil, e.ID())
	assert.Equal(t, waitlist.StatusWaiting, e.Status())
	assert.Equal(t, 0, e.Attempts())
	assert.Equal(t, now, e.JoinedAt())
}

func TestExhaustedAfter(t *testing.T) {
	reconstruct := func(attempts int) *waitlist.Entry {
		return waitlist.ReconstructEntry(
			uuid.New(), uuid.New(), uuid.New(),
			waitlist.StatusWaiting, attempts, time.Now(), time.Now(),
		)
	}

	cases := []struct {
		name      string
		attempts  int
		max       int
		exhausted bool
	}{
		{name: "fresh entry survives first failure", attempts: 0, max: 3, exhausted: false},
		{name: "second failure still within bound", attempts: 1, max: 3, exhausted: false},
		{name: "third failure exhausts the entry", attempts: 2, max: 3, exhausted: true},
		{name: "over the bound stays exhausted", attempts: 5, max: 3, exhausted: true},
		{name: "single-attempt policy exhausts immediately", attempts: 0, max: 1, exhausted: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exhausted, reconstruct(tc.attempts).ExhaustedAfter(tc.max))
		})
	}
}
