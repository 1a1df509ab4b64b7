package waitlist

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPromoted  Status = "promoted"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

// Entry is one user's place in a session's FIFO queue. Ordering is by
// joinedAt ascending with the id as tiebreaker; at most one waiting entry may
// exist per (user, session).
type Entry struct {
	id        uuid.UUID
	userID    uuid.UUID
	sessionID uuid.UUID
	status    Status
	attempts  int
	joinedAt  time.Time
	updatedAt time.Time
}

func NewEntry(userID, sessionID uuid.UUID, now time.Time) *Entry {
	return &Entry{
		id:        uuid.New(),
		userID:    userID,
		sessionID: sessionID,
		status:    StatusWaiting,
		joinedAt:  now,
	}
}

func ReconstructEntry(
	id, userID, sessionID uuid.UUID,
	status Status,
	attempts int,
	joinedAt, updatedAt time.Time,
) *Entry {
	return &Entry{
		id:        id,
		userID:    userID,
		sessionID: sessionID,
		status:    status,
		attempts:  attempts,
		joinedAt:  joinedAt,
		updatedAt: updatedAt,
	}
}

// ExhaustedAfter reports whether one more failed promotion attempt would
// exceed the bound, meaning the entry should be expired and the next
// candidate tried instead.
func (e *Entry) ExhaustedAfter(maxAttempts int) bool {
	return e.attempts+1 >= maxAttempts
}

func (e *Entry) ID() uuid.UUID        { return e.id }
func (e *Entry) UserID() uuid.UUID    { return e.userID }
func (e *Entry) SessionID() uuid.UUID { return e.sessionID }
func (e *Entry) Status() Status       { return e.status }
func (e *Entry) Attempts() int        { return e.attempts }
func (e *Entry) JoinedAt() time.Time  { return e.joinedAt }
func (e *Entry) UpdatedAt() time.Time { return e.updatedAt }
