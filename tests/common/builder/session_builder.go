//go:build unit || e2e

package builder

import (
	"time"

	domcredit "studio-booking/internal/domain/credit"
	domsession "studio-booking/internal/domain/session"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type SessionBuilder struct {
	ID             uuid.UUID
	ClassTypeID    uuid.UUID
	Group          domcredit.ClassTypeGroup
	ScheduledAt    time.Time
	Capacity       int
	PersonalUserID *uuid.UUID
	PersonalType   bool
}

func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		ID:          uuid.New(),
		ClassTypeID: uuid.New(),
		Group:       domcredit.GroupReformer,
		ScheduledAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		Capacity:    6,
	}
}

func (b *SessionBuilder) BuildDomain() (*domsession.Session, error) {
	now := time.Now()
	return domsession.ReconstructSession(
		b.ID, b.ClassTypeID, b.Group, b.ScheduledAt,
		b.Capacity, b.PersonalUserID, now, now,
	)
}

func (b *SessionBuilder) BuildSnapshot() *shared.SessionSnapshot {
	now := time.Now()
	return &shared.SessionSnapshot{
		ID:             b.ID,
		ClassTypeID:    b.ClassTypeID,
		Group:          b.Group,
		PersonalType:   b.PersonalType,
		ScheduledAt:    b.ScheduledAt,
		Capacity:       b.Capacity,
		PersonalUserID: b.PersonalUserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Fluent builder methods
func (b *SessionBuilder) WithGroup(g domcredit.ClassTypeGroup) *SessionBuilder {
	b.Group = g
	return b
}

func (b *SessionBuilder) WithScheduledAt(t time.Time) *SessionBuilder {
	b.ScheduledAt = t
	return b
}

func (b *SessionBuilder) WithCapacity(n int) *SessionBuilder {
	b.Capacity = n
	return b
}

func (b *SessionBuilder) AsPersonal(userID uuid.UUID) *SessionBuilder {
	b.PersonalUserID = &userID
	b.PersonalType = true
	return b
}
