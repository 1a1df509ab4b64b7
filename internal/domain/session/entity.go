package session

import (
	"errors"
	"time"

	"studio-booking/internal/domain/credit"
	"studio-booking/internal/domain/identity"

	"github.com/google/uuid"
)

var (
	ErrInvalidCapacity = errors.New("capacity must be at least 1")
	ErrNotVisible      = errors.New("session not visible to caller")
)

// Session is a scheduled class occurrence. A set personalUserID marks a
// personal (1:1) session: capacity is 1, only the bound user or an admin may
// see or reserve it, and cancelling its sole booking deletes the session.
type Session struct {
	id             uuid.UUID
	classTypeID    uuid.UUID
	group          credit.ClassTypeGroup
	scheduledAt    time.Time
	capacity       int
	personalUserID *uuid.UUID
	createdAt      time.Time
	updatedAt      time.Time
}

func ReconstructSession(
	id, classTypeID uuid.UUID,
	group credit.ClassTypeGroup,
	scheduledAt time.Time,
	capacity int,
	personalUserID *uuid.UUID,
	createdAt, updatedAt time.Time,
) (*Session, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Session{
		id:             id,
		classTypeID:    classTypeID,
		group:          group,
		scheduledAt:    scheduledAt,
		capacity:       capacity,
		personalUserID: personalUserID,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (s *Session) IsPersonal() bool {
	return s.personalUserID != nil
}

// EffectiveCapacity is what the capacity gate enforces. Personal sessions are
// capacity 1 regardless of the stored value.
func (s *Session) EffectiveCapacity() int {
	if s.IsPersonal() {
		return 1
	}
	return s.capacity
}

// VisibleTo enforces the privacy expectation of personal sessions: only the
// bound user or an admin may observe that the session exists at all.
func (s *Session) VisibleTo(userID uuid.UUID, role identity.Role) bool {
	if !s.IsPersonal() {
		return true
	}
	return role.IsAdmin() || *s.personalUserID == userID
}

// ReservableBy applies the same rule at reservation time. Admins may reserve
// a personal session on behalf of the bound user, never for themselves.
func (s *Session) ReservableBy(userID uuid.UUID, actorID uuid.UUID, actorRole identity.Role) bool {
	if !s.IsPersonal() {
		return userID == actorID || actorRole.IsAdmin()
	}
	if *s.personalUserID != userID {
		return false
	}
	return actorID == userID || actorRole.IsAdmin()
}

func (s *Session) ID() uuid.UUID          { return s.id }
func (s *Session) ClassTypeID() uuid.UUID { return s.classTypeID }

func (s *Session) Group() credit.ClassTypeGroup { return s.group }
func (s *Session) ScheduledAt() time.Time       { return s.scheduledAt }
func (s *Session) Capacity() int                { return s.capacity }
func (s *Session) PersonalUserID() *uuid.UUID   { return s.personalUserID }
func (s *Session) CreatedAt() time.Time         { return s.createdAt }
func (s *Session) UpdatedAt() time.Time         { return s.updatedAt }
