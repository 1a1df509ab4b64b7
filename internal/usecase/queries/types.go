package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type BookingView struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	SessionID            uuid.UUID  `json:"session_id"`
	ClassTypeName        string     `json:"class_type_name"`
	ClassTypeGroup       string     `json:"class_type_group"`
	ScheduledAt          time.Time  `json:"scheduled_at"`
	PersonalUserID       *uuid.UUID `json:"personal_user_id,omitempty"`
	CreditID             uuid.UUID  `json:"credit_id"`
	Status               string     `json:"status"`
	CancellationDeadline time.Time  `json:"cancellation_deadline"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type BookingListItem struct {
	ID            uuid.UUID `json:"id"`
	SessionID     uuid.UUID `json:"session_id"`
	ClassTypeName string    `json:"class_type_name"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type SessionAvailabilityView struct {
	SessionID   uuid.UUID `json:"session_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Capacity    int       `json:"capacity"`
	Confirmed   int       `json:"confirmed"`
	OpenSeats   int       `json:"open_seats"`
	Waiting     int       `json:"waiting"`
}

type CreditView struct {
	ID                   uuid.UUID  `json:"id"`
	PackageID            uuid.UUID  `json:"package_id"`
	ClassTypeGroup       string     `json:"class_type_group"`
	IsPersonal           bool       `json:"is_personal"`
	ClassesRemaining     int        `json:"classes_remaining"`
	ClassesUsedThisMonth int        `json:"classes_used_this_month"`
	Kind                 string     `json:"kind"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	NextResetAt          *time.Time `json:"next_reset_at,omitempty"`
	Status               string     `json:"status"`
}

type WaitlistEntryView struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Position int       `json:"position"`
	Status   string    `json:"status"`
	Attempts int       `json:"attempts"`
	JoinedAt time.Time `json:"joined_at"`
}
