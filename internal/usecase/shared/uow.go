package shared

import (
	"context"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/credit"
	"studio-booking/internal/domain/waitlist"
	"studio-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Sessions() SessionRepository
	Bookings() BookingRepository
	Credits() CreditRepository
	Waitlist() WaitlistRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	SessionByID(ctx context.Context, id uuid.UUID) (*SessionSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
}

// Minimal snapshots for command read operations

type SessionSnapshot struct {
	ID          uuid.UUID
	ClassTypeID uuid.UUID
	Group       credit.ClassTypeGroup
	// PersonalType is the class type's personal/shared flag, which picks the
	// credit pool the booking debits; PersonalUserID binds the session itself.
	PersonalType   bool
	ScheduledAt    time.Time
	Capacity       int
	PersonalUserID *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type BookingSnapshot struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	SessionID            uuid.UUID
	CreditID             uuid.UUID
	Status               booking.Status
	CancellationDeadline time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

type CreditSnapshot struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	PackageID        uuid.UUID
	Group            credit.ClassTypeGroup
	IsPersonal       bool
	ClassesRemaining int
	Kind             credit.Kind
	ExpiresAt        *time.Time
	NextResetAt      *time.Time
	Status           credit.Status
}

type PackageSnapshot struct {
	ID            uuid.UUID
	Group         credit.ClassTypeGroup
	ClassCount    int
	IsPersonal    bool
	IsSingleClass bool
}

type WaitlistEntrySnapshot struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	SessionID uuid.UUID
	Status    waitlist.Status
	Attempts  int
	JoinedAt  time.Time
}

// SessionRepository is the write side of the capacity gate: LockByID takes the
// session row lock that serializes competing seat claims.
type SessionRepository interface {
	LockByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*SessionSnapshot, error)
	Delete(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
}

type BookingRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	CountConfirmed(ctx context.Context, dbtx db.DBTX, sessionID uuid.UUID) (int, error)
	ExistsConfirmed(ctx context.Context, dbtx db.DBTX, userID, sessionID uuid.UUID) (bool, error)
	// CancelIfConfirmed flips confirmed→cancelled and reports whether this call
	// performed the flip; a false return is how double refunds are prevented.
	CancelIfConfirmed(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error)
	ListConfirmedBySession(ctx context.Context, dbtx db.DBTX, sessionID uuid.UUID) ([]*BookingSnapshot, error)
}

type CreditRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, c *credit.Credit) (uuid.UUID, error)
	// FindSpendable returns active matching credits with remaining balance,
	// soonest-expiring first; the date-window filter happens in the ledger.
	FindSpendable(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, group credit.ClassTypeGroup, isPersonal bool) ([]*CreditSnapshot, error)
	// Debit is guarded: it only decrements when classes_remaining > 0 and
	// reports whether a row changed, detecting lost-update races.
	Debit(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (bool, error)
	Refund(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	// Adjust applies a signed delta with the non-negativity guard in SQL.
	Adjust(ctx context.Context, dbtx db.DBTX, id uuid.UUID, delta int) (bool, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) (uuid.UUID, error)
	// NextWaiting locks and returns the earliest waiting entry after the given
	// keyset position (zero values for the head), FIFO by joined_at then id.
	NextWaiting(ctx context.Context, dbtx db.DBTX, sessionID uuid.UUID, afterJoinedAt time.Time, afterID uuid.UUID) (*WaitlistEntrySnapshot, error)
	UpdateStatus(ctx context.Context, dbtx db.DBTX, id uuid.UUID, status waitlist.Status) error
	IncrementAttempts(ctx context.Context, dbtx db.DBTX, id uuid.UUID) error
	CancelWaiting(ctx context.Context, dbtx db.DBTX, userID, sessionID uuid.UUID) (bool, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}
