package credit

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidGroup      = errors.New("invalid class type group")
	ErrInvalidKind       = errors.New("invalid credit kind")
	ErrInvalidClassCount = errors.New("class count must be positive")
	ErrMissingExpiry     = errors.New("fixed credit requires an expiry date")
	ErrMissingResetDate  = errors.New("monthly credit requires a reset date")
	ErrNotActive         = errors.New("credit is not active")
	ErrNoRemaining       = errors.New("credit has no classes remaining")
	ErrOutsideWindow     = errors.New("date outside credit validity window")
)

// Credit is a user's balance of reservable class-uses, scoped to a class-type
// group and personal/shared flag. Balances are only mutated by the booking
// coordinator (debit on reserve, refund on eligible cancellation) or by the
// rollover job; credits are never deleted, only status-flipped.
type Credit struct {
	id                       uuid.UUID
	userID                   uuid.UUID
	packageID                uuid.UUID
	group                    ClassTypeGroup
	isPersonal               bool
	classesRemaining         int
	classesUsedThisMonth     int
	rolloverClassesRemaining int
	kind                     Kind
	expiresAt                *time.Time
	nextResetAt              *time.Time
	status                   Status
	createdAt                time.Time
	updatedAt                time.Time
}

func NewCredit(
	userID, packageID uuid.UUID,
	group ClassTypeGroup,
	isPersonal bool,
	classCount int,
	kind Kind,
	expiresAt, nextResetAt *time.Time,
) (*Credit, error) {
	if !group.IsValid() {
		return nil, ErrInvalidGroup
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if classCount <= 0 {
		return nil, ErrInvalidClassCount
	}
	if kind == KindFixed && expiresAt == nil {
		return nil, ErrMissingExpiry
	}
	if kind == KindMonthly && nextResetAt == nil {
		return nil, ErrMissingResetDate
	}

	return &Credit{
		id:               uuid.New(),
		userID:           userID,
		packageID:        packageID,
		group:            group,
		isPersonal:       isPersonal,
		classesRemaining: classCount,
		kind:             kind,
		expiresAt:        expiresAt,
		nextResetAt:      nextResetAt,
		status:           StatusActive,
	}, nil
}

func ReconstructCredit(
	id, userID, packageID uuid.UUID,
	group ClassTypeGroup,
	isPersonal bool,
	classesRemaining, classesUsedThisMonth, rolloverClassesRemaining int,
	kind Kind,
	expiresAt, nextResetAt *time.Time,
	status Status,
	createdAt, updatedAt time.Time,
) *Credit {
	return &Credit{
		id:                       id,
		userID:                   userID,
		packageID:                packageID,
		group:                    group,
		isPersonal:               isPersonal,
		classesRemaining:         classesRemaining,
		classesUsedThisMonth:     classesUsedThisMonth,
		rolloverClassesRemaining: rolloverClassesRemaining,
		kind:                     kind,
		expiresAt:                expiresAt,
		nextResetAt:              nextResetAt,
		status:                   status,
		createdAt:                createdAt,
		updatedAt:                updatedAt,
	}
}

// CoversDate reports whether the session date falls inside the credit's
// validity window. Fixed credits cover everything up to and including their
// expiry; monthly credits only cover the calendar month of the reset anchor.
func (c *Credit) CoversDate(date time.Time) bool {
	switch c.kind {
	case KindFixed:
		return c.expiresAt != nil && !date.After(*c.expiresAt)
	case KindMonthly:
		if c.nextResetAt == nil {
			return false
		}
		ry, rm, _ := c.nextResetAt.Date()
		dy, dm, _ := date.Date()
		return ry == dy && rm == dm
	default:
		return false
	}
}

// EligibleFor is the full eligibility rule for paying for a booking of
// group/personal on the given date. The distinct ErrOutsideWindow lets the
// caller tell "no credit at all" apart from "credit exists but wrong month".
func (c *Credit) EligibleFor(group ClassTypeGroup, isPersonal bool, date time.Time) error {
	if c.group != group || c.isPersonal != isPersonal {
		return ErrInvalidGroup
	}
	if c.status != StatusActive {
		return ErrNotActive
	}
	if !c.HasRemaining() {
		return ErrNoRemaining
	}
	if !c.CoversDate(date) {
		return ErrOutsideWindow
	}
	return nil
}

func (c *Credit) HasRemaining() bool {
	return c.classesRemaining > 0
}

func (c *Credit) ID() uuid.UUID                 { return c.id }
func (c *Credit) UserID() uuid.UUID             { return c.userID }
func (c *Credit) PackageID() uuid.UUID          { return c.packageID }
func (c *Credit) Group() ClassTypeGroup         { return c.group }
func (c *Credit) IsPersonal() bool              { return c.isPersonal }
func (c *Credit) ClassesRemaining() int         { return c.classesRemaining }
func (c *Credit) ClassesUsedThisMonth() int     { return c.classesUsedThisMonth }
func (c *Credit) RolloverClassesRemaining() int { return c.rolloverClassesRemaining }
func (c *Credit) Kind() Kind                    { return c.kind }
func (c *Credit) ExpiresAt() *time.Time         { return c.expiresAt }
func (c *Credit) NextResetAt() *time.Time       { return c.nextResetAt }
func (c *Credit) Status() Status                { return c.status }
func (c *Credit) CreatedAt() time.Time          { return c.createdAt }
func (c *Credit) UpdatedAt() time.Time          { return c.updatedAt }
