//go:build unit || e2e

package builder

import (
	"time"

	domcredit "studio-booking/internal/domain/credit"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreditBuilder struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	PackageID        uuid.UUID
	Group            domcredit.ClassTypeGroup
	IsPersonal       bool
	ClassesRemaining int
	Kind             domcredit.Kind
	ExpiresAt        *time.Time
	NextResetAt      *time.Time
	Status           domcredit.Status
}

func NewCreditBuilder() *CreditBuilder {
	reset := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return &CreditBuilder{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		PackageID:        uuid.New(),
		Group:            domcredit.GroupReformer,
		IsPersonal:       false,
		ClassesRemaining: 8,
		Kind:             domcredit.KindMonthly,
		NextResetAt:      &reset,
		Status:           domcredit.StatusActive,
	}
}

func (b *CreditBuilder) BuildDomain() (*domcredit.Credit, error) {
	return domcredit.NewCredit(
		b.UserID, b.PackageID, b.Group, b.IsPersonal,
		b.ClassesRemaining, b.Kind, b.ExpiresAt, b.NextResetAt,
	)
}

func (b *CreditBuilder) BuildReconstructed() *domcredit.Credit {
	now := time.Now()
	return domcredit.ReconstructCredit(
		b.ID, b.UserID, b.PackageID, b.Group, b.IsPersonal,
		b.ClassesRemaining, 0, 0, b.Kind, b.ExpiresAt, b.NextResetAt,
		b.Status, now, now,
	)
}

func (b *CreditBuilder) BuildSnapshot() *shared.CreditSnapshot {
	return &shared.CreditSnapshot{
		ID:               b.ID,
		UserID:           b.UserID,
		PackageID:        b.PackageID,
		Group:            b.Group,
		IsPersonal:       b.IsPersonal,
		ClassesRemaining: b.ClassesRemaining,
		Kind:             b.Kind,
		ExpiresAt:        b.ExpiresAt,
		NextResetAt:      b.NextResetAt,
		Status:           b.Status,
	}
}

// Fluent builder methods
func (b *CreditBuilder) WithUserID(id uuid.UUID) *CreditBuilder {
	b.UserID = id
	return b
}

func (b *CreditBuilder) WithGroup(g domcredit.ClassTypeGroup) *CreditBuilder {
	b.Group = g
	return b
}

func (b *CreditBuilder) WithPersonal(personal bool) *CreditBuilder {
	b.IsPersonal = personal
	return b
}

func (b *CreditBuilder) WithRemaining(n int) *CreditBuilder {
	b.ClassesRemaining = n
	return b
}

func (b *CreditBuilder) WithStatus(s domcredit.Status) *CreditBuilder {
	b.Status = s
	return b
}

func (b *CreditBuilder) AsFixed(expiresAt time.Time) *CreditBuilder {
	b.Kind = domcredit.KindFixed
	b.ExpiresAt = &expiresAt
	b.NextResetAt = nil
	return b
}

func (b *CreditBuilder) AsMonthly(nextResetAt time.Time) *CreditBuilder {
	b.Kind = domcredit.KindMonthly
	b.NextResetAt = &nextResetAt
	b.ExpiresAt = nil
	return b
}
