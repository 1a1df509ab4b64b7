package commands

import (
	"context"
	"time"

	"studio-booking/internal/domain/credit"
	"studio-booking/internal/infra"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPackageNotFound   = errs.New("package not found")
	ErrInvalidGrant      = errs.New("invalid credit grant")
	ErrInvalidAdjustment = errs.New("adjustment would make balance negative")
)

type GrantResult struct {
	CreditID uuid.UUID
}

type CreditCommands interface {
	// GrantCredit issues a new credit from a package definition. Single-class
	// packages become fixed-expiry credits; everything else is monthly.
	GrantCredit(ctx context.Context, userID, packageID uuid.UUID, expiresAt, nextResetAt *time.Time, actor Actor) (*GrantResult, error)
	// AdjustCredit applies a signed delta to the user's soonest-expiring
	// shared credit of the group. Negative deltas never take the balance
	// below zero.
	AdjustCredit(ctx context.Context, userID uuid.UUID, group credit.ClassTypeGroup, delta int, actor Actor) error
}

// PackageReader resolves package definitions for grants.
type PackageReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*shared.PackageSnapshot, error)
}

// AdjustTargetFinder picks which credit an admin adjustment lands on.
type AdjustTargetFinder interface {
	FindAdjustTarget(ctx context.Context, userID uuid.UUID, group string) (uuid.UUID, error)
}

type creditUseCaseImpl struct {
	uow      shared.UnitOfWork
	packages PackageReader
	targets  AdjustTargetFinder
	clock    clock.Clock
}

func NewCreditCommands(
	u shared.UnitOfWork,
	packages PackageReader,
	targets AdjustTargetFinder,
	clk clock.Clock,
) CreditCommands {
	return &creditUseCaseImpl{
		uow:      u,
		packages: packages,
		targets:  targets,
		clock:    clk,
	}
}

func (uc *creditUseCaseImpl) GrantCredit(ctx context.Context, userID, packageID uuid.UUID, expiresAt, nextResetAt *time.Time, actor Actor) (*GrantResult, error) {
	if !actor.Role.IsAdmin() {
		return nil, ErrUnauthorized
	}

	pkg, err := uc.packages.FindByID(ctx, packageID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}

	kind := credit.KindMonthly
	if pkg.IsSingleClass {
		kind = credit.KindFixed
	}

	c, err := credit.NewCredit(
		userID, pkg.ID, pkg.Group, pkg.IsPersonal,
		pkg.ClassCount, kind, expiresAt, nextResetAt,
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidGrant)
	}

	var result GrantResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Credits().Create(ctx, tx.DB(), c)
		if err != nil {
			return err
		}
		result.CreditID = id
		return nil
	})
	if err != nil {
		return nil, mapTxErr(err)
	}
	return &result, nil
}

func (uc *creditUseCaseImpl) AdjustCredit(ctx context.Context, userID uuid.UUID, group credit.ClassTypeGroup, delta int, actor Actor) error {
	if !actor.Role.IsAdmin() {
		return ErrUnauthorized
	}
	if delta == 0 {
		return nil
	}
	if !group.IsValid() {
		return ErrInvalidGrant
	}

	targetID, err := uc.targets.FindAdjustTarget(ctx, userID, group.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return ErrNoCreditAvailable
		}
		return err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		ok, err := tx.Credits().Adjust(ctx, tx.DB(), targetID, delta)
		if err != nil {
			return err
		}
		if !ok {
			// The guarded update refused: remaining + delta would go
			// negative, or a concurrent spend got there first.
			return ErrInvalidAdjustment
		}
		return nil
	})
	return mapTxErr(err)
}
