package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"studio-booking/internal/domain/identity"
	domsession "studio-booking/internal/domain/session"
	"studio-booking/internal/domain/waitlist"
	"studio-booking/internal/infra"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrDuplicateWaitlistEntry = errs.New("user already on waitlist")
	ErrWaitlistEntryNotFound  = errs.New("waitlist entry not found")
	ErrWaitlistOnPersonal     = errs.New("personal sessions have no waitlist")
)

type JoinResult struct {
	EntryID uuid.UUID
}

type WaitlistCommands interface {
	Join(ctx context.Context, userID, sessionID uuid.UUID, actor Actor) (*JoinResult, error)
	Leave(ctx context.Context, userID, sessionID uuid.UUID, actor Actor) error
	// PromoteNext walks the FIFO queue of a session that just freed a seat
	// and reserves on behalf of the first candidate that can actually pay.
	PromoteNext(ctx context.Context, sessionID uuid.UUID)
}

type PromotionPolicy struct {
	MaxAttempts   int
	MaxCandidates int
}

type waitlistUseCaseImpl struct {
	uow      shared.UnitOfWork
	bookings BookingCommands
	policy   PromotionPolicy
	clock    clock.Clock
}

func NewWaitlistCommands(
	u shared.UnitOfWork,
	bookings BookingCommands,
	policy PromotionPolicy,
	clk clock.Clock,
) WaitlistCommands {
	return &waitlistUseCaseImpl{
		uow:      u,
		bookings: bookings,
		policy:   policy,
		clock:    clk,
	}
}

// OnSeatFreed satisfies SeatFreedHandler so cancellations feed the queue.
func (uc *waitlistUseCaseImpl) OnSeatFreed(ctx context.Context, sessionID uuid.UUID) {
	uc.PromoteNext(ctx, sessionID)
}

func (uc *waitlistUseCaseImpl) Join(ctx context.Context, userID, sessionID uuid.UUID, actor Actor) (*JoinResult, error) {
	if userID != actor.ID && !actor.Role.IsAdmin() {
		return nil, ErrUnauthorized
	}

	var result JoinResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().SessionByID(ctx, sessionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		sess, err := domsession.ReconstructSession(
			snap.ID, snap.ClassTypeID, snap.Group, snap.ScheduledAt,
			snap.Capacity, snap.PersonalUserID, snap.CreatedAt, snap.UpdatedAt,
		)
		if err != nil {
			return err
		}
		// Callers who may not see a personal session get the same answer as
		// for a session that does not exist.
		if !sess.VisibleTo(actor.ID, actor.Role) {
			return ErrSessionNotFound
		}
		if sess.IsPersonal() {
			return ErrWaitlistOnPersonal
		}
		if !uc.clock.Now().Before(sess.ScheduledAt()) {
			return ErrSessionStarted
		}

		entry := waitlist.NewEntry(userID, sessionID, uc.clock.Now())
		id, err := tx.Waitlist().Create(ctx, tx.DB(), entry)
		if err != nil {
			// Partial unique index on waiting (user_id, session_id).
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateWaitlistEntry
			}
			return err
		}
		result.EntryID = id
		return nil
	})
	if err != nil {
		return nil, mapTxErr(err)
	}
	return &result, nil
}

func (uc *waitlistUseCaseImpl) Leave(ctx context.Context, userID, sessionID uuid.UUID, actor Actor) error {
	if userID != actor.ID && !actor.Role.IsAdmin() {
		return ErrUnauthorized
	}

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		cancelled, err := tx.Waitlist().CancelWaiting(ctx, tx.DB(), userID, sessionID)
		if err != nil {
			return err
		}
		if !cancelled {
			return ErrWaitlistEntryNotFound
		}
		return nil
	})
	return mapTxErr(err)
}

// PromoteNext is best-effort: it never surfaces an error to the cancel path
// that triggered it. Each candidate gets its own transactions so one user's
// credit trouble cannot roll back another's promotion.
func (uc *waitlistUseCaseImpl) PromoteNext(ctx context.Context, sessionID uuid.UUID) {
	var (
		cursorJoinedAt time.Time
		cursorID       uuid.UUID
	)

	for i := 0; i < uc.policy.MaxCandidates; i++ {
		entry, err := uc.claimNextCandidate(ctx, sessionID, cursorJoinedAt, cursorID)
		if err != nil {
			slog.Error("waitlist candidate lookup failed",
				"session_id", sessionID, "error", err.Error())
			return
		}
		if entry == nil {
			return // queue drained
		}
		cursorJoinedAt, cursorID = entry.JoinedAt, entry.ID

		_, err = uc.bookings.Reserve(ctx, entry.UserID, sessionID, Actor{
			ID:   entry.UserID,
			Role: identity.RoleMember,
		})
		switch {
		case err == nil:
			uc.finishEntry(ctx, entry.ID, waitlist.StatusPromoted)
			return

		case errors.Is(err, ErrSessionFull):
			// Someone grabbed the seat directly; nothing left to hand out.
			return

		case errors.Is(err, ErrDuplicateBooking):
			// Already holds a seat, the entry is stale.
			uc.finishEntry(ctx, entry.ID, waitlist.StatusCancelled)

		case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionStarted):
			return

		case errors.Is(err, ErrNoCreditAvailable),
			errors.Is(err, ErrCreditWrongMonth),
			errors.Is(err, ErrCreditDepleted):
			uc.recordFailedAttempt(ctx, entry)

		default:
			slog.Error("waitlist promotion failed",
				"session_id", sessionID, "entry_id", entry.ID, "error", err.Error())
			return
		}
	}
}

// claimNextCandidate locks the first waiting entry after the cursor. The
// SKIP LOCKED read means two concurrent promotion passes pick different
// entries instead of fighting over one.
func (uc *waitlistUseCaseImpl) claimNextCandidate(ctx context.Context, sessionID uuid.UUID, afterJoinedAt time.Time, afterID uuid.UUID) (*shared.WaitlistEntrySnapshot, error) {
	var entry *shared.WaitlistEntrySnapshot
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Waitlist().NextWaiting(ctx, tx.DB(), sessionID, afterJoinedAt, afterID)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, mapTxErr(err)
	}
	return entry, nil
}

func (uc *waitlistUseCaseImpl) recordFailedAttempt(ctx context.Context, snap *shared.WaitlistEntrySnapshot) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		entry := waitlist.ReconstructEntry(
			snap.ID, snap.UserID, snap.SessionID,
			snap.Status, snap.Attempts, snap.JoinedAt, snap.JoinedAt,
		)
		if entry.ExhaustedAfter(uc.policy.MaxAttempts) {
			return tx.Waitlist().UpdateStatus(ctx, tx.DB(), snap.ID, waitlist.StatusExpired)
		}
		return tx.Waitlist().IncrementAttempts(ctx, tx.DB(), snap.ID)
	})
	if err != nil {
		slog.Error("waitlist attempt bookkeeping failed",
			"entry_id", snap.ID, "error", err.Error())
	}
}

func (uc *waitlistUseCaseImpl) finishEntry(ctx context.Context, entryID uuid.UUID, status waitlist.Status) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Waitlist().UpdateStatus(ctx, tx.DB(), entryID, status)
	})
	if err != nil {
		slog.Error("waitlist status update failed",
			"entry_id", entryID, "status", status.String(), "error", err.Error())
	}
}
