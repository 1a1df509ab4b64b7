package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	dombooking "studio-booking/internal/domain/booking"
	"studio-booking/internal/domain/credit"
	"studio-booking/internal/domain/identity"
	domsession "studio-booking/internal/domain/session"
	"studio-booking/internal/infra"
	"studio-booking/internal/infra/uow"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/errs"
	"studio-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound     = errs.New("session not found")
	ErrBookingNotFound     = errs.New("booking not found")
	ErrDuplicateBooking    = errs.New("duplicate booking")
	ErrSessionFull         = errs.New("session full")
	ErrSessionStarted      = errs.New("session already started")
	ErrNoCreditAvailable   = errs.New("no credit available")
	ErrCreditWrongMonth    = errs.New("credit exists but not valid for this date")
	ErrCreditDepleted      = errs.New("credit already depleted")
	ErrUnauthorized        = errs.New("unauthorized")
	ErrCutoffPassed        = errs.New("cancellation cutoff passed")
	ErrBookingNotConfirmed = errs.New("booking is not confirmed")
	ErrConflict            = errs.New("operation aborted by concurrent requests")
)

// Actor is the already-authenticated caller: a user id plus trust level.
type Actor struct {
	ID   uuid.UUID
	Role identity.Role
}

type ReserveResult struct {
	BookingID uuid.UUID
}

type SweepResult struct {
	SessionsCancelled int
	BookingsRefunded  int
}

// SeatFreedHandler is invoked after a cancellation commits so the waitlist
// can hand the freed seat to the next candidate. It runs outside the
// cancellation transaction; its failure never rolls a cancellation back.
type SeatFreedHandler interface {
	OnSeatFreed(ctx context.Context, sessionID uuid.UUID)
}

// SeatFreedFunc adapts a plain function into a SeatFreedHandler.
type SeatFreedFunc func(ctx context.Context, sessionID uuid.UUID)

func (f SeatFreedFunc) OnSeatFreed(ctx context.Context, sessionID uuid.UUID) {
	f(ctx, sessionID)
}

type BookingCommands interface {
	Reserve(ctx context.Context, userID, sessionID uuid.UUID, actor Actor) (*ReserveResult, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, actor Actor) error
	// CancelUnderbookedSessions is the out-of-band operational sweep: it
	// cancels and refunds every session below minAttendance starting within
	// the window. Idempotent per session.
	CancelUnderbookedSessions(ctx context.Context, within time.Duration) (*SweepResult, error)
	RegisterSeatFreedHandler(h SeatFreedHandler)
}

// UnderbookedSessionFinder is the read-side port the sweep scans with.
type UnderbookedSessionFinder interface {
	FindUnderbooked(ctx context.Context, from, until time.Time, minAttendance int) ([]uuid.UUID, error)
}

type BookingPolicy struct {
	CancellationCutoff time.Duration
	MinAttendance      int
}

type bookingUseCaseImpl struct {
	uow       shared.UnitOfWork
	sessions  UnderbookedSessionFinder
	policy    BookingPolicy
	clock     clock.Clock
	seatFreed SeatFreedHandler
}

func NewBookingCommands(
	u shared.UnitOfWork,
	sessions UnderbookedSessionFinder,
	policy BookingPolicy,
	clk clock.Clock,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:      u,
		sessions: sessions,
		policy:   policy,
		clock:    clk,
	}
}

func (uc *bookingUseCaseImpl) RegisterSeatFreedHandler(h SeatFreedHandler) {
	uc.seatFreed = h
}

// Reserve creates a confirmed booking in a single transaction: session lock,
// duplicate check, capacity gate, credit selection and debit, booking insert.
// Any failure aborts the whole transaction; no seat-without-credit or
// credit-without-booking state is ever observable.
func (uc *bookingUseCaseImpl) Reserve(ctx context.Context, userID, sessionID uuid.UUID, actor Actor) (*ReserveResult, error) {
	var result ReserveResult

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sess, snap, err := uc.lockSessionFor(ctx, tx, sessionID, userID, actor)
		if err != nil {
			return err
		}

		exists, err := tx.Bookings().ExistsConfirmed(ctx, tx.DB(), userID, sessionID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateBooking
		}

		if err := uc.claimSeat(ctx, tx, sess); err != nil {
			return err
		}

		chosen, err := uc.debitEligibleCredit(ctx, tx, userID, sess, snap.PersonalType)
		if err != nil {
			return err
		}

		b, err := dombooking.NewBooking(
			userID, sessionID, chosen,
			sess.ScheduledAt(), uc.policy.CancellationCutoff, uc.clock.Now(),
		)
		if err != nil {
			if errors.Is(err, dombooking.ErrSessionInPast) {
				return ErrSessionStarted
			}
			return err
		}

		id, err := tx.Bookings().Create(ctx, tx.DB(), b)
		if err != nil {
			// Partial unique index on (user_id, session_id) confirmed rows is
			// the backstop for the duplicate check above.
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrDuplicateBooking
			}
			return err
		}
		result.BookingID = id

		return uc.enqueueEvent(ctx, tx, "booking_confirmed", userID, sessionID)
	})
	if err != nil {
		return nil, mapTxErr(err)
	}
	return &result, nil
}

// Cancel flips the booking, refunds the credit that paid for it, and for
// personal sessions removes the session itself, all in one transaction. The
// waitlist hand-off happens after commit.
func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, bookingID uuid.UUID, actor Actor) error {
	var (
		freedSessionID uuid.UUID
		sessionDeleted bool
	)

	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		b := dombooking.ReconstructBooking(
			snap.ID, snap.UserID, snap.SessionID, snap.CreditID,
			snap.Status, snap.CancellationDeadline, snap.CreatedAt, snap.UpdatedAt,
		)
		if !b.OwnedBy(actor.ID) && !actor.Role.IsAdmin() {
			return ErrUnauthorized
		}

		// Same lock order as Reserve (session first, then credit) so the two
		// paths cannot deadlock each other.
		sess, err := tx.Sessions().LockByID(ctx, tx.DB(), snap.SessionID)
		if err != nil {
			return err
		}

		if err := b.CancellableAt(uc.clock.Now()); err != nil {
			switch {
			case errors.Is(err, dombooking.ErrAlreadyCancelled):
				return ErrBookingNotConfirmed
			case errors.Is(err, dombooking.ErrCutoffPassed):
				return ErrCutoffPassed
			default:
				return err
			}
		}

		flipped, err := tx.Bookings().CancelIfConfirmed(ctx, tx.DB(), bookingID)
		if err != nil {
			return err
		}
		if !flipped {
			// A concurrent cancel won the flip; it also owns the refund.
			return ErrBookingNotConfirmed
		}

		if err := tx.Credits().Refund(ctx, tx.DB(), snap.CreditID); err != nil {
			return err
		}

		if sess.PersonalUserID != nil {
			// A vacated personal slot has no reuse value: the session goes
			// with the booking, waitlist entries cascade with the session.
			if err := tx.Sessions().Delete(ctx, tx.DB(), sess.ID); err != nil {
				return err
			}
			sessionDeleted = true
		}
		freedSessionID = snap.SessionID

		return uc.enqueueEvent(ctx, tx, "booking_cancelled", snap.UserID, snap.SessionID)
	})
	if err != nil {
		return mapTxErr(err)
	}

	if !sessionDeleted && uc.seatFreed != nil {
		uc.seatFreed.OnSeatFreed(ctx, freedSessionID)
	}
	return nil
}

func (uc *bookingUseCaseImpl) CancelUnderbookedSessions(ctx context.Context, within time.Duration) (*SweepResult, error) {
	now := uc.clock.Now()
	ids, err := uc.sessions.FindUnderbooked(ctx, now, now.Add(within), uc.policy.MinAttendance)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{}
	for _, sessionID := range ids {
		refunded, err := uc.cancelWholeSession(ctx, sessionID)
		if err != nil {
			slog.Error("underbooked sweep failed for session",
				"session_id", sessionID, "error", err.Error())
			continue
		}
		result.SessionsCancelled++
		result.BookingsRefunded += refunded
	}
	return result, nil
}

// cancelWholeSession refunds every booking still confirmed and flips it in
// the same pass, so running the sweep twice can never double-refund.
func (uc *bookingUseCaseImpl) cancelWholeSession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	refunded := 0
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		refunded = 0
		sess, err := tx.Sessions().LockByID(ctx, tx.DB(), sessionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil // already gone
			}
			return err
		}

		// Recheck under the lock; a late surge of reservations saves it.
		count, err := tx.Bookings().CountConfirmed(ctx, tx.DB(), sess.ID)
		if err != nil {
			return err
		}
		if count >= uc.policy.MinAttendance {
			return nil
		}

		bookings, err := tx.Bookings().ListConfirmedBySession(ctx, tx.DB(), sess.ID)
		if err != nil {
			return err
		}
		for _, b := range bookings {
			flipped, err := tx.Bookings().CancelIfConfirmed(ctx, tx.DB(), b.ID)
			if err != nil {
				return err
			}
			if !flipped {
				continue
			}
			if err := tx.Credits().Refund(ctx, tx.DB(), b.CreditID); err != nil {
				return err
			}
			if err := uc.enqueueEvent(ctx, tx, "session_cancelled", b.UserID, sess.ID); err != nil {
				return err
			}
			refunded++
		}
		return nil
	})
	if err != nil {
		return 0, mapTxErr(err)
	}
	return refunded, nil
}

// lockSessionFor locks the session row and applies the personal-session
// policy. Personal sessions answer not-found-shaped Unauthorized to anyone
// but the bound user or an admin.
func (uc *bookingUseCaseImpl) lockSessionFor(
	ctx context.Context,
	tx shared.Tx,
	sessionID, userID uuid.UUID,
	actor Actor,
) (*domsession.Session, *shared.SessionSnapshot, error) {
	snap, err := tx.Sessions().LockByID(ctx, tx.DB(), sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, err
	}

	sess, err := domsession.ReconstructSession(
		snap.ID, snap.ClassTypeID, snap.Group, snap.ScheduledAt,
		snap.Capacity, snap.PersonalUserID, snap.CreatedAt, snap.UpdatedAt,
	)
	if err != nil {
		return nil, nil, err
	}
	if !sess.ReservableBy(userID, actor.ID, actor.Role) {
		return nil, nil, ErrUnauthorized
	}
	return sess, snap, nil
}

// claimSeat is the capacity gate: the session row is already locked, so the
// live recount is stable until commit and two claims for the last seat
// cannot both pass.
func (uc *bookingUseCaseImpl) claimSeat(ctx context.Context, tx shared.Tx, sess *domsession.Session) error {
	count, err := tx.Bookings().CountConfirmed(ctx, tx.DB(), sess.ID())
	if err != nil {
		return err
	}
	if count >= sess.EffectiveCapacity() {
		return ErrSessionFull
	}
	return nil
}

// debitEligibleCredit is the credit ledger: spend the soonest-expiring
// eligible credit. Candidates a concurrent transaction drained between the
// read and the guarded debit are skipped in order; if every candidate is
// gone the whole reservation aborts.
func (uc *bookingUseCaseImpl) debitEligibleCredit(
	ctx context.Context,
	tx shared.Tx,
	userID uuid.UUID,
	sess *domsession.Session,
	personalType bool,
) (uuid.UUID, error) {
	isPersonal := personalType || sess.IsPersonal()

	candidates, err := tx.Credits().FindSpendable(ctx, tx.DB(), userID, sess.Group(), isPersonal)
	if err != nil {
		return uuid.Nil, err
	}
	if len(candidates) == 0 {
		return uuid.Nil, ErrNoCreditAvailable
	}

	covering := candidates[:0:0]
	wrongWindow := false
	for _, c := range candidates {
		ent := credit.ReconstructCredit(
			c.ID, c.UserID, c.PackageID, c.Group, c.IsPersonal,
			c.ClassesRemaining, 0, 0, c.Kind, c.ExpiresAt, c.NextResetAt,
			c.Status, time.Time{}, time.Time{},
		)
		switch eligErr := ent.EligibleFor(sess.Group(), isPersonal, sess.ScheduledAt()); {
		case eligErr == nil:
			covering = append(covering, c)
		case errors.Is(eligErr, credit.ErrOutsideWindow):
			wrongWindow = true
		}
	}
	if len(covering) == 0 {
		if wrongWindow {
			// Distinct from "no credit at all": the user owns a matching
			// credit, it just does not cover this date.
			return uuid.Nil, ErrCreditWrongMonth
		}
		return uuid.Nil, ErrNoCreditAvailable
	}

	for _, c := range covering {
		ok, err := tx.Credits().Debit(ctx, tx.DB(), c.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if ok {
			return c.ID, nil
		}
	}
	return uuid.Nil, ErrCreditDepleted
}

func (uc *bookingUseCaseImpl) enqueueEvent(ctx context.Context, tx shared.Tx, eventKind string, userID, sessionID uuid.UUID) error {
	payload, err := json.Marshal(map[string]any{
		"user_id":    userID,
		"session_id": sessionID,
		"event_kind": eventKind,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", eventKind, payload, uc.clock.Now())
}

// mapTxErr converts retry exhaustion into the caller-facing Conflict
// sentinel, distinct from every domain failure.
func mapTxErr(err error) error {
	if errors.Is(err, uow.ErrMaxRetriesExceeded) {
		return errs.Mark(err, ErrConflict)
	}
	return err
}
