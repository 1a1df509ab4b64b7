//go:build e2e

package waitlist_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"studio-booking/internal/handler/dto/request"
	"studio-booking/internal/handler/dto/response"
	"studio-booking/tests/common/authtest"
	"studio-booking/tests/common/dbtest"
	"studio-booking/tests/common/httptest"
	"studio-booking/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	waitlistURL        = "/api/waitlist"
	bookingsURL        = "/api/bookings"
	sessionWaitlistURL = "/api/sessions/%s/waitlist"
)

type WaitlistSuite struct {
	e2e.SharedSuite
}

func TestWaitlistSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(WaitlistSuite))
}

// seedFullSession creates a capacity-one session already taken by holder and
// returns the session id plus the holder's booking id.
func (s *WaitlistSuite) seedFullSession(t *testing.T, holderID uuid.UUID) (uuid.UUID, uuid.UUID) {
	classTypeID := dbtest.CreateClassType(t, s.DB, "Reformer Flow", "REFORMER", false)
	sessionID := dbtest.CreateSession(t, s.DB, classTypeID, time.Now().Add(72*time.Hour), 1)
	packageID := dbtest.CreatePackage(t, s.DB, "Reformer 5", "REFORMER", false, false, 5)
	dbtest.GrantFixedCredit(t, s.DB, holderID, packageID, "REFORMER", false, 5, time.Now().Add(30*24*time.Hour))

	var created response.ReserveResponse
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
		request.ReserveRequest{SessionID: sessionID}, authtest.MemberToken(t, s.Config, holderID))
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)

	return sessionID, created.BookingID
}

func (s *WaitlistSuite) grantCredit(t *testing.T, userID uuid.UUID) uuid.UUID {
	packageID := dbtest.CreatePackage(t, s.DB, "Reformer 5", "REFORMER", false, false, 5)
	return dbtest.GrantFixedCredit(t, s.DB, userID, packageID, "REFORMER", false, 5, time.Now().Add(30*24*time.Hour))
}

func (s *WaitlistSuite) TestJoin() {
	s.Run("Normal case: member joins the queue for a full session", func() {
		t := s.T()

		holderID := uuid.New()
		sessionID, _ := s.seedFullSession(t, holderID)

		waiterID := uuid.New()
		token := authtest.MemberToken(t, s.Config, waiterID)

		var joined response.JoinWaitlistResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, token)
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &joined)
		require.NotEqual(t, uuid.Nil, joined.EntryID)
		require.Equal(t, "waiting", dbtest.WaitlistEntryStatus(t, s.DB, joined.EntryID))
	})

	s.Run("Error case: joining twice conflicts", func() {
		t := s.T()

		sessionID, _ := s.seedFullSession(t, uuid.New())
		token := authtest.MemberToken(t, s.Config, uuid.New())

		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, token)
		require.Equal(t, http.StatusCreated, w1.Code)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, token)
		httptest.AssertErrorResponse(t, w2, http.StatusConflict, "")
	})

	s.Run("Error case: personal slots take no waitlist", func() {
		t := s.T()

		ownerID := uuid.New()
		classTypeID := dbtest.CreateClassType(t, s.DB, "Private Reformer", "REFORMER", true)
		sessionID := dbtest.CreatePersonalSession(t, s.DB, classTypeID, ownerID, time.Now().Add(72*time.Hour))

		ownerToken := authtest.MemberToken(t, s.Config, ownerID)
		ow := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, ownerToken)
		require.Equal(t, http.StatusUnprocessableEntity, ow.Code)
	})

	s.Run("Privacy: a personal slot looks like a missing session to other members", func() {
		t := s.T()

		ownerID := uuid.New()
		classTypeID := dbtest.CreateClassType(t, s.DB, "Private Reformer", "REFORMER", true)
		sessionID := dbtest.CreatePersonalSession(t, s.DB, classTypeID, ownerID, time.Now().Add(72*time.Hour))

		stranger := authtest.MemberToken(t, s.Config, uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, stranger)
		require.Equal(t, http.StatusNotFound, w.Code,
			"the join must not reveal that the personal session exists")
	})
}

func (s *WaitlistSuite) TestLeave() {
	s.Run("Normal case: leaving cancels the waiting entry", func() {
		t := s.T()

		sessionID, _ := s.seedFullSession(t, uuid.New())
		waiterID := uuid.New()
		token := authtest.MemberToken(t, s.Config, waiterID)

		var joined response.JoinWaitlistResponse
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, token)
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &joined)

		lw := httptest.PerformRequest(t, s.Router, http.MethodDelete, waitlistURL,
			request.LeaveWaitlistRequest{SessionID: sessionID}, token)
		require.Equal(t, http.StatusNoContent, lw.Code)
		require.Equal(t, "cancelled", dbtest.WaitlistEntryStatus(t, s.DB, joined.EntryID))
	})

	s.Run("Error case: leaving without a waiting entry is not found", func() {
		t := s.T()

		sessionID, _ := s.seedFullSession(t, uuid.New())
		token := authtest.MemberToken(t, s.Config, uuid.New())

		w := httptest.PerformRequest(t, s.Router, http.MethodDelete, waitlistURL,
			request.LeaveWaitlistRequest{SessionID: sessionID}, token)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func (s *WaitlistSuite) TestPromotion() {
	s.Run("Normal case: a freed seat books the first waiting member", func() {
		t := s.T()

		holderID := uuid.New()
		sessionID, holderBooking := s.seedFullSession(t, holderID)

		waiterID := uuid.New()
		waiterCredit := s.grantCredit(t, waiterID)
		waiterToken := authtest.MemberToken(t, s.Config, waiterID)

		var joined response.JoinWaitlistResponse
		jw := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, waiterToken)
		httptest.AssertSuccessResponse(t, jw, http.StatusCreated, &joined)

		cw := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			bookingsURL+"/"+holderBooking.String(), nil, authtest.MemberToken(t, s.Config, holderID))
		require.Equal(t, http.StatusNoContent, cw.Code)

		require.Equal(t, "promoted", dbtest.WaitlistEntryStatus(t, s.DB, joined.EntryID))
		require.Equal(t, 1, dbtest.ConfirmedBookingCount(t, s.DB, sessionID))
		require.Equal(t, 4, dbtest.CreditRemaining(t, s.DB, waiterCredit))

		var list []response.BookingListResponse
		bw := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, waiterToken)
		httptest.AssertSuccessResponse(t, bw, http.StatusOK, &list)
		require.Len(t, list, 1)
		require.Equal(t, sessionID, list[0].SessionID)
		require.Equal(t, "confirmed", list[0].Status)
	})

	s.Run("Edge case: FIFO order decides who gets the seat", func() {
		t := s.T()

		holderID := uuid.New()
		sessionID, holderBooking := s.seedFullSession(t, holderID)

		firstID := uuid.New()
		s.grantCredit(t, firstID)
		var firstEntry response.JoinWaitlistResponse
		fw := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, authtest.MemberToken(t, s.Config, firstID))
		httptest.AssertSuccessResponse(t, fw, http.StatusCreated, &firstEntry)

		secondID := uuid.New()
		s.grantCredit(t, secondID)
		var secondEntry response.JoinWaitlistResponse
		sw := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, authtest.MemberToken(t, s.Config, secondID))
		httptest.AssertSuccessResponse(t, sw, http.StatusCreated, &secondEntry)

		cw := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			bookingsURL+"/"+holderBooking.String(), nil, authtest.MemberToken(t, s.Config, holderID))
		require.Equal(t, http.StatusNoContent, cw.Code)

		require.Equal(t, "promoted", dbtest.WaitlistEntryStatus(t, s.DB, firstEntry.EntryID))
		require.Equal(t, "waiting", dbtest.WaitlistEntryStatus(t, s.DB, secondEntry.EntryID))
	})

	s.Run("Edge case: a candidate without credit keeps their place for the next seat", func() {
		t := s.T()

		holderID := uuid.New()
		sessionID, holderBooking := s.seedFullSession(t, holderID)

		// First in line has no credit, second does.
		brokeID := uuid.New()
		var brokeEntry response.JoinWaitlistResponse
		bw := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, authtest.MemberToken(t, s.Config, brokeID))
		httptest.AssertSuccessResponse(t, bw, http.StatusCreated, &brokeEntry)

		fundedID := uuid.New()
		s.grantCredit(t, fundedID)
		var fundedEntry response.JoinWaitlistResponse
		fw := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, authtest.MemberToken(t, s.Config, fundedID))
		httptest.AssertSuccessResponse(t, fw, http.StatusCreated, &fundedEntry)

		cw := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			bookingsURL+"/"+holderBooking.String(), nil, authtest.MemberToken(t, s.Config, holderID))
		require.Equal(t, http.StatusNoContent, cw.Code)

		require.Equal(t, "waiting", dbtest.WaitlistEntryStatus(t, s.DB, brokeEntry.EntryID))
		require.Equal(t, "promoted", dbtest.WaitlistEntryStatus(t, s.DB, fundedEntry.EntryID))
		require.Equal(t, 1, dbtest.ConfirmedBookingCount(t, s.DB, sessionID))
	})

	s.Run("Edge case: entries sharing a join time are both walked", func() {
		t := s.T()

		holderID := uuid.New()
		sessionID, holderBooking := s.seedFullSession(t, holderID)

		// Same joined_at for both entries; ids decide the order, and the
		// first in line cannot pay.
		joinedAt := time.Now().Add(-time.Hour).Truncate(time.Microsecond)
		brokeEntry := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		dbtest.CreateWaitlistEntry(t, s.DB, brokeEntry, uuid.New(), sessionID, joinedAt)

		fundedID := uuid.New()
		s.grantCredit(t, fundedID)
		fundedEntry := uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")
		dbtest.CreateWaitlistEntry(t, s.DB, fundedEntry, fundedID, sessionID, joinedAt)

		cw := httptest.PerformRequest(t, s.Router, http.MethodDelete,
			bookingsURL+"/"+holderBooking.String(), nil, authtest.MemberToken(t, s.Config, holderID))
		require.Equal(t, http.StatusNoContent, cw.Code)

		require.Equal(t, "waiting", dbtest.WaitlistEntryStatus(t, s.DB, brokeEntry))
		require.Equal(t, "promoted", dbtest.WaitlistEntryStatus(t, s.DB, fundedEntry))
		require.Equal(t, 1, dbtest.ConfirmedBookingCount(t, s.DB, sessionID))
	})
}

func (s *WaitlistSuite) TestListBySession() {
	s.Run("Normal case: admin sees the whole queue in order", func() {
		t := s.T()

		sessionID, _ := s.seedFullSession(t, uuid.New())

		for i := 0; i < 3; i++ {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
				request.JoinWaitlistRequest{SessionID: sessionID}, authtest.MemberToken(t, s.Config, uuid.New()))
			require.Equal(t, http.StatusCreated, w.Code)
		}

		adminToken := authtest.AdminToken(t, s.Config, uuid.New())
		var entries []response.WaitlistEntryResponse
		lw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(sessionWaitlistURL, sessionID), nil, adminToken)
		httptest.AssertSuccessResponse(t, lw, http.StatusOK, &entries)

		require.Len(t, entries, 3)
		for i, entry := range entries {
			require.Equal(t, i+1, entry.Position)
			require.Equal(t, "waiting", entry.Status)
		}
	})

	s.Run("Privacy: members only see their own entries", func() {
		t := s.T()

		sessionID, _ := s.seedFullSession(t, uuid.New())

		otherToken := authtest.MemberToken(t, s.Config, uuid.New())
		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, otherToken)
		require.Equal(t, http.StatusCreated, w1.Code)

		selfID := uuid.New()
		selfToken := authtest.MemberToken(t, s.Config, selfID)
		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, waitlistURL,
			request.JoinWaitlistRequest{SessionID: sessionID}, selfToken)
		require.Equal(t, http.StatusCreated, w2.Code)

		var entries []response.WaitlistEntryResponse
		lw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(sessionWaitlistURL, sessionID), nil, selfToken)
		httptest.AssertSuccessResponse(t, lw, http.StatusOK, &entries)

		require.Len(t, entries, 1)
		require.Equal(t, selfID, entries[0].UserID)
		require.Equal(t, 2, entries[0].Position)
	})
}
