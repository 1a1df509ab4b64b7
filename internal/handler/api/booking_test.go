//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"studio-booking/internal/domain/identity"
	"studio-booking/internal/handler/api"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"
	"studio-booking/tests/common/builder"
	"studio-booking/tests/common/httptest"
	commandsmock "studio-booking/tests/mock/commands"
	queriesmock "studio-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
	userID       uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", identity.RoleMember)
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.Reserve)
	s.router.GET("/bookings", authMiddleware, s.handler.ListMyBookings)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.GetBooking)
	s.router.DELETE("/bookings/:id", authMiddleware, s.handler.Cancel)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) TestReserve() {
	sessionID := uuid.New()
	body := map[string]any{"session_id": sessionID}

	s.Run("successful reservation", func() {
		bookingID := uuid.New()
		s.mockCommands.EXPECT().
			Reserve(gomock.Any(), s.userID, sessionID, commands.Actor{ID: s.userID, Role: identity.RoleMember}).
			Return(&commands.ReserveResult{BookingID: bookingID}, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", body, "token")

		var resp resdto.ReserveResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &resp)
		s.Equal(bookingID, resp.BookingID)
	})

	s.Run("requires authentication", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", body, "")
		s.Equal(http.StatusUnauthorized, w.Code)
	})

	s.Run("rejects malformed body", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", map[string]any{"session_id": "not-a-uuid"}, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error mapping", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
			expectMsg  string
		}{
			{"session not found", commands.ErrSessionNotFound, http.StatusNotFound, "Session not found"},
			{"hidden personal session", commands.ErrUnauthorized, http.StatusNotFound, "Session not found"},
			{"duplicate booking", commands.ErrDuplicateBooking, http.StatusConflict, "Already booked"},
			{"session full", commands.ErrSessionFull, http.StatusConflict, "Session is full"},
			{"no credit", commands.ErrNoCreditAvailable, http.StatusPaymentRequired, "No eligible credit"},
			{"wrong month", commands.ErrCreditWrongMonth, http.StatusPaymentRequired, "not valid for this session date"},
			{"credit drained concurrently", commands.ErrCreditDepleted, http.StatusPaymentRequired, "used up"},
			{"retry exhaustion", commands.ErrConflict, http.StatusConflict, "concurrent requests"},
			{"session started", commands.ErrSessionStarted, http.StatusUnprocessableEntity, "already started"},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().
					Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.err)

				w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings", body, "token")
				httptest.AssertErrorResponse(s.T(), w, tc.expectCode, tc.expectMsg)
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestCancel() {
	bookingID := uuid.New()

	s.Run("successful cancellation", func() {
		s.mockCommands.EXPECT().
			Cancel(gomock.Any(), bookingID, commands.Actor{ID: s.userID, Role: identity.RoleMember}).
			Return(nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/"+bookingID.String(), nil, "token")
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("invalid id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/not-a-uuid", nil, "token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error mapping", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
			expectMsg  string
		}{
			{"not found", commands.ErrBookingNotFound, http.StatusNotFound, "Booking not found"},
			{"someone else's booking", commands.ErrUnauthorized, http.StatusNotFound, "Booking not found"},
			{"already cancelled", commands.ErrBookingNotConfirmed, http.StatusConflict, "not confirmed"},
			{"past the deadline", commands.ErrCutoffPassed, http.StatusUnprocessableEntity, "deadline"},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().
					Cancel(gomock.Any(), bookingID, gomock.Any()).
					Return(tc.err)

				w := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/bookings/"+bookingID.String(), nil, "token")
				httptest.AssertErrorResponse(s.T(), w, tc.expectCode, tc.expectMsg)
			})
		}
	})
}

func (s *BookingHandlerTestSuite) TestGetBooking() {
	s.Run("returns the view", func() {
		view := builder.NewBookingBuilder().WithUserID(s.userID).BuildView()
		s.mockQueries.EXPECT().
			GetBooking(gomock.Any(), view.ID, gomock.Any()).
			Return(view, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil, "token")

		var resp resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Equal(view.ID, resp.ID)
		s.Equal(view.Status, resp.Status)
	})
}

func (s *BookingHandlerTestSuite) TestListMyBookings() {
	s.Run("returns own bookings", func() {
		items := []*queries.BookingListItem{
			builder.NewBookingBuilder().WithUserID(s.userID).BuildListItem(),
			builder.NewBookingBuilder().WithUserID(s.userID).AsCancelled().BuildListItem(),
		}
		s.mockQueries.EXPECT().
			ListUserBookings(gomock.Any(), s.userID, gomock.Any()).
			Return(items, nil)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "token")

		var resp []*resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
		s.Len(resp, 2)
	})
}
