package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct {
	sessionQueries  queries.SessionQueries
	bookingCommands commands.BookingCommands
}

func NewSessionHandler(sessionQueries queries.SessionQueries, bookingCommands commands.BookingCommands) *SessionHandler {
	return &SessionHandler{
		sessionQueries:  sessionQueries,
		bookingCommands: bookingCommands,
	}
}

// @Summary Session availability
// @Description Live seat counts for a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/availability [get]
func (h *SessionHandler) GetAvailability(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid session ID format",
		})
		return
	}

	view, err := h.sessionQueries.GetAvailability(c.Request.Context(), sessionID, viewer)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Cancel underbooked sessions
// @Description Cancel and refund every session below the attendance minimum within the window (admin)
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param hours query int false "Look-ahead window in hours" default(24)
// @Success 200 {object} map[string]int
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/sessions/underbooked/sweep [post]
func (h *SessionHandler) SweepUnderbooked(c *gin.Context) {
	hours := 24
	if raw := c.Query("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid hours value",
			})
			return
		}
		hours = parsed
	}

	result, err := h.bookingCommands.CancelUnderbookedSessions(c.Request.Context(), time.Duration(hours)*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions_cancelled": result.SessionsCancelled,
		"bookings_refunded":  result.BookingsRefunded,
	})
}
