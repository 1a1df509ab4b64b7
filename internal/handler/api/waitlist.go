package api

import (
	"errors"
	"net/http"

	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	waitlistCommands commands.WaitlistCommands
	waitlistQueries  queries.WaitlistQueries
}

func NewWaitlistHandler(waitlistCommands commands.WaitlistCommands, waitlistQueries queries.WaitlistQueries) *WaitlistHandler {
	return &WaitlistHandler{
		waitlistCommands: waitlistCommands,
		waitlistQueries:  waitlistQueries,
	}
}

// @Summary Join waitlist
// @Description Join the FIFO waitlist of a full session
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.JoinWaitlistRequest true "Join request"
// @Success 201 {object} resdto.JoinWaitlistResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.JoinWaitlistRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.waitlistCommands.Join(c.Request.Context(), req.TargetUser(actor.ID), req.SessionID, actor)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		case errors.Is(err, commands.ErrUnauthorized):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Session not found",
			})
		case errors.Is(err, commands.ErrWaitlistOnPersonal):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Personal sessions have no waitlist",
			})
		case errors.Is(err, commands.ErrSessionStarted):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Session has already started",
			})
		case errors.Is(err, commands.ErrDuplicateWaitlistEntry):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Already on the waitlist for this session",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.JoinWaitlistResponse{EntryID: result.EntryID})
}

// @Summary Leave waitlist
// @Description Cancel own waiting entry for a session
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.LeaveWaitlistRequest true "Leave request"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /waitlist [delete]
func (h *WaitlistHandler) Leave(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.LeaveWaitlistRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.waitlistCommands.Leave(c.Request.Context(), req.TargetUser(actor.ID), req.SessionID, actor); err != nil {
		switch {
		case errors.Is(err, commands.ErrWaitlistEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No waiting entry for this session",
			})
		case errors.Is(err, commands.ErrUnauthorized):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No waiting entry for this session",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary List session waitlist
// @Description List waitlist entries of a session; members see only their own position
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {array} resdto.WaitlistEntryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /sessions/{id}/waitlist [get]
func (h *WaitlistHandler) ListBySession(c *gin.Context) {
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

	entries, err := h.waitlistQueries.ListWaitlist(c.Request.Context(), sessionID, viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.WaitlistEntryResponse, len(entries))
	for i, rm := range entries {
		response[i] = resdto.FromWaitlistEntryView(rm)
	}

	c.JSON(http.StatusOK, response)
}
