package api

import (
	"errors"
	"net/http"

	"studio-booking/internal/domain/credit"
	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreditHandler struct {
	creditCommands commands.CreditCommands
	creditQueries  queries.CreditQueries
}

func NewCreditHandler(creditCommands commands.CreditCommands, creditQueries queries.CreditQueries) *CreditHandler {
	return &CreditHandler{
		creditCommands: creditCommands,
		creditQueries:  creditQueries,
	}
}

// @Summary List own credits
// @Description List all credits of the current user
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.CreditResponse
// @Failure 401 {object} map[string]string
// @Router /credits [get]
func (h *CreditHandler) ListMyCredits(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.creditQueries.ListUserCredits(c.Request.Context(), viewer.ID, viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.CreditResponse, len(views))
	for i, rm := range views {
		response[i] = resdto.FromCreditView(rm)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary List user credits
// @Description List all credits of a user (admin)
// @Tags credits
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {array} resdto.CreditResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/users/{id}/credits [get]
func (h *CreditHandler) ListUserCredits(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	views, err := h.creditQueries.ListUserCredits(c.Request.Context(), userID, viewer)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response := make([]*resdto.CreditResponse, len(views))
	for i, rm := range views {
		response[i] = resdto.FromCreditView(rm)
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Grant credit
// @Description Grant a credit to a user from a package definition (admin)
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.GrantCreditRequest true "Grant request"
// @Success 201 {object} resdto.GrantCreditResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/credits [post]
func (h *CreditHandler) GrantCredit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.GrantCreditRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.creditCommands.GrantCredit(c.Request.Context(), req.UserID, req.PackageID, req.ExpiresAt, req.NextResetAt, actor)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
		case errors.Is(err, commands.ErrPackageNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Package not found",
			})
		case errors.Is(err, commands.ErrInvalidGrant):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid credit grant",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.GrantCreditResponse{CreditID: result.CreditID})
}

// @Summary Adjust credit
// @Description Apply a signed delta to a user's credit balance (admin)
// @Tags credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AdjustCreditRequest true "Adjustment request"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/credits/adjust [post]
func (h *CreditHandler) AdjustCredit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.AdjustCreditRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	err := h.creditCommands.AdjustCredit(c.Request.Context(), req.UserID, credit.ClassTypeGroup(req.Group), req.Delta, actor)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
		case errors.Is(err, commands.ErrNoCreditAvailable):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No adjustable credit for this user and group",
			})
		case errors.Is(err, commands.ErrInvalidGrant):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid class type group",
			})
		case errors.Is(err, commands.ErrInvalidAdjustment):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Adjustment would make the balance negative",
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
