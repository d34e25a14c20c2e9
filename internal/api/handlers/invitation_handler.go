package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamflow-app/teamflow-backend/internal/api/middleware"
	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/service"
)

type InvitationHandler struct {
	invitationService service.InvitationService
	userService       service.UserService
}

func (h *InvitationHandler) Send(c *gin.Context) {
	inviterID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := h.invitationService.Send(c.Request.Context(), c.Param("id"), inviterID, req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toInvitationResponse(invitation))
}

// ListMine returns the authenticated user's live pending invitations,
// looked up by the email on their account.
func (h *InvitationHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	invitations, err := h.invitationService.ListMine(c.Request.Context(), user.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.InvitationResponse, len(invitations))
	for i, inv := range invitations {
		response[i] = toInvitationResponse(inv)
	}
	c.JSON(http.StatusOK, gin.H{"invitations": response})
}

func (h *InvitationHandler) ListForWorkspace(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	invitations, err := h.invitationService.ListForWorkspace(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.InvitationResponse, len(invitations))
	for i, inv := range invitations {
		response[i] = toInvitationResponse(inv)
	}
	c.JSON(http.StatusOK, gin.H{"invitations": response})
}

func (h *InvitationHandler) Respond(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.RespondToInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := models.InvitationDecision(req.Response)
	workspaceID, err := h.invitationService.Respond(c.Request.Context(), c.Param("id"), userID, decision)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	message := "Invitation declined"
	if decision == models.DecisionAccept {
		message = "Invitation accepted"
	}
	c.JSON(http.StatusOK, models.RespondResponse{
		Message:     message,
		WorkspaceID: workspaceID,
	})
}
