package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamflow-app/teamflow-backend/internal/api/middleware"
	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/service"
)

type MemberHandler struct {
	memberService service.MemberService
}

func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]models.MemberResponse, len(members))
	for i, m := range members {
		response[i] = toMemberResponse(m)
	}
	c.JSON(http.StatusOK, gin.H{"members": response})
}

func (h *MemberHandler) UpdateRole(c *gin.Context) {
	actorID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.memberService.ChangeRole(
		c.Request.Context(),
		c.Param("id"),
		actorID,
		c.Param("userId"),
		models.RoleName(req.Role),
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

// JoinByInviteCode joins the workspace behind an invite link. The code
// alone grants MEMBER access; no invitation row is involved.
func (h *MemberHandler) JoinByInviteCode(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	workspace, member, err := h.memberService.JoinByInviteCode(c.Request.Context(), userID, c.Param("inviteCode"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Joined workspace successfully",
		"workspace": toWorkspaceResponse(workspace),
		"member":    toMemberResponse(member),
	})
}
