package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
	"github.com/teamflow-app/teamflow-backend/internal/service"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Workspace  *WorkspaceHandler
	Member     *MemberHandler
	Invitation *InvitationHandler
	Project    *ProjectHandler
	Task       *TaskHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:       &AuthHandler{authService: services.Auth, userService: services.User},
		User:       &UserHandler{userService: services.User},
		Workspace:  &WorkspaceHandler{workspaceService: services.Workspace},
		Member:     &MemberHandler{memberService: services.Member},
		Invitation: &InvitationHandler{invitationService: services.Invitation, userService: services.User},
		Project:    &ProjectHandler{projectService: services.Project},
		Task:       &TaskHandler{taskService: services.Task},
	}
}

// handleServiceError maps service sentinel errors to HTTP responses.
// Every handler funnels non-nil service errors through here so the
// status mapping lives in one place.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, service.ErrNotMember):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this workspace"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to perform this action"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
	case errors.Is(err, service.ErrAlreadyMember):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member of this workspace"})
	case errors.Is(err, service.ErrDuplicateInvitation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A pending invitation already exists for this email"})
	case errors.Is(err, service.ErrAlreadyResponded):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation has already been responded to"})
	case errors.Is(err, service.ErrInvitationExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invitation has expired"})
	case errors.Is(err, service.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[API_ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		LastLogin:      u.LastLogin,
	}
}

func toUserSummary(u *repository.User) models.UserSummary {
	return models.UserSummary{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
	}
}

func toWorkspaceResponse(ws *repository.Workspace) models.WorkspaceResponse {
	return models.WorkspaceResponse{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
		OwnerID:     ws.OwnerID,
		InviteCode:  ws.InviteCode,
		CreatedAt:   ws.CreatedAt,
	}
}

func toMemberResponse(m *repository.Member) models.MemberResponse {
	resp := models.MemberResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		WorkspaceID: m.WorkspaceID,
		Role:        m.Role,
		JoinedAt:    m.JoinedAt,
	}
	if m.User != nil {
		user := toUserSummary(m.User)
		resp.User = &user
	}
	return resp
}

func toInvitationResponse(inv *repository.Invitation) models.InvitationResponse {
	return models.InvitationResponse{
		ID:           inv.ID,
		WorkspaceID:  inv.WorkspaceID,
		InviterID:    inv.InviterID,
		InviteeEmail: inv.InviteeEmail,
		InviteeID:    inv.InviteeID,
		Status:       inv.Status,
		CreatedAt:    inv.CreatedAt,
		ExpiresAt:    inv.ExpiresAt,
	}
}

func toProjectResponse(p *repository.Project) models.ProjectResponse {
	return models.ProjectResponse{
		ID:          p.ID,
		WorkspaceID: p.WorkspaceID,
		Name:        p.Name,
		Emoji:       p.Emoji,
		Description: p.Description,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func toTaskResponse(t *repository.Task) models.TaskResponse {
	return models.TaskResponse{
		ID:             t.ID,
		WorkspaceID:    t.WorkspaceID,
		ProjectID:      t.ProjectID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		AssignedTo:     t.AssignedTo,
		CreatedBy:      t.CreatedBy,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func toTaskPermissionsResponse(caps service.Capabilities) models.TaskPermissionsResponse {
	return models.TaskPermissionsResponse{
		CanUpdateStatus:    caps.CanUpdateStatus,
		CanUpdateAllFields: caps.CanUpdateAllFields,
		CanDelete:          caps.CanDelete,
		IsWorkspaceOwner:   caps.IsOwner,
		IsTaskAssignee:     caps.IsAssignee,
		IsAdminOrOwner:     caps.IsAdminOrOwner,
	}
}
