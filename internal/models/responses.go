package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type UserResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	ProfilePicture *string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

// UserSummary is the non-sensitive projection returned by user search.
type UserSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type WorkspaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	InviteCode  *string   `json:"inviteCode,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type MemberResponse struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	WorkspaceID string       `json:"workspaceId"`
	Role        string       `json:"role"`
	JoinedAt    time.Time    `json:"joinedAt"`
	User        *UserSummary `json:"user,omitempty"`
}

type InvitationResponse struct {
	ID           string     `json:"id"`
	WorkspaceID  string     `json:"workspaceId"`
	InviterID    string     `json:"inviterId"`
	InviteeEmail string     `json:"inviteeEmail"`
	InviteeID    *string    `json:"inviteeId,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	Workspace    *WorkspaceResponse `json:"workspace,omitempty"`
	Inviter      *UserSummary       `json:"inviter,omitempty"`
}

type RespondResponse struct {
	Message     string  `json:"message"`
	WorkspaceID *string `json:"workspaceId"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	Emoji       *string   `json:"emoji,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

type TaskResponse struct {
	ID             string           `json:"id"`
	WorkspaceID    string           `json:"workspaceId"`
	ProjectID      string           `json:"projectId"`
	Title          string           `json:"title"`
	Description    *string          `json:"description,omitempty"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	AssignedTo     *string          `json:"assignedTo,omitempty"`
	CreatedBy      string           `json:"createdBy"`
	DueDate        *time.Time       `json:"dueDate,omitempty"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// TaskPermissionsResponse mirrors the resolved capability set for the
// requesting user against one task.
type TaskPermissionsResponse struct {
	CanUpdateStatus    bool `json:"canUpdateStatus"`
	CanUpdateAllFields bool `json:"canUpdateAllFields"`
	CanDelete          bool `json:"canDelete"`
	IsWorkspaceOwner   bool `json:"isWorkspaceOwner"`
	IsTaskAssignee     bool `json:"isTaskAssignee"`
	IsAdminOrOwner     bool `json:"isAdminOrOwner"`
}
