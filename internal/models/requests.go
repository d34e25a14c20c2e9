package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============================================
// Auth
// ============================================

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ============================================
// Workspaces & Members
// ============================================

type CreateWorkspaceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN MEMBER"`
}

// ============================================
// Invitations
// ============================================

type SendInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RespondToInvitationRequest struct {
	Response string `json:"response" binding:"required,oneof=accept decline"`
}

// ============================================
// Projects & Tasks
// ============================================

type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required"`
	Emoji       *string `json:"emoji"`
	Description *string `json:"description"`
}

type CreateTaskRequest struct {
	Title          string           `json:"title" binding:"required"`
	Description    *string          `json:"description"`
	Status         *string          `json:"status"`
	Priority       *string          `json:"priority"`
	AssignedTo     *string          `json:"assignedTo"`
	DueDate        *time.Time       `json:"dueDate"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
}

// UpdateTaskRequest carries only the fields the client intends to
// change; nil means "leave alone". The permission guard keys off the
// exact set of non-nil fields, so handlers must not default any of
// these. An empty AssignedTo string clears the assignee.
type UpdateTaskRequest struct {
	Title          *string          `json:"title"`
	Description    *string          `json:"description"`
	Status         *string          `json:"status"`
	Priority       *string          `json:"priority"`
	AssignedTo     *string          `json:"assignedTo"`
	DueDate        *time.Time       `json:"dueDate"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
}

// ChangedFields lists the names of the fields present in the request,
// in a fixed order. The task mutation guard compares this set against
// the actor's capabilities.
func (r *UpdateTaskRequest) ChangedFields() []string {
	var fields []string
	if r.Title != nil {
		fields = append(fields, "title")
	}
	if r.Description != nil {
		fields = append(fields, "description")
	}
	if r.Status != nil {
		fields = append(fields, "status")
	}
	if r.Priority != nil {
		fields = append(fields, "priority")
	}
	if r.AssignedTo != nil {
		fields = append(fields, "assignedTo")
	}
	if r.DueDate != nil {
		fields = append(fields, "dueDate")
	}
	if r.EstimatedHours != nil {
		fields = append(fields, "estimatedHours")
	}
	return fields
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
