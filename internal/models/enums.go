package models

// RoleName identifies a workspace role. OWNER is implicit: it is held
// by the workspace creator and short-circuits permission checks.
type RoleName string

const (
	RoleOwner  RoleName = "OWNER"
	RoleAdmin  RoleName = "ADMIN"
	RoleMember RoleName = "MEMBER"
)

// Permission is a single capability tag granted by a role.
type Permission string

const (
	PermCreateWorkspace  Permission = "CREATE_WORKSPACE"
	PermDeleteWorkspace  Permission = "DELETE_WORKSPACE"
	PermManageWorkspace  Permission = "MANAGE_WORKSPACE_SETTINGS"
	PermAddMember        Permission = "ADD_MEMBER"
	PermChangeMemberRole Permission = "CHANGE_MEMBER_ROLE"
	PermRemoveMember     Permission = "REMOVE_MEMBER"
	PermCreateProject    Permission = "CREATE_PROJECT"
	PermEditProject      Permission = "EDIT_PROJECT"
	PermDeleteProject    Permission = "DELETE_PROJECT"
	PermCreateTask       Permission = "CREATE_TASK"
	PermEditTask         Permission = "EDIT_TASK"
	PermDeleteTask       Permission = "DELETE_TASK"
	PermSendInvitation   Permission = "SEND_INVITATION"
	PermViewOnly         Permission = "VIEW_ONLY"
)

// InvitationStatus is the stored lifecycle state of an invitation.
// There is deliberately no "expired" value: expiry is derived from
// expires_at at read time, never written back.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// InvitationDecision is the responder's choice.
type InvitationDecision string

const (
	DecisionAccept  InvitationDecision = "accept"
	DecisionDecline InvitationDecision = "decline"
)

type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "BACKLOG"
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

func ValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}
