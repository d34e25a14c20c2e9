package service

import (
	"errors"

	"github.com/teamflow-app/teamflow-backend/internal/config"
	"github.com/teamflow-app/teamflow-backend/internal/db"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
	"github.com/teamflow-app/teamflow-backend/internal/socket"
)

// Sentinel errors returned by services. Handlers map these to HTTP
// status codes with handleServiceError; nothing below the handler
// layer knows about transport codes. ErrNotMember and
// ErrPermissionDenied are deliberately distinct: missing membership
// and insufficient capability are different conditions for callers.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrBadRequest         = errors.New("invalid request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")

	ErrNotMember        = errors.New("user is not a member of this workspace")
	ErrPermissionDenied = errors.New("permission denied")

	ErrAlreadyMember       = errors.New("user is already a member of this workspace")
	ErrDuplicateInvitation = errors.New("a pending invitation already exists for this email")
	ErrAlreadyResponded    = errors.New("invitation has already been responded to")
	ErrInvitationExpired   = errors.New("invitation has expired")

	// ErrRoleNotFound signals a data-integrity fault (a member row
	// referencing a role the registry does not know), not a user error.
	ErrRoleNotFound = errors.New("role not found in permission registry")
)

// Services aggregates all business services.
type Services struct {
	Auth       AuthService
	User       UserService
	Workspace  WorkspaceService
	Member     MemberService
	Invitation InvitationService
	Project    ProjectService
	Task       TaskService
	Registry   *Registry
}

// ServiceDeps contains everything needed to construct the services.
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Cache       *db.RedisDB
	Broadcaster *socket.Broadcaster
}

func NewServices(deps *ServiceDeps) *Services {
	registry := NewRegistry()

	memberService := NewMemberService(
		deps.Repos.WorkspaceRepo,
		deps.Repos.UserRepo,
		registry,
		deps.Broadcaster,
	)

	return &Services{
		Auth: NewAuthService(deps.Config, deps.Repos.UserRepo),
		User: NewUserService(deps.Repos.UserRepo, deps.Cache),
		Workspace: NewWorkspaceService(
			deps.Repos.WorkspaceRepo,
			deps.Repos.UserRepo,
		),
		Member: memberService,
		Invitation: NewInvitationService(
			deps.Repos.InvitationRepo,
			deps.Repos.WorkspaceRepo,
			deps.Repos.UserRepo,
			memberService,
			deps.Broadcaster,
		),
		Project: NewProjectService(
			deps.Repos.ProjectRepo,
			deps.Repos.WorkspaceRepo,
		),
		Task: NewTaskService(
			deps.Repos.TaskRepo,
			deps.Repos.ProjectRepo,
			deps.Repos.WorkspaceRepo,
			registry,
		),
		Registry: registry,
	}
}
