package service

import (
	"context"
	"log"

	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
	"github.com/teamflow-app/teamflow-backend/internal/socket"
)

type MemberService interface {
	// Provision idempotently materializes a member row for
	// (user, workspace). If one already exists it is returned
	// untouched; otherwise a new row is created with the given role.
	// Safe under duplicate and concurrent invocation: the storage
	// uniqueness constraint on (user_id, workspace_id) closes the
	// window between the existence check and the insert. Reports
	// whether a new row was created.
	Provision(ctx context.Context, userID, workspaceID string, role models.RoleName) (*repository.Member, bool, error)

	// JoinByInviteCode is the legacy invite-link entry into the same
	// provisioning path.
	JoinByInviteCode(ctx context.Context, userID, inviteCode string) (*repository.Workspace, *repository.Member, error)

	ListMembers(ctx context.Context, workspaceID, requesterID string) ([]*repository.Member, error)
	ChangeRole(ctx context.Context, workspaceID, actorID, targetUserID string, role models.RoleName) error
}

type memberService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	registry      *Registry
	broadcaster   *socket.Broadcaster
}

func NewMemberService(
	workspaceRepo repository.WorkspaceRepository,
	userRepo repository.UserRepository,
	registry *Registry,
	broadcaster *socket.Broadcaster,
) MemberService {
	return &memberService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		registry:      registry,
		broadcaster:   broadcaster,
	}
}

func (s *memberService) Provision(ctx context.Context, userID, workspaceID string, role models.RoleName) (*repository.Member, bool, error) {
	existing, err := s.workspaceRepo.FindMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	member := &repository.Member{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        string(role),
	}
	inserted, err := s.workspaceRepo.AddMember(ctx, member)
	if err != nil {
		return nil, false, err
	}
	if !inserted {
		// Lost the race to a concurrent provision; the winner's row
		// is the member.
		existing, err := s.workspaceRepo.FindMember(ctx, workspaceID, userID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	s.notifyOwner(ctx, workspaceID, userID)
	return member, true, nil
}

func (s *memberService) JoinByInviteCode(ctx context.Context, userID, inviteCode string) (*repository.Workspace, *repository.Member, error) {
	workspace, err := s.workspaceRepo.FindByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, nil, err
	}
	if workspace == nil {
		return nil, nil, ErrNotFound
	}

	member, created, err := s.Provision(ctx, userID, workspace.ID, models.RoleMember)
	if err != nil {
		return nil, nil, err
	}
	if !created {
		return nil, nil, ErrAlreadyMember
	}
	return workspace, member, nil
}

func (s *memberService) ListMembers(ctx context.Context, workspaceID, requesterID string) ([]*repository.Member, error) {
	requester, err := s.workspaceRepo.FindMember(ctx, workspaceID, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, ErrNotMember
	}
	return s.workspaceRepo.FindMembers(ctx, workspaceID)
}

func (s *memberService) ChangeRole(ctx context.Context, workspaceID, actorID, targetUserID string, role models.RoleName) error {
	if !s.registry.Known(role) || role == models.RoleOwner {
		return ErrBadRequest
	}

	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace == nil {
		return ErrNotFound
	}

	actor, err := s.workspaceRepo.FindMember(ctx, workspaceID, actorID)
	if err != nil {
		return err
	}
	if actor == nil {
		return ErrNotMember
	}

	if workspace.OwnerID != actorID {
		perms, err := s.registry.Permissions(models.RoleName(actor.Role))
		if err != nil {
			return err
		}
		if !perms.Has(models.PermChangeMemberRole) {
			return ErrPermissionDenied
		}
	}

	// The owner's role is fixed; ownership transfer is out of scope.
	if workspace.OwnerID == targetUserID {
		return ErrBadRequest
	}

	target, err := s.workspaceRepo.FindMember(ctx, workspaceID, targetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	return s.workspaceRepo.UpdateMemberRole(ctx, workspaceID, targetUserID, string(role))
}

func (s *memberService) notifyOwner(ctx context.Context, workspaceID, joinedUserID string) {
	if s.broadcaster == nil {
		return
	}
	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil || workspace == nil {
		log.Printf("[Member] failed to load workspace %s for join notification: %v", workspaceID, err)
		return
	}
	s.broadcaster.SendToUser(workspace.OwnerID, socket.EventMemberJoined, map[string]string{
		"workspaceId": workspaceID,
		"userId":      joinedUserID,
	})
}
