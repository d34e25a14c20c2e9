package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

type WorkspaceService interface {
	Create(ctx context.Context, ownerID, name string, description *string) (*repository.Workspace, error)
	Get(ctx context.Context, workspaceID, requesterID string) (*repository.Workspace, error)
	ListMine(ctx context.Context, userID string) ([]*repository.Workspace, error)
}

type workspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
}

func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository) WorkspaceService {
	return &workspaceService{workspaceRepo: workspaceRepo, userRepo: userRepo}
}

// Create makes a workspace and seeds its member list with the creator
// as OWNER, so membership checks never special-case the owner.
func (s *workspaceService) Create(ctx context.Context, ownerID, name string, description *string) (*repository.Workspace, error) {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrNotFound
	}

	inviteCode := uuid.NewString()
	workspace := &repository.Workspace{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		InviteCode:  &inviteCode,
	}
	if err := s.workspaceRepo.Create(ctx, workspace); err != nil {
		return nil, err
	}

	member := &repository.Member{
		UserID:      ownerID,
		WorkspaceID: workspace.ID,
		Role:        string(models.RoleOwner),
	}
	if _, err := s.workspaceRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	return workspace, nil
}

func (s *workspaceService) Get(ctx context.Context, workspaceID, requesterID string) (*repository.Workspace, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}

	member, err := s.workspaceRepo.FindMember(ctx, workspaceID, requesterID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotMember
	}
	return workspace, nil
}

func (s *workspaceService) ListMine(ctx context.Context, userID string) ([]*repository.Workspace, error) {
	return s.workspaceRepo.FindByUserID(ctx, userID)
}
