package service

import (
	"context"

	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

type ProjectService interface {
	Create(ctx context.Context, workspaceID, creatorID string, req *models.CreateProjectRequest) (*repository.Project, error)
	Get(ctx context.Context, workspaceID, projectID, requesterID string) (*repository.Project, error)
	ListByWorkspace(ctx context.Context, workspaceID, requesterID string) ([]*repository.Project, error)
	Delete(ctx context.Context, workspaceID, projectID, requesterID string) error
}

type projectService struct {
	projectRepo   repository.ProjectRepository
	workspaceRepo repository.WorkspaceRepository
}

func NewProjectService(projectRepo repository.ProjectRepository, workspaceRepo repository.WorkspaceRepository) ProjectService {
	return &projectService{projectRepo: projectRepo, workspaceRepo: workspaceRepo}
}

func (s *projectService) requireMember(ctx context.Context, workspaceID, userID string) (*repository.Member, error) {
	member, err := s.workspaceRepo.FindMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotMember
	}
	return member, nil
}

func (s *projectService) Create(ctx context.Context, workspaceID, creatorID string, req *models.CreateProjectRequest) (*repository.Project, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if workspace == nil {
		return nil, ErrNotFound
	}
	if _, err := s.requireMember(ctx, workspaceID, creatorID); err != nil {
		return nil, err
	}

	project := &repository.Project{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Emoji:       req.Emoji,
		Description: req.Description,
		CreatedBy:   creatorID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, workspaceID, projectID, requesterID string) (*repository.Project, error) {
	if _, err := s.requireMember(ctx, workspaceID, requesterID); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	// A project reached through the wrong workspace does not exist as
	// far as the caller is concerned.
	if project == nil || project.WorkspaceID != workspaceID {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *projectService) ListByWorkspace(ctx context.Context, workspaceID, requesterID string) ([]*repository.Project, error) {
	if _, err := s.requireMember(ctx, workspaceID, requesterID); err != nil {
		return nil, err
	}
	return s.projectRepo.FindByWorkspace(ctx, workspaceID)
}

func (s *projectService) Delete(ctx context.Context, workspaceID, projectID, requesterID string) error {
	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return err
	}
	if workspace == nil {
		return ErrNotFound
	}
	member, err := s.requireMember(ctx, workspaceID, requesterID)
	if err != nil {
		return err
	}
	if workspace.OwnerID != requesterID && member.Role != string(models.RoleAdmin) {
		return ErrPermissionDenied
	}

	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil || project.WorkspaceID != workspaceID {
		return ErrNotFound
	}
	return s.projectRepo.Delete(ctx, projectID)
}
