package service

import (
	"context"

	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

type TaskService interface {
	Create(ctx context.Context, workspaceID, projectID, creatorID string, req *models.CreateTaskRequest) (*repository.Task, error)
	Get(ctx context.Context, workspaceID, projectID, taskID, requesterID string) (*repository.Task, error)
	ListByProject(ctx context.Context, workspaceID, projectID, requesterID string) ([]*repository.Task, error)

	// Update applies a partial update. The fields present in the
	// request are matched against the actor's capabilities as one set:
	// either the whole request is allowed or nothing is applied.
	Update(ctx context.Context, workspaceID, projectID, taskID, actorID string, req *models.UpdateTaskRequest) (*repository.Task, error)

	// UpdateStatus is the assignee-friendly path: only the status
	// field, addressable without the project ID.
	UpdateStatus(ctx context.Context, workspaceID, taskID, actorID, status string) (*repository.Task, error)

	// GetPermissions reports what the actor could do to the task,
	// without doing it. Uses the same resolution as the mutating paths.
	GetPermissions(ctx context.Context, workspaceID, taskID, actorID string) (Capabilities, error)

	Delete(ctx context.Context, workspaceID, projectID, taskID, actorID string) error
}

type taskService struct {
	taskRepo      repository.TaskRepository
	projectRepo   repository.ProjectRepository
	workspaceRepo repository.WorkspaceRepository
	registry      *Registry
}

func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	workspaceRepo repository.WorkspaceRepository,
	registry *Registry,
) TaskService {
	return &taskService{
		taskRepo:      taskRepo,
		projectRepo:   projectRepo,
		workspaceRepo: workspaceRepo,
		registry:      registry,
	}
}

// loadProject resolves a project and checks it belongs to the
// workspace in the URL. A mismatch reads as not-found, never as a
// permission error, so callers cannot probe other workspaces.
func (s *taskService) loadProject(ctx context.Context, workspaceID, projectID string) (*repository.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.WorkspaceID != workspaceID {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *taskService) loadTask(ctx context.Context, workspaceID, taskID string) (*repository.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.WorkspaceID != workspaceID {
		return nil, ErrNotFound
	}
	return task, nil
}

// resolve gathers the workspace, the actor's member row, and the task,
// then runs capability resolution. Every task read and mutation goes
// through here.
func (s *taskService) resolve(ctx context.Context, workspaceID, taskID, actorID string) (*repository.Task, Capabilities, error) {
	workspace, err := s.workspaceRepo.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, Capabilities{}, err
	}
	if workspace == nil {
		return nil, Capabilities{}, ErrNotFound
	}

	task, err := s.loadTask(ctx, workspaceID, taskID)
	if err != nil {
		return nil, Capabilities{}, err
	}

	member, err := s.workspaceRepo.FindMember(ctx, workspaceID, actorID)
	if err != nil {
		return nil, Capabilities{}, err
	}

	caps, err := s.registry.ResolveTaskCapabilities(actorID, workspace, task, member)
	if err != nil {
		return nil, Capabilities{}, err
	}
	return task, caps, nil
}

func (s *taskService) requireMember(ctx context.Context, workspaceID, userID string) error {
	member, err := s.workspaceRepo.FindMember(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotMember
	}
	return nil
}

// validateAssignee accepts nil (no change of semantics here, just no
// assignee) and otherwise requires the target to be a member of the
// workspace.
func (s *taskService) validateAssignee(ctx context.Context, workspaceID string, assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}
	member, err := s.workspaceRepo.FindMember(ctx, workspaceID, *assigneeID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrBadRequest
	}
	return nil
}

func (s *taskService) Create(ctx context.Context, workspaceID, projectID, creatorID string, req *models.CreateTaskRequest) (*repository.Task, error) {
	if err := s.requireMember(ctx, workspaceID, creatorID); err != nil {
		return nil, err
	}
	if _, err := s.loadProject(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}

	status := string(models.TaskStatusTodo)
	if req.Status != nil {
		if !models.ValidTaskStatus(models.TaskStatus(*req.Status)) {
			return nil, ErrBadRequest
		}
		status = *req.Status
	}
	priority := string(models.TaskPriorityMedium)
	if req.Priority != nil {
		if !models.ValidTaskPriority(models.TaskPriority(*req.Priority)) {
			return nil, ErrBadRequest
		}
		priority = *req.Priority
	}

	assignedTo := req.AssignedTo
	if assignedTo != nil && *assignedTo == "" {
		assignedTo = nil
	}
	if err := s.validateAssignee(ctx, workspaceID, assignedTo); err != nil {
		return nil, err
	}

	task := &repository.Task{
		WorkspaceID:    workspaceID,
		ProjectID:      projectID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         status,
		Priority:       priority,
		AssignedTo:     assignedTo,
		CreatedBy:      creatorID,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Get(ctx context.Context, workspaceID, projectID, taskID, requesterID string) (*repository.Task, error) {
	if err := s.requireMember(ctx, workspaceID, requesterID); err != nil {
		return nil, err
	}
	task, err := s.loadTask(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, ErrNotFound
	}
	return task, nil
}

func (s *taskService) ListByProject(ctx context.Context, workspaceID, projectID, requesterID string) ([]*repository.Task, error) {
	if err := s.requireMember(ctx, workspaceID, requesterID); err != nil {
		return nil, err
	}
	if _, err := s.loadProject(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}
	return s.taskRepo.FindByProject(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, workspaceID, projectID, taskID, actorID string, req *models.UpdateTaskRequest) (*repository.Task, error) {
	if _, err := s.loadProject(ctx, workspaceID, projectID); err != nil {
		return nil, err
	}

	task, caps, err := s.resolve(ctx, workspaceID, taskID, actorID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID != projectID {
		return nil, ErrNotFound
	}

	changed := req.ChangedFields()
	if len(changed) == 0 {
		return task, nil
	}
	if !caps.AllowsUpdate(changed) {
		return nil, ErrPermissionDenied
	}

	if req.Status != nil && !models.ValidTaskStatus(models.TaskStatus(*req.Status)) {
		return nil, ErrBadRequest
	}
	if req.Priority != nil && !models.ValidTaskPriority(models.TaskPriority(*req.Priority)) {
		return nil, ErrBadRequest
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			task.AssignedTo = nil
		} else {
			if err := s.validateAssignee(ctx, workspaceID, req.AssignedTo); err != nil {
				return nil, err
			}
			task.AssignedTo = req.AssignedTo
		}
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = req.EstimatedHours
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, workspaceID, taskID, actorID, status string) (*repository.Task, error) {
	task, caps, err := s.resolve(ctx, workspaceID, taskID, actorID)
	if err != nil {
		return nil, err
	}
	if !caps.CanUpdateStatus {
		return nil, ErrPermissionDenied
	}
	if !models.ValidTaskStatus(models.TaskStatus(status)) {
		return nil, ErrBadRequest
	}

	task.Status = status
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) GetPermissions(ctx context.Context, workspaceID, taskID, actorID string) (Capabilities, error) {
	_, caps, err := s.resolve(ctx, workspaceID, taskID, actorID)
	return caps, err
}

func (s *taskService) Delete(ctx context.Context, workspaceID, projectID, taskID, actorID string) error {
	if _, err := s.loadProject(ctx, workspaceID, projectID); err != nil {
		return err
	}
	task, caps, err := s.resolve(ctx, workspaceID, taskID, actorID)
	if err != nil {
		return err
	}
	if task.ProjectID != projectID {
		return ErrNotFound
	}
	if !caps.CanDelete {
		return ErrPermissionDenied
	}
	return s.taskRepo.Delete(ctx, taskID)
}
