package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

type taskFixture struct {
	*invitationFixture
	projects *fakeProjectRepo
	tasks    *fakeTaskRepo
	svc      TaskService
	project  *repository.Project
	task     *repository.Task
}

// newTaskFixture builds a workspace with an owner, a plain member (the
// task assignee), and an outsider, plus one project and one task.
func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	ctx := context.Background()

	base := newInvitationFixture(t)
	projects := newFakeProjectRepo()
	tasks := newFakeTaskRepo()
	svc := NewTaskService(tasks, projects, base.workspaces, NewRegistry())

	project := &repository.Project{
		WorkspaceID: base.workspace.ID,
		Name:        "Core",
		CreatedBy:   base.owner.ID,
	}
	require.NoError(t, projects.Create(ctx, project))

	task := &repository.Task{
		WorkspaceID: base.workspace.ID,
		ProjectID:   project.ID,
		Title:       "Ship it",
		Status:      "TODO",
		Priority:    "MEDIUM",
		AssignedTo:  &base.member.ID,
		CreatedBy:   base.owner.ID,
	}
	require.NoError(t, tasks.Create(ctx, task))

	return &taskFixture{
		invitationFixture: base,
		projects:          projects,
		tasks:             tasks,
		svc:               svc,
		project:           project,
		task:              task,
	}
}

func TestTaskCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to TODO and MEDIUM", func(t *testing.T) {
		fx := newTaskFixture(t)
		task, err := fx.svc.Create(ctx, fx.workspace.ID, fx.project.ID, fx.member.ID, &models.CreateTaskRequest{
			Title: "New thing",
		})
		require.NoError(t, err)
		require.Equal(t, "TODO", task.Status)
		require.Equal(t, "MEDIUM", task.Priority)
		require.Nil(t, task.AssignedTo)
	})

	t.Run("rejects invalid status and priority", func(t *testing.T) {
		fx := newTaskFixture(t)
		bad := "URGENT"
		_, err := fx.svc.Create(ctx, fx.workspace.ID, fx.project.ID, fx.member.ID, &models.CreateTaskRequest{
			Title: "x", Priority: &bad,
		})
		require.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("assignee must be a workspace member", func(t *testing.T) {
		fx := newTaskFixture(t)
		_, err := fx.svc.Create(ctx, fx.workspace.ID, fx.project.ID, fx.owner.ID, &models.CreateTaskRequest{
			Title: "x", AssignedTo: &fx.outsider.ID,
		})
		require.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("non-member cannot create", func(t *testing.T) {
		fx := newTaskFixture(t)
		_, err := fx.svc.Create(ctx, fx.workspace.ID, fx.project.ID, fx.outsider.ID, &models.CreateTaskRequest{
			Title: "x",
		})
		require.ErrorIs(t, err, ErrNotMember)
	})

	t.Run("project must belong to the workspace", func(t *testing.T) {
		fx := newTaskFixture(t)
		other := &repository.Workspace{Name: "Other", OwnerID: fx.owner.ID}
		require.NoError(t, fx.workspaces.Create(ctx, other))
		_, err := fx.workspaces.AddMember(ctx, &repository.Member{
			UserID: fx.owner.ID, WorkspaceID: other.ID, Role: "OWNER",
		})
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, other.ID, fx.project.ID, fx.owner.ID, &models.CreateTaskRequest{
			Title: "cross-workspace",
		})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestTaskUpdateGuard(t *testing.T) {
	ctx := context.Background()
	title := "Renamed"
	status := "IN_PROGRESS"

	t.Run("owner updates any field", func(t *testing.T) {
		fx := newTaskFixture(t)
		task, err := fx.svc.Update(ctx, fx.workspace.ID, fx.project.ID, fx.task.ID, fx.owner.ID, &models.UpdateTaskRequest{
			Title: &title, Status: &status,
		})
		require.NoError(t, err)
		require.Equal(t, "Renamed", task.Title)
		require.Equal(t, "IN_PROGRESS", task.Status)
	})

	t.Run("assignee updates status only", func(t *testing.T) {
		fx := newTaskFixture(t)
		task, err := fx.svc.Update(ctx, fx.workspace.ID, fx.project.ID, fx.task.ID, fx.member.ID, &models.UpdateTaskRequest{
			Status: &status,
		})
		require.NoError(t, err)
		require.Equal(t, "IN_PROGRESS", task.Status)
	})

	t.Run("assignee mixing status with title is denied whole", func(t *testing.T) {
		fx := newTaskFixture(t)
		_, err := fx.svc.Update(ctx, fx.workspace.ID, fx.project.ID, fx.task.ID, fx.member.ID, &models.UpdateTaskRequest{
			Title: &title, Status: &status,
		})
		require.ErrorIs(t, err, ErrPermissionDenied)

		// Nothing was applied.
		stored, err := fx.tasks.FindByID(ctx, fx.task.ID)
		require.NoError(t, err)
		require.Equal(t, "Ship it", stored.Title)
		require.Equal(t, "TODO", stored.Status)
	})

	t.Run("non-assignee member is denied even status", func(t *testing.T) {
		fx := newTaskFixture(t)
		_, created, err := fx.members.Provision(ctx, fx.outsider.ID, fx.workspace.ID, models.RoleMember)
		require.NoError(t, err)
		require.True(t, created)

		_, err = fx.svc.Update(ctx, fx.workspace.ID, fx.project.ID, fx.task.ID, fx.outsider.ID, &models.UpdateTaskRequest{
			Status: &status,
		})
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("empty assignedTo clears the assignee", func(t *testing.T) {
		fx := newTaskFixture(t)
		empty := ""
		task, err := fx.svc.Update(ctx, fx.workspace.ID, fx.project.ID, fx.task.ID, fx.owner.ID, &models.UpdateTaskRequest{
			AssignedTo: &empty,
		})
		require.NoError(t, err)
		require.Nil(t, task.AssignedTo)
	})

	t.Run("reassignment requires a member target", func(t *testing.T) {
		fx := newTaskFixture(t)
		_, err := fx.svc.Update(ctx, fx.workspace.ID, fx.project.ID, fx.task.ID, fx.owner.ID, &models.UpdateTaskRequest{
			AssignedTo: &fx.outsider.ID,
		})
		require.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("empty request is a no-op", func(t *testing.T) {
		fx := newTaskFixture(t)
		// Even for an actor who could not change anything.
		_, created, err := fx.members.Provision(ctx, fx.outsider.ID, fx.workspace.ID, models.RoleMember)
		require.NoError(t, err)
		require.True(t, created)

		task, err := fx.svc.Update(ctx, fx.workspace.ID, fx.project.ID, fx.task.ID, fx.outsider.ID, &models.UpdateTaskRequest{})
		require.NoError(t, err)
		require.Equal(t, "Ship it", task.Title)
	})
}

func TestTaskUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("assignee moves status", func(t *testing.T) {
		fx := newTaskFixture(t)
		task, err := fx.svc.UpdateStatus(ctx, fx.workspace.ID, fx.task.ID, fx.member.ID, "DONE")
		require.NoError(t, err)
		require.Equal(t, "DONE", task.Status)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		fx := newTaskFixture(t)
		_, err := fx.svc.UpdateStatus(ctx, fx.workspace.ID, fx.task.ID, fx.member.ID, "FINISHED")
		require.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		fx := newTaskFixture(t)
		_, err := fx.svc.UpdateStatus(ctx, fx.workspace.ID, fx.task.ID, fx.outsider.ID, "DONE")
		require.ErrorIs(t, err, ErrNotMember)
	})
}

func TestTaskGetPermissions(t *testing.T) {
	ctx := context.Background()

	t.Run("matches what update enforcement does", func(t *testing.T) {
		fx := newTaskFixture(t)

		caps, err := fx.svc.GetPermissions(ctx, fx.workspace.ID, fx.task.ID, fx.member.ID)
		require.NoError(t, err)
		require.True(t, caps.CanUpdateStatus)
		require.False(t, caps.CanUpdateAllFields)
		require.True(t, caps.IsAssignee)

		caps, err = fx.svc.GetPermissions(ctx, fx.workspace.ID, fx.task.ID, fx.owner.ID)
		require.NoError(t, err)
		require.True(t, caps.IsOwner)
		require.True(t, caps.CanDelete)
	})

	t.Run("non-member gets ErrNotMember", func(t *testing.T) {
		fx := newTaskFixture(t)
		_, err := fx.svc.GetPermissions(ctx, fx.workspace.ID, fx.task.ID, fx.outsider.ID)
		require.ErrorIs(t, err, ErrNotMember)
	})
}

func TestTaskDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("assignee cannot delete", func(t *testing.T) {
		fx := newTaskFixture(t)
		err := fx.svc.Delete(ctx, fx.workspace.ID, fx.project.ID, fx.task.ID, fx.member.ID)
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("owner deletes", func(t *testing.T) {
		fx := newTaskFixture(t)
		require.NoError(t, fx.svc.Delete(ctx, fx.workspace.ID, fx.project.ID, fx.task.ID, fx.owner.ID))

		stored, err := fx.tasks.FindByID(ctx, fx.task.ID)
		require.NoError(t, err)
		require.Nil(t, stored)
	})
}

func TestProjectService(t *testing.T) {
	ctx := context.Background()

	t.Run("member creates and lists projects", func(t *testing.T) {
		fx := newTaskFixture(t)
		svc := NewProjectService(fx.projects, fx.workspaces)

		p, err := svc.Create(ctx, fx.workspace.ID, fx.member.ID, &models.CreateProjectRequest{Name: "Docs"})
		require.NoError(t, err)
		require.Equal(t, fx.workspace.ID, p.WorkspaceID)

		list, err := svc.ListByWorkspace(ctx, fx.workspace.ID, fx.member.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		fx := newTaskFixture(t)
		svc := NewProjectService(fx.projects, fx.workspaces)

		_, err := svc.Create(ctx, fx.workspace.ID, fx.outsider.ID, &models.CreateProjectRequest{Name: "Docs"})
		require.ErrorIs(t, err, ErrNotMember)
	})

	t.Run("plain member cannot delete a project", func(t *testing.T) {
		fx := newTaskFixture(t)
		svc := NewProjectService(fx.projects, fx.workspaces)

		err := svc.Delete(ctx, fx.workspace.ID, fx.project.ID, fx.member.ID)
		require.ErrorIs(t, err, ErrPermissionDenied)

		require.NoError(t, svc.Delete(ctx, fx.workspace.ID, fx.project.ID, fx.owner.ID))
	})
}
