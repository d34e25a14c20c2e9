package service

import (
	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

// PermissionSet is an immutable set of capability tags.
type PermissionSet map[models.Permission]struct{}

func (s PermissionSet) Has(p models.Permission) bool {
	_, ok := s[p]
	return ok
}

func newPermissionSet(perms ...models.Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Registry is the static role → permission table. It is built once and
// injected into the services that need it, so tests can substitute a
// different table. The workspace owner bypasses the registry entirely.
type Registry struct {
	roles map[models.RoleName]PermissionSet
}

func NewRegistry() *Registry {
	return &Registry{
		roles: map[models.RoleName]PermissionSet{
			models.RoleOwner: newPermissionSet(
				models.PermCreateWorkspace, models.PermDeleteWorkspace,
				models.PermManageWorkspace,
				models.PermAddMember, models.PermChangeMemberRole, models.PermRemoveMember,
				models.PermCreateProject, models.PermEditProject, models.PermDeleteProject,
				models.PermCreateTask, models.PermEditTask, models.PermDeleteTask,
				models.PermSendInvitation, models.PermViewOnly,
			),
			models.RoleAdmin: newPermissionSet(
				models.PermManageWorkspace,
				models.PermAddMember, models.PermChangeMemberRole, models.PermRemoveMember,
				models.PermCreateProject, models.PermEditProject, models.PermDeleteProject,
				models.PermCreateTask, models.PermEditTask, models.PermDeleteTask,
				models.PermSendInvitation, models.PermViewOnly,
			),
			models.RoleMember: newPermissionSet(
				models.PermCreateTask,
				models.PermSendInvitation,
				models.PermViewOnly,
			),
		},
	}
}

// Permissions looks up the permission set for a role name. An unknown
// role is a configuration fault (a member row referencing a role the
// registry does not carry), surfaced as ErrRoleNotFound.
func (r *Registry) Permissions(role models.RoleName) (PermissionSet, error) {
	set, ok := r.roles[role]
	if !ok {
		return nil, ErrRoleNotFound
	}
	return set, nil
}

// Known reports whether a role name exists in the registry. Used to
// validate user-supplied role names before they reach storage.
func (r *Registry) Known(role models.RoleName) bool {
	_, ok := r.roles[role]
	return ok
}

// Capabilities is the resolved capability set for one actor against
// one task. The booleans are computed independently and are not
// mutually exclusive.
type Capabilities struct {
	CanUpdateStatus    bool
	CanUpdateAllFields bool
	CanDelete          bool
	IsOwner            bool
	IsAssignee         bool
	IsAdminOrOwner     bool
}

// ResolveTaskCapabilities computes the capability set for an actor
// against a task. Pure: the caller fetches the workspace, task, and
// the actor's member row beforehand; a nil member means the actor has
// no membership and resolution fails with ErrNotMember.
//
// Both the full-field update path and the status-only update path are
// answered by this one function, so the two cannot drift apart.
func (r *Registry) ResolveTaskCapabilities(actorID string, workspace *repository.Workspace, task *repository.Task, member *repository.Member) (Capabilities, error) {
	if member == nil {
		return Capabilities{}, ErrNotMember
	}

	caps := Capabilities{
		IsOwner:    workspace.OwnerID == actorID,
		IsAssignee: task.AssignedTo != nil && *task.AssignedTo == actorID,
	}

	var hasEdit, hasDelete bool
	if !caps.IsOwner {
		perms, err := r.Permissions(models.RoleName(member.Role))
		if err != nil {
			return Capabilities{}, err
		}
		hasEdit = perms.Has(models.PermEditTask)
		hasDelete = perms.Has(models.PermDeleteTask)
	}

	caps.IsAdminOrOwner = caps.IsOwner || hasEdit || hasDelete
	caps.CanUpdateAllFields = caps.IsAdminOrOwner
	caps.CanDelete = caps.IsAdminOrOwner
	caps.CanUpdateStatus = caps.IsAssignee || caps.IsAdminOrOwner

	return caps, nil
}

// AllowsUpdate is the task mutation guard: given the exact set of
// fields a request changes, decide whether this capability set permits
// the update. All or nothing: a request mixing status with any other
// field is judged as a whole, never partially applied.
func (c Capabilities) AllowsUpdate(changedFields []string) bool {
	if c.CanUpdateAllFields {
		return true
	}
	statusOnly := len(changedFields) == 1 && changedFields[0] == "status"
	return statusOnly && c.CanUpdateStatus
}
