package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/teamflow-app/teamflow-backend/internal/config"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: 24,
	}
}

// In-memory repository fakes. They honor the same contracts as the
// Postgres implementations: nil for missing rows, ErrDuplicateKey for
// uniqueness violations, and a conditional pending-only transition for
// invitations.

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*repository.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*repository.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *repository.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(user.Email) {
			return repository.ErrDuplicateKey
		}
	}
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.Email = strings.ToLower(user.Email)
	user.IsActive = true
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) SearchActiveByEmail(ctx context.Context, query string, limit int) ([]*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.User
	for _, u := range f.users {
		if u.IsActive && strings.Contains(u.Email, query) {
			out = append(out, u)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[userID]; ok {
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

type fakeWorkspaceRepo struct {
	mu         sync.Mutex
	seq        int
	workspaces map[string]*repository.Workspace
	members    map[string]*repository.Member // keyed workspaceID|userID
}

func newFakeWorkspaceRepo() *fakeWorkspaceRepo {
	return &fakeWorkspaceRepo{
		workspaces: make(map[string]*repository.Workspace),
		members:    make(map[string]*repository.Member),
	}
}

func memberKey(workspaceID, userID string) string {
	return workspaceID + "|" + userID
}

func (f *fakeWorkspaceRepo) Create(ctx context.Context, workspace *repository.Workspace) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	workspace.ID = fmt.Sprintf("ws-%d", f.seq)
	workspace.CreatedAt = time.Now()
	f.workspaces[workspace.ID] = workspace
	return nil
}

func (f *fakeWorkspaceRepo) FindByID(ctx context.Context, id string) (*repository.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workspaces[id], nil
}

func (f *fakeWorkspaceRepo) FindByInviteCode(ctx context.Context, code string) (*repository.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ws := range f.workspaces {
		if ws.InviteCode != nil && *ws.InviteCode == code {
			return ws, nil
		}
	}
	return nil, nil
}

func (f *fakeWorkspaceRepo) FindByUserID(ctx context.Context, userID string) ([]*repository.Workspace, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.Workspace
	for _, m := range f.members {
		if m.UserID == userID {
			if ws, ok := f.workspaces[m.WorkspaceID]; ok {
				out = append(out, ws)
			}
		}
	}
	return out, nil
}

func (f *fakeWorkspaceRepo) AddMember(ctx context.Context, member *repository.Member) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := memberKey(member.WorkspaceID, member.UserID)
	if _, exists := f.members[key]; exists {
		return false, nil
	}
	f.seq++
	member.ID = fmt.Sprintf("member-%d", f.seq)
	member.JoinedAt = time.Now()
	f.members[key] = member
	return true, nil
}

func (f *fakeWorkspaceRepo) FindMember(ctx context.Context, workspaceID, userID string) (*repository.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.members[memberKey(workspaceID, userID)], nil
}

func (f *fakeWorkspaceRepo) FindMembers(ctx context.Context, workspaceID string) ([]*repository.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.Member
	for _, m := range f.members {
		if m.WorkspaceID == workspaceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeWorkspaceRepo) UpdateMemberRole(ctx context.Context, workspaceID, userID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.members[memberKey(workspaceID, userID)]; ok {
		m.Role = role
	}
	return nil
}

func (f *fakeWorkspaceRepo) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.members, memberKey(workspaceID, userID))
	return nil
}

type fakeInvitationRepo struct {
	mu          sync.Mutex
	seq         int
	invitations map[string]*repository.Invitation
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: make(map[string]*repository.Invitation)}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, invitation *repository.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Mirror of the partial unique index: one pending invitation per
	// (workspace, email).
	for _, inv := range f.invitations {
		if inv.WorkspaceID == invitation.WorkspaceID &&
			inv.InviteeEmail == invitation.InviteeEmail &&
			inv.Status == "pending" {
			return repository.ErrDuplicateKey
		}
	}
	f.seq++
	invitation.ID = fmt.Sprintf("inv-%d", f.seq)
	invitation.CreatedAt = time.Now()
	f.invitations[invitation.ID] = invitation
	return nil
}

func (f *fakeInvitationRepo) FindByID(ctx context.Context, id string) (*repository.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invitations[id], nil
}

func (f *fakeInvitationRepo) FindPendingByEmail(ctx context.Context, email string) ([]*repository.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.Invitation
	for _, inv := range f.invitations {
		if inv.InviteeEmail == email && inv.Status == "pending" {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) FindPendingByWorkspace(ctx context.Context, workspaceID string) ([]*repository.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.Invitation
	for _, inv := range f.invitations {
		if inv.WorkspaceID == workspaceID && inv.Status == "pending" {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) FindPendingByWorkspaceAndEmail(ctx context.Context, workspaceID, email string) (*repository.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, inv := range f.invitations {
		if inv.WorkspaceID == workspaceID && inv.InviteeEmail == email && inv.Status == "pending" {
			return inv, nil
		}
	}
	return nil, nil
}

func (f *fakeInvitationRepo) MarkResponded(ctx context.Context, id, status string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invitations[id]
	if !ok || inv.Status != "pending" {
		return false, nil
	}
	inv.Status = status
	return true, nil
}

func (f *fakeInvitationRepo) DeleteExpired(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	deleted := 0
	for id, inv := range f.invitations {
		if inv.Status == "pending" && inv.IsExpired(now) {
			delete(f.invitations, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	seq      int
	projects map[string]*repository.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*repository.Project)}
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *repository.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	project.ID = fmt.Sprintf("proj-%d", f.seq)
	project.CreatedAt = time.Now()
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) FindByID(ctx context.Context, id string) (*repository.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects[id], nil
}

func (f *fakeProjectRepo) FindByWorkspace(ctx context.Context, workspaceID string) ([]*repository.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.Project
	for _, p := range f.projects {
		if p.WorkspaceID == workspaceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.projects, id)
	return nil
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]*repository.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*repository.Task)}
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *repository.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	task.ID = fmt.Sprintf("task-%d", f.seq)
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) FindByID(ctx context.Context, id string) (*repository.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[id], nil
}

func (f *fakeTaskRepo) FindByProject(ctx context.Context, projectID string) ([]*repository.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*repository.Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *repository.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.UpdatedAt = time.Now()
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks, id)
	return nil
}
