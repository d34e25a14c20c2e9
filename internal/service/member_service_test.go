package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teamflow-app/teamflow-backend/internal/models"
	"github.com/teamflow-app/teamflow-backend/internal/repository"
)

func TestMemberProvision(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a member row once", func(t *testing.T) {
		fx := newInvitationFixture(t)

		m, created, err := fx.members.Provision(ctx, fx.outsider.ID, fx.workspace.ID, models.RoleMember)
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, "MEMBER", m.Role)

		// Second provision is a no-op returning the existing row.
		again, created, err := fx.members.Provision(ctx, fx.outsider.ID, fx.workspace.ID, models.RoleAdmin)
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, m.ID, again.ID)
		require.Equal(t, "MEMBER", again.Role, "existing role must not be overwritten")
	})

	t.Run("concurrent provisions yield exactly one row", func(t *testing.T) {
		fx := newInvitationFixture(t)

		var wg sync.WaitGroup
		createdCount := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, created, err := fx.members.Provision(ctx, fx.outsider.ID, fx.workspace.ID, models.RoleMember)
				require.NoError(t, err)
				createdCount <- created
			}()
		}
		wg.Wait()
		close(createdCount)

		var creations int
		for created := range createdCount {
			if created {
				creations++
			}
		}
		require.Equal(t, 1, creations)

		members, err := fx.workspaces.FindMembers(ctx, fx.workspace.ID)
		require.NoError(t, err)
		// Owner, member, and exactly one row for the outsider.
		require.Len(t, members, 3)
	})
}

func TestJoinByInviteCode(t *testing.T) {
	ctx := context.Background()

	t.Run("valid code joins as MEMBER", func(t *testing.T) {
		fx := newInvitationFixture(t)

		ws, m, err := fx.members.JoinByInviteCode(ctx, fx.outsider.ID, "join-me")
		require.NoError(t, err)
		require.Equal(t, fx.workspace.ID, ws.ID)
		require.Equal(t, "MEMBER", m.Role)
	})

	t.Run("unknown code fails", func(t *testing.T) {
		fx := newInvitationFixture(t)
		_, _, err := fx.members.JoinByInviteCode(ctx, fx.outsider.ID, "bogus")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("existing member cannot join again", func(t *testing.T) {
		fx := newInvitationFixture(t)
		_, _, err := fx.members.JoinByInviteCode(ctx, fx.member.ID, "join-me")
		require.ErrorIs(t, err, ErrAlreadyMember)
	})
}

func TestListMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("members can list", func(t *testing.T) {
		fx := newInvitationFixture(t)
		members, err := fx.members.ListMembers(ctx, fx.workspace.ID, fx.member.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
	})

	t.Run("non-members cannot list", func(t *testing.T) {
		fx := newInvitationFixture(t)
		_, err := fx.members.ListMembers(ctx, fx.workspace.ID, fx.outsider.ID)
		require.ErrorIs(t, err, ErrNotMember)
	})
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()

	promote := func(t *testing.T, fx *invitationFixture, actorID, targetID string, role models.RoleName) error {
		t.Helper()
		return fx.members.ChangeRole(ctx, fx.workspace.ID, actorID, targetID, role)
	}

	t.Run("owner promotes member to admin", func(t *testing.T) {
		fx := newInvitationFixture(t)
		require.NoError(t, promote(t, fx, fx.owner.ID, fx.member.ID, models.RoleAdmin))

		m, err := fx.workspaces.FindMember(ctx, fx.workspace.ID, fx.member.ID)
		require.NoError(t, err)
		require.Equal(t, "ADMIN", m.Role)
	})

	t.Run("admin can change roles", func(t *testing.T) {
		fx := newInvitationFixture(t)
		require.NoError(t, promote(t, fx, fx.owner.ID, fx.member.ID, models.RoleAdmin))

		_, created, err := fx.members.Provision(ctx, fx.outsider.ID, fx.workspace.ID, models.RoleMember)
		require.NoError(t, err)
		require.True(t, created)

		require.NoError(t, promote(t, fx, fx.member.ID, fx.outsider.ID, models.RoleAdmin))
	})

	t.Run("plain member cannot change roles", func(t *testing.T) {
		fx := newInvitationFixture(t)
		_, _, err := fx.members.JoinByInviteCode(ctx, fx.outsider.ID, "join-me")
		require.NoError(t, err)

		err = promote(t, fx, fx.member.ID, fx.outsider.ID, models.RoleAdmin)
		require.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("owner role cannot be assigned or changed", func(t *testing.T) {
		fx := newInvitationFixture(t)

		err := promote(t, fx, fx.owner.ID, fx.member.ID, models.RoleOwner)
		require.ErrorIs(t, err, ErrBadRequest)

		err = promote(t, fx, fx.owner.ID, fx.owner.ID, models.RoleAdmin)
		require.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("unknown role fails", func(t *testing.T) {
		fx := newInvitationFixture(t)
		err := promote(t, fx, fx.owner.ID, fx.member.ID, models.RoleName("SUPERVISOR"))
		require.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("target must be a member", func(t *testing.T) {
		fx := newInvitationFixture(t)
		err := promote(t, fx, fx.owner.ID, fx.outsider.ID, models.RoleAdmin)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("actor must be a member", func(t *testing.T) {
		fx := newInvitationFixture(t)
		err := promote(t, fx, fx.outsider.ID, fx.member.ID, models.RoleAdmin)
		require.ErrorIs(t, err, ErrNotMember)
	})
}

func TestWorkspaceCreateSeedsOwnerMembership(t *testing.T) {
	ctx := context.Background()
	fx := newInvitationFixture(t)
	svc := NewWorkspaceService(fx.workspaces, fx.users)

	ws, err := svc.Create(ctx, fx.outsider.ID, "Side Project", nil)
	require.NoError(t, err)
	require.NotNil(t, ws.InviteCode)

	m, err := fx.workspaces.FindMember(ctx, ws.ID, fx.outsider.ID)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.Equal(t, string(models.RoleOwner), m.Role)

	// The owner passes membership checks without special-casing.
	_, err = svc.Get(ctx, ws.ID, fx.outsider.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, ws.ID, fx.member.ID)
	require.ErrorIs(t, err, ErrNotMember)
}

var _ repository.WorkspaceRepository = (*fakeWorkspaceRepo)(nil)
var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.InvitationRepository = (*fakeInvitationRepo)(nil)
var _ repository.ProjectRepository = (*fakeProjectRepo)(nil)
var _ repository.TaskRepository = (*fakeTaskRepo)(nil)
