package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Workspace struct {
	ID          string
	Name        string
	Description *string
	OwnerID     string
	InviteCode  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Member binds a user to a workspace with a role name. The role's
// permission set lives in the in-code registry, not in the database.
type Member struct {
	ID          string
	UserID      string
	WorkspaceID string
	Role        string
	JoinedAt    time.Time
	User        *User
}

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *Workspace) error
	FindByID(ctx context.Context, id string) (*Workspace, error)
	FindByInviteCode(ctx context.Context, code string) (*Workspace, error)
	FindByUserID(ctx context.Context, userID string) ([]*Workspace, error)

	// AddMember inserts a member row, doing nothing if one already
	// exists for (user, workspace). Reports whether a row was inserted.
	// The UNIQUE(user_id, workspace_id) constraint closes the
	// check-then-create race for concurrent provisioning.
	AddMember(ctx context.Context, member *Member) (bool, error)
	FindMember(ctx context.Context, workspaceID, userID string) (*Member, error)
	FindMembers(ctx context.Context, workspaceID string) ([]*Member, error)
	UpdateMemberRole(ctx context.Context, workspaceID, userID, role string) error
	RemoveMember(ctx context.Context, workspaceID, userID string) error
}

type pgWorkspaceRepository struct {
	pool *pgxpool.Pool
}

func NewWorkspaceRepository(pool *pgxpool.Pool) WorkspaceRepository {
	return &pgWorkspaceRepository{pool: pool}
}

func (r *pgWorkspaceRepository) Create(ctx context.Context, workspace *Workspace) error {
	query := `
		INSERT INTO workspaces (name, description, owner_id, invite_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		workspace.Name, workspace.Description, workspace.OwnerID, workspace.InviteCode,
	).Scan(&workspace.ID, &workspace.CreatedAt, &workspace.UpdatedAt)
}

func (r *pgWorkspaceRepository) FindByID(ctx context.Context, id string) (*Workspace, error) {
	query := `
		SELECT id, name, description, owner_id, invite_code, created_at, updated_at
		FROM workspaces WHERE id = $1
	`
	ws := &Workspace{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID, &ws.InviteCode,
		&ws.CreatedAt, &ws.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *pgWorkspaceRepository) FindByInviteCode(ctx context.Context, code string) (*Workspace, error) {
	query := `
		SELECT id, name, description, owner_id, invite_code, created_at, updated_at
		FROM workspaces WHERE invite_code = $1
	`
	ws := &Workspace{}
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID, &ws.InviteCode,
		&ws.CreatedAt, &ws.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (r *pgWorkspaceRepository) FindByUserID(ctx context.Context, userID string) ([]*Workspace, error) {
	query := `
		SELECT w.id, w.name, w.description, w.owner_id, w.invite_code, w.created_at, w.updated_at
		FROM workspaces w
		JOIN members m ON w.id = m.workspace_id
		WHERE m.user_id = $1
		ORDER BY w.name
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*Workspace
	for rows.Next() {
		ws := &Workspace{}
		if err := rows.Scan(
			&ws.ID, &ws.Name, &ws.Description, &ws.OwnerID, &ws.InviteCode,
			&ws.CreatedAt, &ws.UpdatedAt,
		); err != nil {
			return nil, err
		}
		workspaces = append(workspaces, ws)
	}
	return workspaces, rows.Err()
}

func (r *pgWorkspaceRepository) AddMember(ctx context.Context, member *Member) (bool, error) {
	query := `
		INSERT INTO members (user_id, workspace_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, workspace_id) DO NOTHING
		RETURNING id, joined_at
	`
	err := r.pool.QueryRow(ctx, query, member.UserID, member.WorkspaceID, member.Role).
		Scan(&member.ID, &member.JoinedAt)
	if err == pgx.ErrNoRows {
		// Conflict: a member row already exists. Not an error.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *pgWorkspaceRepository) FindMember(ctx context.Context, workspaceID, userID string) (*Member, error) {
	query := `
		SELECT id, user_id, workspace_id, role, joined_at
		FROM members WHERE workspace_id = $1 AND user_id = $2
	`
	m := &Member{}
	err := r.pool.QueryRow(ctx, query, workspaceID, userID).Scan(
		&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.JoinedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgWorkspaceRepository) FindMembers(ctx context.Context, workspaceID string) ([]*Member, error) {
	query := `
		SELECT m.id, m.user_id, m.workspace_id, m.role, m.joined_at,
		       u.id, u.email, u.name, u.profile_picture
		FROM members m
		JOIN users u ON m.user_id = u.id
		WHERE m.workspace_id = $1
		ORDER BY m.joined_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{User: &User{}}
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.JoinedAt,
			&m.User.ID, &m.User.Email, &m.User.Name, &m.User.ProfilePicture,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgWorkspaceRepository) UpdateMemberRole(ctx context.Context, workspaceID, userID, role string) error {
	query := `UPDATE members SET role = $3 WHERE workspace_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, workspaceID, userID, role)
	return err
}

func (r *pgWorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	query := `DELETE FROM members WHERE workspace_id = $1 AND user_id = $2`
	_, err := r.pool.Exec(ctx, query, workspaceID, userID)
	return err
}
