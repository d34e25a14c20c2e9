package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Project struct {
	ID          string
	WorkspaceID string
	Name        string
	Emoji       *string
	Description *string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindByWorkspace(ctx context.Context, workspaceID string) ([]*Project, error)
	Delete(ctx context.Context, id string) error
}

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgProjectRepository{pool: pool}
}

func (r *pgProjectRepository) Create(ctx context.Context, project *Project) error {
	query := `
		INSERT INTO projects (workspace_id, name, emoji, description, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		project.WorkspaceID, project.Name, project.Emoji, project.Description, project.CreatedBy,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := `
		SELECT id, workspace_id, name, emoji, description, created_by, created_at, updated_at
		FROM projects WHERE id = $1
	`
	project := &Project{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID, &project.WorkspaceID, &project.Name, &project.Emoji,
		&project.Description, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *pgProjectRepository) FindByWorkspace(ctx context.Context, workspaceID string) ([]*Project, error) {
	query := `
		SELECT id, workspace_id, name, emoji, description, created_by, created_at, updated_at
		FROM projects WHERE workspace_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(
			&project.ID, &project.WorkspaceID, &project.Name, &project.Emoji,
			&project.Description, &project.CreatedBy, &project.CreatedAt, &project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *pgProjectRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
