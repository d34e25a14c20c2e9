package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Task struct {
	ID             string
	WorkspaceID    string
	ProjectID      string
	Title          string
	Description    *string
	Status         string
	Priority       string
	AssignedTo     *string
	CreatedBy      string
	DueDate        *time.Time
	EstimatedHours *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	FindByProject(ctx context.Context, projectID string) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string) error
}

type pgTaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &pgTaskRepository{pool: pool}
}

func (r *pgTaskRepository) Create(ctx context.Context, task *Task) error {
	query := `
		INSERT INTO tasks (workspace_id, project_id, title, description, status, priority, assigned_to, created_by, due_date, estimated_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		task.WorkspaceID, task.ProjectID, task.Title, task.Description,
		task.Status, task.Priority, task.AssignedTo, task.CreatedBy,
		task.DueDate, task.EstimatedHours,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *pgTaskRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	query := `
		SELECT id, workspace_id, project_id, title, description, status, priority, assigned_to, created_by, due_date, estimated_hours, created_at, updated_at
		FROM tasks WHERE id = $1
	`
	task := &Task{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&task.ID, &task.WorkspaceID, &task.ProjectID, &task.Title, &task.Description,
		&task.Status, &task.Priority, &task.AssignedTo, &task.CreatedBy,
		&task.DueDate, &task.EstimatedHours, &task.CreatedAt, &task.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *pgTaskRepository) FindByProject(ctx context.Context, projectID string) ([]*Task, error) {
	query := `
		SELECT id, workspace_id, project_id, title, description, status, priority, assigned_to, created_by, due_date, estimated_hours, created_at, updated_at
		FROM tasks WHERE project_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task := &Task{}
		if err := rows.Scan(
			&task.ID, &task.WorkspaceID, &task.ProjectID, &task.Title, &task.Description,
			&task.Status, &task.Priority, &task.AssignedTo, &task.CreatedBy,
			&task.DueDate, &task.EstimatedHours, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *pgTaskRepository) Update(ctx context.Context, task *Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4, priority = $5, assigned_to = $6, due_date = $7, estimated_hours = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.Priority,
		task.AssignedTo, task.DueDate, task.EstimatedHours,
	).Scan(&task.UpdatedAt)
}

func (r *pgTaskRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
