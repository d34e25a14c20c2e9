package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateKey is returned when an insert trips a uniqueness
// constraint. Services translate it into their own error kinds (e.g. a
// duplicate pending invitation).
var ErrDuplicateKey = errors.New("duplicate key")

// isUniqueViolation reports whether err is a Postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Repositories aggregates all repository implementations.
type Repositories struct {
	UserRepo       UserRepository
	WorkspaceRepo  WorkspaceRepository
	InvitationRepo InvitationRepository
	ProjectRepo    ProjectRepository
	TaskRepo       TaskRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepo:       NewUserRepository(pool),
		WorkspaceRepo:  NewWorkspaceRepository(pool),
		InvitationRepo: NewInvitationRepository(pool),
		ProjectRepo:    NewProjectRepository(pool),
		TaskRepo:       NewTaskRepository(pool),
	}
}
