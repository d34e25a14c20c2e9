package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Invitation struct {
	ID           string
	WorkspaceID  string
	InviterID    string
	InviteeEmail string
	InviteeID    *string
	Status       string // pending, accepted, declined
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired is the derived, read-time expiry predicate. Expiry is never
// written back as a status: a row can be pending and expired at once.
func (i *Invitation) IsExpired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *Invitation) error
	FindByID(ctx context.Context, id string) (*Invitation, error)
	FindPendingByEmail(ctx context.Context, email string) ([]*Invitation, error)
	FindPendingByWorkspace(ctx context.Context, workspaceID string) ([]*Invitation, error)
	FindPendingByWorkspaceAndEmail(ctx context.Context, workspaceID, email string) (*Invitation, error)

	// MarkResponded transitions pending → status as a conditional
	// write: it succeeds only if the stored status is still pending.
	// Reports whether the row was transitioned, so that of two
	// concurrent responders exactly one wins.
	MarkResponded(ctx context.Context, id, status string) (bool, error)

	DeleteExpired(ctx context.Context) (int, error)
}

type pgInvitationRepository struct {
	pool *pgxpool.Pool
}

func NewInvitationRepository(pool *pgxpool.Pool) InvitationRepository {
	return &pgInvitationRepository{pool: pool}
}

func (r *pgInvitationRepository) Create(ctx context.Context, invitation *Invitation) error {
	query := `
		INSERT INTO invitations (workspace_id, inviter_id, invitee_email, invitee_id, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		invitation.WorkspaceID, invitation.InviterID, invitation.InviteeEmail,
		invitation.InviteeID, invitation.Status, invitation.ExpiresAt,
	).Scan(&invitation.ID, &invitation.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

func (r *pgInvitationRepository) FindByID(ctx context.Context, id string) (*Invitation, error) {
	query := `
		SELECT id, workspace_id, inviter_id, invitee_email, invitee_id, status, created_at, expires_at
		FROM invitations WHERE id = $1
	`
	invitation := &Invitation{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&invitation.ID, &invitation.WorkspaceID, &invitation.InviterID,
		&invitation.InviteeEmail, &invitation.InviteeID, &invitation.Status,
		&invitation.CreatedAt, &invitation.ExpiresAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func (r *pgInvitationRepository) FindPendingByEmail(ctx context.Context, email string) ([]*Invitation, error) {
	query := `
		SELECT id, workspace_id, inviter_id, invitee_email, invitee_id, status, created_at, expires_at
		FROM invitations
		WHERE invitee_email = LOWER($1) AND status = 'pending'
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, email)
}

func (r *pgInvitationRepository) FindPendingByWorkspace(ctx context.Context, workspaceID string) ([]*Invitation, error) {
	query := `
		SELECT id, workspace_id, inviter_id, invitee_email, invitee_id, status, created_at, expires_at
		FROM invitations
		WHERE workspace_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, workspaceID)
}

func (r *pgInvitationRepository) FindPendingByWorkspaceAndEmail(ctx context.Context, workspaceID, email string) (*Invitation, error) {
	query := `
		SELECT id, workspace_id, inviter_id, invitee_email, invitee_id, status, created_at, expires_at
		FROM invitations
		WHERE workspace_id = $1 AND invitee_email = LOWER($2) AND status = 'pending'
	`
	invitation := &Invitation{}
	err := r.pool.QueryRow(ctx, query, workspaceID, email).Scan(
		&invitation.ID, &invitation.WorkspaceID, &invitation.InviterID,
		&invitation.InviteeEmail, &invitation.InviteeID, &invitation.Status,
		&invitation.CreatedAt, &invitation.ExpiresAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

func (r *pgInvitationRepository) MarkResponded(ctx context.Context, id, status string) (bool, error) {
	query := `UPDATE invitations SET status = $2 WHERE id = $1 AND status = 'pending'`
	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r *pgInvitationRepository) DeleteExpired(ctx context.Context) (int, error) {
	query := `DELETE FROM invitations WHERE expires_at < NOW() AND status = 'pending'`
	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func (r *pgInvitationRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*Invitation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invitations []*Invitation
	for rows.Next() {
		invitation := &Invitation{}
		if err := rows.Scan(
			&invitation.ID, &invitation.WorkspaceID, &invitation.InviterID,
			&invitation.InviteeEmail, &invitation.InviteeID, &invitation.Status,
			&invitation.CreatedAt, &invitation.ExpiresAt,
		); err != nil {
			return nil, err
		}
		invitations = append(invitations, invitation)
	}
	return invitations, rows.Err()
}
