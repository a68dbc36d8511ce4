package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/LovationAdmin/fintrack-api/models"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const collaboratorColumns = `id, owner_id, owner_email, email, permissions, status,
	invitation_token, user_id, expires_at, created_at, updated_at`

// CollaboratorStore persists invitation rows in the collaborators table.
type CollaboratorStore struct {
	db *sql.DB
}

func NewCollaboratorStore(db *sql.DB) *CollaboratorStore {
	return &CollaboratorStore{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCollaborator(row rowScanner) (*models.Collaborator, error) {
	var (
		c         models.Collaborator
		status    string
		token     sql.NullString
		userID    sql.NullString
		expiresAt sql.NullTime
	)
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.OwnerEmail,
		&c.Email,
		&c.Permissions,
		&status,
		&token,
		&userID,
		&expiresAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = models.CollaboratorStatus(status)
	c.Token = token.String
	c.UserID = userID.String
	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}
	return &c, nil
}

func storeError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, op)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s: duplicate %s", ErrStore, op, pqErr.Constraint)
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// Create inserts a pending invitation; the database assigns the id.
func (s *CollaboratorStore) Create(ctx context.Context, c *models.Collaborator) error {
	query := `
		INSERT INTO collaborators (owner_id, owner_email, email, permissions, status, invitation_token, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		c.OwnerID, c.OwnerEmail, c.Email, c.Permissions, string(c.Status),
		c.Token, c.ExpiresAt, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return storeError("create invitation", err)
	}
	return nil
}

// FindByToken returns the invitation currently holding token.
func (s *CollaboratorStore) FindByToken(ctx context.Context, token string) (*models.Collaborator, error) {
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators WHERE invitation_token = $1`

	c, err := scanCollaborator(s.db.QueryRowContext(ctx, query, token))
	if err != nil {
		return nil, storeError("find invitation", err)
	}
	return c, nil
}

// Activate binds a pending invitation to userID and consumes its token. Only
// a pending row whose email matches is transitioned.
func (s *CollaboratorStore) Activate(ctx context.Context, token, userID, email string, now time.Time) (*models.Collaborator, error) {
	query := `
		UPDATE collaborators
		SET user_id = $2, status = 'active', invitation_token = NULL, updated_at = $4
		WHERE invitation_token = $1 AND status = 'pending' AND LOWER(email) = LOWER($3)
		RETURNING ` + collaboratorColumns

	c, err := scanCollaborator(s.db.QueryRowContext(ctx, query, token, userID, email, now))
	if err != nil {
		return nil, storeError("activate invitation", err)
	}
	return c, nil
}

// DeletePendingByEmail removes the owner's pending invitations for email.
func (s *CollaboratorStore) DeletePendingByEmail(ctx context.Context, email, ownerID string) (int64, error) {
	query := `DELETE FROM collaborators WHERE email = $1 AND owner_id = $2 AND status = 'pending'`

	result, err := s.db.ExecContext(ctx, query, email, ownerID)
	if err != nil {
		return 0, storeError("delete invitation", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (s *CollaboratorStore) UpdatePermissions(ctx context.Context, id, ownerID string, p models.Permissions, now time.Time) (*models.Collaborator, error) {
	query := `
		UPDATE collaborators
		SET permissions = $3, updated_at = $4
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + collaboratorColumns

	c, err := scanCollaborator(s.db.QueryRowContext(ctx, query, id, ownerID, p, now))
	if err != nil {
		return nil, storeError("update permissions", err)
	}
	return c, nil
}

func (s *CollaboratorStore) Delete(ctx context.Context, id, ownerID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM collaborators WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return storeError("remove collaborator", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: collaborator %s", ErrNotFound, id)
	}
	return nil
}

// ListByOwner returns every invitation the owner sent, newest first.
func (s *CollaboratorStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Collaborator, error) {
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators WHERE owner_id = $1 ORDER BY created_at DESC`
	return s.list(ctx, "list collaborators", query, ownerID)
}

// ListByUser returns the active collaborations userID has joined.
func (s *CollaboratorStore) ListByUser(ctx context.Context, userID string) ([]models.Collaborator, error) {
	query := `SELECT ` + collaboratorColumns + ` FROM collaborators WHERE user_id = $1 AND status = 'active' ORDER BY updated_at DESC`
	return s.list(ctx, "list shared accounts", query, userID)
}

func (s *CollaboratorStore) list(ctx context.Context, op, query, arg string) ([]models.Collaborator, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	collaborators := []models.Collaborator{}
	for rows.Next() {
		c, err := scanCollaborator(rows)
		if err != nil {
			return nil, storeError(op, err)
		}
		collaborators = append(collaborators, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return collaborators, nil
}

// PurgeExpired deletes pending invitations whose expiry has passed.
func (s *CollaboratorStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM collaborators WHERE status = 'pending' AND expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return 0, storeError("purge expired invitations", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}
