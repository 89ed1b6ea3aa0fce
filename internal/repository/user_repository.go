package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/clubhub/booking-api/internal/model"
)

// ErrUserNotFound indicates that no user matched the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepo provides the lookups the session provider needs: loading a
// user for login and resolving the organisations the user belongs to.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetByEmail loads an active user by email.  It returns ErrUserNotFound
// when the email is unknown or the account is inactive.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, email, password_hash, is_admin, is_active, created_at, updated_at
               FROM users WHERE email = ? AND is_active = 1`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// OrgIDs returns the IDs of all organisations the user is a member of.
// The result feeds the actor's membership claims when a token is issued.
func (r *UserRepo) OrgIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	const q = `SELECT org_id FROM user_orgs WHERE user_id = ? ORDER BY org_id ASC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orgs []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		orgs = append(orgs, id)
	}
	return orgs, rows.Err()
}
