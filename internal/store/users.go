// internal/store/users.go

package store

import (
	"context"
	"database/sql"

	"opera-backend/internal/common/errors"
	"opera-backend/internal/models"
)

// UserStore persists API accounts.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByLogin looks a user up by username or email, both accepted at login.
func (s *UserStore) FindByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at
		 FROM users WHERE username = ? OR email = ?`, login, login).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "loading user failed", err)
	}
	return &u, nil
}

// GetByID returns one user.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, role, created_at
		 FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "loading user failed", err)
	}
	return &u, nil
}

// Create inserts a user. Duplicate usernames or emails surface as conflicts.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`, u.Username, u.Email).Scan(&exists)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "checking user uniqueness failed", err)
	}
	if exists > 0 {
		return errors.New(errors.ErrCodeConflict, "username or email already taken")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, role) VALUES (?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "inserting user failed", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return errors.Wrap(errors.ErrCodeDatabaseQueryFailed, "reading user id failed", err)
	}
	return nil
}
