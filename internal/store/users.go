package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"stagedoor/internal/workflow"
)

const userColumns = `id, username, role, status, created_at, updated_at`

// CreateUser registers a new account with the given role.
func (s *Store) CreateUser(ctx context.Context, username, password string, role workflow.Role) (*workflow.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", workflow.ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", workflow.ErrValidation, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var u workflow.User
	var roleText, statusText string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns+`
	`, username, hash, string(role), string(workflow.AccountActive)).Scan(
		&u.ID, &u.Username, &roleText, &statusText, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("username %q: %w", username, workflow.ErrConflict)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u.Role = workflow.Role(roleText)
	u.Status = workflow.AccountStatus(statusText)
	return &u, nil
}

// Authenticate validates credentials and returns the matching user.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*workflow.User, error) {
	var (
		u          workflow.User
		roleText   string
		statusText string
		hash       []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`, password_hash
		FROM users
		WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &roleText, &statusText, &u.CreatedAt, &u.UpdatedAt, &hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	u.Role = workflow.Role(roleText)
	u.Status = workflow.AccountStatus(statusText)
	return &u, nil
}

// GetUser retrieves an account by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*workflow.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

// GetUserByUsername retrieves an account by its unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*workflow.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username))
}

// SetUserStatus updates an account's active/inactive flag.
func (s *Store) SetUserStatus(ctx context.Context, id int64, status workflow.AccountStatus) (*workflow.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		UPDATE users
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, string(status)))
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM users
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %d: %w", id, workflow.ErrNotFound)
	}
	return nil
}

func (s *Store) scanUser(row *sql.Row) (*workflow.User, error) {
	var (
		u          workflow.User
		roleText   string
		statusText string
	)
	err := row.Scan(&u.ID, &u.Username, &roleText, &statusText, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = workflow.Role(roleText)
	u.Status = workflow.AccountStatus(statusText)
	return &u, nil
}
