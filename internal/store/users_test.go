package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"stagedoor/internal/workflow"
)

func TestCreateUserDuplicateUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err = s.CreateUser(context.Background(), "dana", "secret", workflow.RoleUser)
	if !errors.Is(err, workflow.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	tests := []struct {
		name     string
		username string
		password string
		role     workflow.Role
	}{
		{"blank username", "  ", "secret", workflow.RoleUser},
		{"blank password", "dana", "", workflow.RoleUser},
		{"unknown role", "dana", "secret", workflow.Role("WIZARD")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateUser(context.Background(), tt.username, tt.password, tt.role)
			if !errors.Is(err, workflow.ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("dana").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "status", "created_at", "updated_at", "password_hash"}).
			AddRow(int64(1), "dana", "USER", "ACTIVE", now, now, hash))

	u, err := s.Authenticate(context.Background(), "dana", "secret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if u.Username != "dana" || u.Role != workflow.RoleUser {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "status", "created_at", "updated_at", "password_hash"}))

	_, err = s.Authenticate(context.Background(), "nobody", "secret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("dana").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "role", "status", "created_at", "updated_at", "password_hash"}).
			AddRow(int64(1), "dana", "USER", "ACTIVE", now, now, hash))

	_, err = s.Authenticate(context.Background(), "dana", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteUser(context.Background(), 404); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
