package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrInvalidCredentials indicates a login failure.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Constant-cost fallback so unknown usernames pay for a bcrypt compare too.
var dummyPasswordHash = []byte("$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC")

// Store provides persistence backed by Postgres. Phase updates are
// compare-and-swap: they only apply while the row still holds the phase the
// caller observed, so concurrent transitions race safely and the loser
// surfaces workflow.ErrConflict.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
