package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"stagedoor/internal/workflow"
)

var festivalRowColumns = []string{
	"id", "name", "description", "venue", "start_date", "end_date",
	"phase", "created_at", "updated_at", "organizers",
}

func festivalRow(phase workflow.FestivalPhase) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(festivalRowColumns).
		AddRow(int64(1), "Riverside Sounds", "", "Main Hall", now, now, string(phase), now, now, "{10}")
}

func TestCreateFestivalDuplicateName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO festivals").
		WithArgs("Riverside Sounds", "", "", sqlmock.AnyArg(), sqlmock.AnyArg(), "CREATED").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})
	mock.ExpectRollback()

	_, err = s.CreateFestival(context.Background(), &workflow.Festival{Name: "Riverside Sounds"}, 10)
	if !errors.Is(err, workflow.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAdvanceFestivalPhaseSwap(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec("UPDATE festivals").
		WithArgs(int64(1), "CREATED", "SUBMISSION").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT (.+) FROM festivals").
		WithArgs(int64(1)).
		WillReturnRows(festivalRow(workflow.FestivalSubmission))

	f, err := s.AdvanceFestivalPhase(context.Background(), 1, workflow.FestivalCreated, workflow.FestivalSubmission)
	if err != nil {
		t.Fatalf("AdvanceFestivalPhase: %v", err)
	}
	if f.Phase != workflow.FestivalSubmission {
		t.Fatalf("phase = %s, want SUBMISSION", f.Phase)
	}
	if len(f.Organizers) != 1 || f.Organizers[0] != 10 {
		t.Fatalf("organizers = %v", f.Organizers)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAdvanceFestivalPhaseLostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	// The swap misses because another writer already advanced the phase;
	// the entity still exists, so this is a conflict instead of not-found.
	mock.ExpectExec("UPDATE festivals").
		WithArgs(int64(1), "CREATED", "SUBMISSION").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM festivals").
		WithArgs(int64(1)).
		WillReturnRows(festivalRow(workflow.FestivalSubmission))

	_, err = s.AdvanceFestivalPhase(context.Background(), 1, workflow.FestivalCreated, workflow.FestivalSubmission)
	if !errors.Is(err, workflow.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAdvanceFestivalPhaseNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	s := New(db)

	mock.ExpectExec("UPDATE festivals").
		WithArgs(int64(7), "CREATED", "SUBMISSION").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM festivals").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(festivalRowColumns))

	_, err = s.AdvanceFestivalPhase(context.Background(), 7, workflow.FestivalCreated, workflow.FestivalSubmission)
	if !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
