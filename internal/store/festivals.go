package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"stagedoor/internal/workflow"
)

const festivalColumns = `f.id, f.name, f.description, f.venue, f.start_date, f.end_date, f.phase, f.created_at, f.updated_at`

// CreateFestival inserts a festival in phase CREATED with the creator as its
// first organizer. A duplicate name surfaces workflow.ErrConflict.
func (s *Store) CreateFestival(ctx context.Context, f *workflow.Festival, creatorID int64) (*workflow.Festival, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	created := *f
	created.Phase = workflow.FestivalCreated
	err = tx.QueryRowContext(ctx, `
		INSERT INTO festivals (name, description, venue, start_date, end_date, phase)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, f.Name, f.Description, f.Venue, f.StartDate, f.EndDate, string(created.Phase)).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("festival name %q: %w", f.Name, workflow.ErrConflict)
		}
		return nil, fmt.Errorf("insert festival: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO festival_organizers (festival_id, user_id)
		VALUES ($1, $2)
	`, created.ID, creatorID); err != nil {
		return nil, fmt.Errorf("insert organizer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	created.Organizers = []int64{creatorID}
	return &created, nil
}

// GetFestival retrieves a festival with its organizer set.
func (s *Store) GetFestival(ctx context.Context, id int64) (*workflow.Festival, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+festivalColumns+`,
		       COALESCE(array_agg(o.user_id) FILTER (WHERE o.user_id IS NOT NULL), '{}')
		FROM festivals f
		LEFT JOIN festival_organizers o ON o.festival_id = f.id
		WHERE f.id = $1
		GROUP BY f.id
	`, id)
	f, err := scanFestival(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("festival %d: %w", id, workflow.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// ListFestivals returns every festival with organizer sets.
func (s *Store) ListFestivals(ctx context.Context) ([]*workflow.Festival, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+festivalColumns+`,
		       COALESCE(array_agg(o.user_id) FILTER (WHERE o.user_id IS NOT NULL), '{}')
		FROM festivals f
		LEFT JOIN festival_organizers o ON o.festival_id = f.id
		GROUP BY f.id
		ORDER BY f.start_date ASC, f.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select festivals: %w", err)
	}
	defer rows.Close()

	var festivals []*workflow.Festival
	for rows.Next() {
		f, err := scanFestival(rows)
		if err != nil {
			return nil, err
		}
		festivals = append(festivals, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate festivals: %w", err)
	}
	return festivals, nil
}

// AddFestivalOrganizer appends a user to the festival's organizer set.
func (s *Store) AddFestivalOrganizer(ctx context.Context, festivalID, userID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO festival_organizers (festival_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (festival_id, user_id) DO NOTHING
	`, festivalID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("festival or user: %w", workflow.ErrNotFound)
		}
		return fmt.Errorf("insert organizer: %w", err)
	}
	return nil
}

// AdvanceFestivalPhase moves the festival from one phase to the next as a
// compare-and-swap. A concurrent writer that already advanced the phase
// makes the swap miss, which surfaces workflow.ErrConflict.
func (s *Store) AdvanceFestivalPhase(ctx context.Context, id int64, from, to workflow.FestivalPhase) (*workflow.Festival, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE festivals
		SET phase = $3, updated_at = NOW()
		WHERE id = $1 AND phase = $2
	`, id, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("update festival phase: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update festival phase: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or another writer won the race.
		if _, getErr := s.GetFestival(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("festival %d phase changed concurrently: %w", id, workflow.ErrConflict)
	}
	return s.GetFestival(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFestival(row rowScanner) (*workflow.Festival, error) {
	var (
		f          workflow.Festival
		phaseText  string
		organizers pq.Int64Array
	)
	err := row.Scan(
		&f.ID, &f.Name, &f.Description, &f.Venue, &f.StartDate, &f.EndDate,
		&phaseText, &f.CreatedAt, &f.UpdatedAt, &organizers,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan festival: %w", err)
	}
	f.Phase = workflow.FestivalPhase(phaseText)
	f.Organizers = organizers
	return &f, nil
}
