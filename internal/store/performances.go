package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"stagedoor/internal/workflow"
)

const performanceColumns = `id, festival_id, name, description, genre, duration_minutes,
	band_members, creator_id, staff_id, review_score, review_comments,
	setlist, preferred_rehearsal_slots, preferred_performance_slots,
	phase, created_at, updated_at`

// CreatePerformance inserts a performance in phase CREATED. A duplicate name
// within the same festival surfaces workflow.ErrConflict; an unknown
// festival surfaces workflow.ErrNotFound.
func (s *Store) CreatePerformance(ctx context.Context, p *workflow.Performance) (*workflow.Performance, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO performances (festival_id, name, description, genre, duration_minutes, band_members, creator_id, phase)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+performanceColumns+`
	`, p.FestivalID, p.Name, p.Description, p.Genre, p.Duration,
		pq.Array(p.BandMembers), p.CreatorID, string(workflow.PerformanceCreated))

	created, err := scanPerformance(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("performance name %q in festival %d: %w", p.Name, p.FestivalID, workflow.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("festival %d: %w", p.FestivalID, workflow.ErrNotFound)
		}
		return nil, fmt.Errorf("insert performance: %w", err)
	}
	return created, nil
}

// GetPerformance retrieves a performance by id.
func (s *Store) GetPerformance(ctx context.Context, id int64) (*workflow.Performance, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+performanceColumns+`
		FROM performances
		WHERE id = $1
	`, id)
	p, err := scanPerformance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("performance %d: %w", id, workflow.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// ListPerformancesByFestival returns a festival's performances.
func (s *Store) ListPerformancesByFestival(ctx context.Context, festivalID int64) ([]*workflow.Performance, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+performanceColumns+`
		FROM performances
		WHERE festival_id = $1
		ORDER BY id ASC
	`, festivalID)
	if err != nil {
		return nil, fmt.Errorf("select performances: %w", err)
	}
	defer rows.Close()

	var performances []*workflow.Performance
	for rows.Next() {
		p, err := scanPerformance(rows)
		if err != nil {
			return nil, err
		}
		performances = append(performances, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate performances: %w", err)
	}
	return performances, nil
}

// AdvancePerformancePhase moves a performance phase as a compare-and-swap.
func (s *Store) AdvancePerformancePhase(ctx context.Context, id int64, from, to workflow.PerformancePhase) (*workflow.Performance, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE performances
		SET phase = $3, updated_at = NOW()
		WHERE id = $1 AND phase = $2
	`, id, string(from), string(to))
	if err != nil {
		return nil, fmt.Errorf("update performance phase: %w", err)
	}
	return s.afterSwap(ctx, id, res)
}

// ReviewPerformance records the staff review and advances the phase in one
// compare-and-swap.
func (s *Store) ReviewPerformance(ctx context.Context, id int64, from, to workflow.PerformancePhase, review workflow.Review) (*workflow.Performance, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE performances
		SET phase = $3, review_score = $4, review_comments = $5, updated_at = NOW()
		WHERE id = $1 AND phase = $2
	`, id, string(from), string(to), review.Score, review.Comments)
	if err != nil {
		return nil, fmt.Errorf("update performance review: %w", err)
	}
	return s.afterSwap(ctx, id, res)
}

// FinalizePerformance records the final-submission fields and advances the
// phase in one compare-and-swap.
func (s *Store) FinalizePerformance(ctx context.Context, id int64, from, to workflow.PerformancePhase, final workflow.FinalSubmission) (*workflow.Performance, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE performances
		SET phase = $3, setlist = $4, preferred_rehearsal_slots = $5,
		    preferred_performance_slots = $6, updated_at = NOW()
		WHERE id = $1 AND phase = $2
	`, id, string(from), string(to),
		pq.Array(final.Setlist), pq.Array(final.PreferredRehearsalSlots), pq.Array(final.PreferredPerformanceSlots))
	if err != nil {
		return nil, fmt.Errorf("finalize performance: %w", err)
	}
	return s.afterSwap(ctx, id, res)
}

// AssignPerformanceStaff sets the reviewer. Phase is untouched.
func (s *Store) AssignPerformanceStaff(ctx context.Context, id, staffID int64) (*workflow.Performance, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE performances
		SET staff_id = $2, updated_at = NOW()
		WHERE id = $1
	`, id, staffID)
	if err != nil {
		return nil, fmt.Errorf("assign staff: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("assign staff: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("performance %d: %w", id, workflow.ErrNotFound)
	}
	return s.GetPerformance(ctx, id)
}

// UpdatePerformance applies creator edits to the mutable fields. Phase is
// untouched.
func (s *Store) UpdatePerformance(ctx context.Context, id int64, p *workflow.Performance) (*workflow.Performance, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE performances
		SET name = $2, description = $3, genre = $4, duration_minutes = $5,
		    band_members = $6, updated_at = NOW()
		WHERE id = $1
	`, id, p.Name, p.Description, p.Genre, p.Duration, pq.Array(p.BandMembers))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("performance name %q: %w", p.Name, workflow.ErrConflict)
		}
		return nil, fmt.Errorf("update performance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update performance: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("performance %d: %w", id, workflow.ErrNotFound)
	}
	return s.GetPerformance(ctx, id)
}

// DeletePerformance removes a performance, guarded against a concurrent
// phase change: the delete only applies while the row still holds the phase
// the caller validated.
func (s *Store) DeletePerformance(ctx context.Context, id int64, expected workflow.PerformancePhase) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM performances
		WHERE id = $1 AND phase = $2
	`, id, string(expected))
	if err != nil {
		return fmt.Errorf("delete performance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete performance: %w", err)
	}
	if affected == 0 {
		if _, getErr := s.GetPerformance(ctx, id); getErr != nil {
			return getErr
		}
		return fmt.Errorf("performance %d phase changed concurrently: %w", id, workflow.ErrConflict)
	}
	return nil
}

func (s *Store) afterSwap(ctx context.Context, id int64, res sql.Result) (*workflow.Performance, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		if _, getErr := s.GetPerformance(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("performance %d phase changed concurrently: %w", id, workflow.ErrConflict)
	}
	return s.GetPerformance(ctx, id)
}

func scanPerformance(row rowScanner) (*workflow.Performance, error) {
	var (
		p           workflow.Performance
		phaseText   string
		bandMembers pq.StringArray
		setlist     pq.StringArray
		rehearsal   pq.StringArray
		performance pq.StringArray
		staffID     sql.NullInt64
		score       sql.NullInt64
		comments    sql.NullString
	)
	err := row.Scan(
		&p.ID, &p.FestivalID, &p.Name, &p.Description, &p.Genre, &p.Duration,
		&bandMembers, &p.CreatorID, &staffID, &score, &comments,
		&setlist, &rehearsal, &performance,
		&phaseText, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.BandMembers = bandMembers
	p.Setlist = setlist
	p.PreferredRehearsalSlots = rehearsal
	p.PreferredPerformanceSlots = performance
	p.Phase = workflow.PerformancePhase(phaseText)
	if staffID.Valid {
		id := staffID.Int64
		p.StaffID = &id
	}
	if score.Valid && comments.Valid {
		p.Review = &workflow.Review{Score: int(score.Int64), Comments: comments.String}
	}
	return &p, nil
}
