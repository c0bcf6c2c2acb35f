package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/frbcapl/league-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchProposalConflict = errors.New("a match for this proposal already exists")
	ErrMatchProposalInvalid  = errors.New("match proposal reference conflict or invalid")
)

type MatchRepository interface {
	// Create inserts a match and fills ID and CreatedAt. A duplicate
	// proposal_id fails with ErrMatchProposalConflict; the unique index is
	// what ultimately guarantees at-most-one match per proposal.
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error

	GetByID(ctx context.Context, id int) (*models.Match, error)

	// GetByIDForUpdate locks the match row inside the surrounding
	// transaction so completion serializes per match.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)

	GetByProposalID(ctx context.Context, proposalID int) (*models.Match, error)

	ListByDivisionAndStatus(ctx context.Context, division string, status models.MatchStatus) ([]*models.Match, error)

	ListByPlayer(ctx context.Context, playerID, division string) ([]*models.Match, error)

	// ListByDivisionAndType feeds the challenge stats aggregator.
	ListByDivisionAndType(ctx context.Context, division string, matchType models.ProposalType) ([]*models.Match, error)

	Complete(ctx context.Context, exec SQLExecutor, id int, winner, score string, notes *string, completedDate time.Time) error

	CountByDivision(ctx context.Context, division string) (models.MatchStats, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, proposal_id, player1_id, player2_id, division, type, status,
       scheduled_date, location, winner, score, completed_date, notes, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID,
		&m.ProposalID,
		&m.Player1ID,
		&m.Player2ID,
		&m.Division,
		&m.Type,
		&m.Status,
		&m.ScheduledDate,
		&m.Location,
		&m.Winner,
		&m.Score,
		&m.CompletedDate,
		&m.Notes,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(proposal_id, player1_id, player2_id, division, type, status, scheduled_date, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.ProposalID,
		match.Player1ID,
		match.Player2ID,
		match.Division,
		match.Type,
		match.Status,
		match.ScheduledDate,
		match.Location,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "matches_proposal_id_key" {
					return ErrMatchProposalConflict
				}
			case "23503": // foreign_key_violation
				return ErrMatchProposalInvalid
			}
		}
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`

	match, err := scanMatch(exec.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to lock match %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) GetByProposalID(ctx context.Context, proposalID int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE proposal_id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, proposalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match for proposal %d: %w", proposalID, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListByDivisionAndStatus(ctx context.Context, division string, status models.MatchStatus) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE division = $1 AND status = $2
		ORDER BY scheduled_date ASC, id ASC`
	return r.list(ctx, query, division, status)
}

func (r *postgresMatchRepository) ListByPlayer(ctx context.Context, playerID, division string) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE division = $1 AND (player1_id = $2 OR player2_id = $2)
		ORDER BY scheduled_date ASC, id ASC`
	return r.list(ctx, query, division, playerID)
}

func (r *postgresMatchRepository) ListByDivisionAndType(ctx context.Context, division string, matchType models.ProposalType) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE division = $1 AND type = $2
		ORDER BY scheduled_date ASC, id ASC`
	return r.list(ctx, query, division, matchType)
}

func (r *postgresMatchRepository) Complete(ctx context.Context, exec SQLExecutor, id int, winner, score string, notes *string, completedDate time.Time) error {
	query := `
		UPDATE matches
		SET status = $1, winner = $2, score = $3, notes = COALESCE($4, notes), completed_date = $5
		WHERE id = $6`

	result, err := exec.ExecContext(ctx, query,
		models.MatchStatusCompleted, winner, score, notes, completedDate, id)
	if err != nil {
		return fmt.Errorf("failed to complete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountByDivision(ctx context.Context, division string) (models.MatchStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'scheduled'),
			COUNT(*) FILTER (WHERE status = 'completed')
		FROM matches
		WHERE division = $1`

	var stats models.MatchStats
	err := r.db.QueryRowContext(ctx, query, division).Scan(&stats.Total, &stats.Scheduled, &stats.Completed)
	if err != nil {
		return models.MatchStats{}, fmt.Errorf("failed to count matches for division %s: %w", division, err)
	}
	return stats, nil
}
