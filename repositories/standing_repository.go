package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frbcapl/league-system/models"
)

var ErrStandingNotFound = errors.New("standing not found")

type StandingRepository interface {
	// ListByDivision returns the division ladder in rank order.
	ListByDivision(ctx context.Context, division string) ([]*models.Standing, error)

	GetByDivisionAndPlayer(ctx context.Context, division, playerName string) (*models.Standing, error)

	// ReplaceDivision swaps out every row of a division. Callers run it
	// inside a transaction so readers never observe a half-imported ladder.
	ReplaceDivision(ctx context.Context, exec SQLExecutor, division string, standings []*models.Standing) error
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

func (r *postgresStandingRepository) ListByDivision(ctx context.Context, division string) ([]*models.Standing, error) {
	query := `
		SELECT id, division, player_name, rank, wins, losses, updated_at
		FROM standings
		WHERE division = $1
		ORDER BY rank ASC`

	rows, err := r.db.QueryContext(ctx, query, division)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for division %s: %w", division, err)
	}
	defer rows.Close()

	standings := make([]*models.Standing, 0)
	for rows.Next() {
		var s models.Standing
		if scanErr := rows.Scan(&s.ID, &s.Division, &s.PlayerName, &s.Rank, &s.Wins, &s.Losses, &s.UpdatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", scanErr)
		}
		standings = append(standings, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}

func (r *postgresStandingRepository) GetByDivisionAndPlayer(ctx context.Context, division, playerName string) (*models.Standing, error) {
	query := `
		SELECT id, division, player_name, rank, wins, losses, updated_at
		FROM standings
		WHERE division = $1 AND player_name = $2`

	var s models.Standing
	err := r.db.QueryRowContext(ctx, query, division, playerName).
		Scan(&s.ID, &s.Division, &s.PlayerName, &s.Rank, &s.Wins, &s.Losses, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStandingNotFound
		}
		return nil, fmt.Errorf("failed to scan standing for %s in %s: %w", playerName, division, err)
	}
	return &s, nil
}

func (r *postgresStandingRepository) ReplaceDivision(ctx context.Context, exec SQLExecutor, division string, standings []*models.Standing) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM standings WHERE division = $1`, division); err != nil {
		return fmt.Errorf("failed to clear standings for division %s: %w", division, err)
	}

	query := `
		INSERT INTO standings (division, player_name, rank, wins, losses)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, updated_at`

	for _, s := range standings {
		s.Division = division
		err := exec.QueryRowContext(ctx, query, division, s.PlayerName, s.Rank, s.Wins, s.Losses).
			Scan(&s.ID, &s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert standing for %s: %w", s.PlayerName, err)
		}
	}
	return nil
}
