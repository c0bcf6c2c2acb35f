package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frbcapl/league-system/models"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	List(ctx context.Context) ([]*models.Note, error)
	Delete(ctx context.Context, id int) error
}

type postgresNoteRepository struct {
	db *sql.DB
}

func NewPostgresNoteRepository(db *sql.DB) NoteRepository {
	return &postgresNoteRepository{db: db}
}

func (r *postgresNoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (text, author)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, note.Text, note.Author).Scan(&note.ID, &note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

func (r *postgresNoteRepository) List(ctx context.Context) ([]*models.Note, error) {
	query := `SELECT id, text, author, created_at FROM notes ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		var n models.Note
		if scanErr := rows.Scan(&n.ID, &n.Text, &n.Author, &n.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", scanErr)
		}
		notes = append(notes, &n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during note rows iteration: %w", err)
	}
	return notes, nil
}

func (r *postgresNoteRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrNoteNotFound)
}
