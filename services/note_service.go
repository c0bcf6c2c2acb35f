package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frbcapl/league-system/models"
	"github.com/frbcapl/league-system/repositories"
)

type NoteService interface {
	CreateNote(ctx context.Context, text, author string) (*models.Note, error)
	ListNotes(ctx context.Context) ([]*models.Note, error)
	DeleteNote(ctx context.Context, id int) error
}

type noteService struct {
	noteRepo repositories.NoteRepository
}

func NewNoteService(noteRepo repositories.NoteRepository) NoteService {
	return &noteService{noteRepo: noteRepo}
}

func (s *noteService) CreateNote(ctx context.Context, text, author string) (*models.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrNoteTextRequired
	}

	note := &models.Note{Text: text, Author: author}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return note, nil
}

func (s *noteService) ListNotes(ctx context.Context) ([]*models.Note, error) {
	notes, err := s.noteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (s *noteService) DeleteNote(ctx context.Context, id int) error {
	if err := s.noteRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note %d: %w", id, err)
	}
	return nil
}
