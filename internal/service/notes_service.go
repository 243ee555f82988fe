package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeep/internal/domain"
	"notekeep/internal/repository"
)

// NotesService maneja notas acotadas a su dueño.
type NotesService struct {
	logger *zap.Logger
	notes  repository.NoteRepository
}

func NewNotesService(logger *zap.Logger, notes repository.NoteRepository) *NotesService {
	return &NotesService{
		logger: logger,
		notes:  notes,
	}
}

// ErrNoteNotFound cubre tambien el acceso de un no-dueño: no se confirma
// la existencia de notas ajenas.
var ErrNoteNotFound = errors.New("note not found")

func (s *NotesService) List(ctx context.Context, userID string) ([]domain.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

func (s *NotesService) Create(ctx context.Context, userID, title, content string, keywords []string) (domain.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return domain.Note{}, ErrMissingFields
	}

	note := domain.Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Keywords:  normalizeKeywords(keywords),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *NotesService) Update(ctx context.Context, userID, noteID, title, content string, keywords []string) (domain.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return domain.Note{}, ErrMissingFields
	}

	note, err := s.getOwned(ctx, userID, noteID)
	if err != nil {
		return domain.Note{}, err
	}

	note.Title = title
	note.Content = content
	if keywords != nil {
		note.Keywords = normalizeKeywords(keywords)
	}
	if err := s.notes.Update(ctx, note); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *NotesService) TogglePin(ctx context.Context, userID, noteID string) (domain.Note, error) {
	note, err := s.getOwned(ctx, userID, noteID)
	if err != nil {
		return domain.Note{}, err
	}

	note.Pinned = !note.Pinned
	if err := s.notes.SetPinned(ctx, note.ID, note.Pinned); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *NotesService) ToggleArchive(ctx context.Context, userID, noteID string) (domain.Note, error) {
	note, err := s.getOwned(ctx, userID, noteID)
	if err != nil {
		return domain.Note{}, err
	}

	note.Archived = !note.Archived
	if err := s.notes.SetArchived(ctx, note.ID, note.Archived); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (s *NotesService) Delete(ctx context.Context, userID, noteID string) error {
	note, err := s.getOwned(ctx, userID, noteID)
	if err != nil {
		return err
	}
	return s.notes.Delete(ctx, note.ID)
}

func (s *NotesService) getOwned(ctx context.Context, userID, noteID string) (domain.Note, error) {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Note{}, ErrNoteNotFound
		}
		return domain.Note{}, err
	}
	if note.UserID != userID {
		return domain.Note{}, ErrNoteNotFound
	}
	return note, nil
}

func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
