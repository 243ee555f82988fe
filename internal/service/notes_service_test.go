package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeep/internal/domain"
)

type mockNoteRepo struct {
	notes map[string]domain.Note
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[string]domain.Note)}
}

func (m *mockNoteRepo) Create(_ context.Context, note domain.Note) error {
	m.notes[note.ID] = note
	return nil
}

func (m *mockNoteRepo) ListByUser(_ context.Context, userID string) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range m.notes {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNoteRepo) GetByID(_ context.Context, id string) (domain.Note, error) {
	note, ok := m.notes[id]
	if !ok {
		return domain.Note{}, pgx.ErrNoRows
	}
	return note, nil
}

func (m *mockNoteRepo) Update(_ context.Context, note domain.Note) error {
	stored, ok := m.notes[note.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Title = note.Title
	stored.Content = note.Content
	stored.Keywords = note.Keywords
	m.notes[note.ID] = stored
	return nil
}

func (m *mockNoteRepo) SetPinned(_ context.Context, id string, pinned bool) error {
	note, ok := m.notes[id]
	if !ok {
		return pgx.ErrNoRows
	}
	note.Pinned = pinned
	m.notes[id] = note
	return nil
}

func (m *mockNoteRepo) SetArchived(_ context.Context, id string, archived bool) error {
	note, ok := m.notes[id]
	if !ok {
		return pgx.ErrNoRows
	}
	note.Archived = archived
	m.notes[id] = note
	return nil
}

func (m *mockNoteRepo) Delete(_ context.Context, id string) error {
	delete(m.notes, id)
	return nil
}

func TestNotesService_CreateAndList(t *testing.T) {
	svc := NewNotesService(zap.NewNop(), newMockNoteRepo())

	note, err := svc.Create(context.Background(), "u1", "Groceries", "milk, eggs", []string{" food ", "", "home"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if note.ID == "" || note.UserID != "u1" {
		t.Fatalf("unexpected note: %+v", note)
	}
	if len(note.Keywords) != 2 || note.Keywords[0] != "food" || note.Keywords[1] != "home" {
		t.Fatalf("expected normalized keywords, got %v", note.Keywords)
	}

	notes, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}

	other, err := svc.List(context.Background(), "u2")
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no notes for other user, got %d", len(other))
	}
}

func TestNotesService_CreateValidation(t *testing.T) {
	svc := NewNotesService(zap.NewNop(), newMockNoteRepo())
	if _, err := svc.Create(context.Background(), "u1", "", "content", nil); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "u1", "title", "  ", nil); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestNotesService_NonOwnerReportsNotFound(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNotesService(zap.NewNop(), repo)

	note, err := svc.Create(context.Background(), "u1", "mine", "secret", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(context.Background(), "u2", note.ID, "theirs", "stolen", nil); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for non-owner update, got %v", err)
	}
	if err := svc.Delete(context.Background(), "u2", note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for non-owner delete, got %v", err)
	}
	if _, err := svc.TogglePin(context.Background(), "u2", note.ID); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound for non-owner pin, got %v", err)
	}

	// La nota sigue intacta para el dueño.
	stored, err := repo.GetByID(context.Background(), note.ID)
	if err != nil || stored.Title != "mine" {
		t.Fatalf("note should be untouched, got %+v (%v)", stored, err)
	}
}

func TestNotesService_UpdateUnknownNote(t *testing.T) {
	svc := NewNotesService(zap.NewNop(), newMockNoteRepo())
	if _, err := svc.Update(context.Background(), "u1", "missing", "t", "c", nil); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got %v", err)
	}
}

func TestNotesService_Toggles(t *testing.T) {
	repo := newMockNoteRepo()
	svc := NewNotesService(zap.NewNop(), repo)

	note, err := svc.Create(context.Background(), "u1", "t", "c", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	pinned, err := svc.TogglePin(context.Background(), "u1", note.ID)
	if err != nil || !pinned.Pinned {
		t.Fatalf("expected pinned note, got %+v (%v)", pinned, err)
	}
	unpinned, err := svc.TogglePin(context.Background(), "u1", note.ID)
	if err != nil || unpinned.Pinned {
		t.Fatalf("expected unpinned note, got %+v (%v)", unpinned, err)
	}

	archived, err := svc.ToggleArchive(context.Background(), "u1", note.ID)
	if err != nil || !archived.Archived {
		t.Fatalf("expected archived note, got %+v (%v)", archived, err)
	}
}

func TestNotesService_Delete(t *testing.T) {
	svc := NewNotesService(zap.NewNop(), newMockNoteRepo())

	note, err := svc.Create(context.Background(), "u1", "t", "c", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), "u1", note.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	notes, _ := svc.List(context.Background(), "u1")
	if len(notes) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(notes))
	}
}
