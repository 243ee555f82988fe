package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"notekeep/internal/domain"
)

// NoteRepository define el contrato de persistencia para notas.
type NoteRepository interface {
	Create(ctx context.Context, note domain.Note) error
	ListByUser(ctx context.Context, userID string) ([]domain.Note, error)
	GetByID(ctx context.Context, id string) (domain.Note, error)
	Update(ctx context.Context, note domain.Note) error
	SetPinned(ctx context.Context, id string, pinned bool) error
	SetArchived(ctx context.Context, id string, archived bool) error
	Delete(ctx context.Context, id string) error
}

// PgNoteRepository implementa NoteRepository usando pgxpool.
type PgNoteRepository struct {
	pool *pgxpool.Pool
}

func NewPgNoteRepository(pool *pgxpool.Pool) *PgNoteRepository {
	return &PgNoteRepository{pool: pool}
}

func (r *PgNoteRepository) Create(ctx context.Context, note domain.Note) error {
	const query = `
		INSERT INTO notes (id, user_id, title, content, keywords, pinned, archived, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.Keywords,
		note.Pinned,
		note.Archived,
		note.CreatedAt,
	)
	return err
}

func (r *PgNoteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	const query = `
		SELECT id, user_id, title, content, keywords, pinned, archived, created_at
		FROM notes
		WHERE user_id = $1
		ORDER BY pinned DESC, created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		err = rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Content,
			&n.Keywords,
			&n.Pinned,
			&n.Archived,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func (r *PgNoteRepository) GetByID(ctx context.Context, id string) (domain.Note, error) {
	const query = `
		SELECT id, user_id, title, content, keywords, pinned, archived, created_at
		FROM notes
		WHERE id = $1
	`
	var n domain.Note
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&n.ID,
		&n.UserID,
		&n.Title,
		&n.Content,
		&n.Keywords,
		&n.Pinned,
		&n.Archived,
		&n.CreatedAt,
	)
	if err != nil {
		return domain.Note{}, err
	}
	return n, nil
}

func (r *PgNoteRepository) Update(ctx context.Context, note domain.Note) error {
	const query = `
		UPDATE notes
		SET title = $2, content = $3, keywords = $4
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.Title,
		note.Content,
		note.Keywords,
	)
	return err
}

func (r *PgNoteRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	const query = `UPDATE notes SET pinned = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, pinned)
	return err
}

func (r *PgNoteRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	const query = `UPDATE notes SET archived = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, archived)
	return err
}

func (r *PgNoteRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM notes WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
