package notes

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const noteColumns = `id, owner_id, job_id, title, content, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, note Note) error {
	const query = `
INSERT INTO notes (id, owner_id, job_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`

	_, err := r.DB.ExecContext(ctx, query,
		note.ID, note.OwnerID, note.JobID, note.Title, note.Content, note.CreatedAt)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, ownerID, noteID string) (Note, error) {
	const query = `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND owner_id = $2 LIMIT 1`
	return scanNote(r.DB.QueryRowContext(ctx, query, noteID, ownerID))
}

func (r *PGRepo) ListByJob(ctx context.Context, ownerID, jobID string) ([]Note, error) {
	const query = `SELECT ` + noteColumns + ` FROM notes WHERE owner_id = $1 AND job_id = $2 ORDER BY updated_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, note)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, note Note) (Note, error) {
	const query = `
UPDATE notes SET title = $3, content = $4, updated_at = now()
WHERE id = $1 AND owner_id = $2
RETURNING ` + noteColumns

	return scanNote(r.DB.QueryRowContext(ctx, query, note.ID, note.OwnerID, note.Title, note.Content))
}

func (r *PGRepo) Delete(ctx context.Context, ownerID, noteID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND owner_id = $2`, noteID, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteByJob(ctx context.Context, ownerID, jobID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE owner_id = $1 AND job_id = $2`, ownerID, jobID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (Note, error) {
	var note Note
	err := row.Scan(&note.ID, &note.OwnerID, &note.JobID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Note{}, ErrNotFound
		}
		return Note{}, err
	}
	return note, nil
}
