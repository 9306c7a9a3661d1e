package jobs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const jobColumns = `id, owner_id, title, company, link, description, location, status, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO jobs (id, owner_id, title, company, link, description, location, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

	_, err := r.DB.ExecContext(ctx, query,
		job.ID, job.OwnerID, job.Title, job.Company,
		nullable(job.Link), nullable(job.Description), nullable(job.Location),
		job.Status, job.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, ownerID, jobID string) (Job, error) {
	const query = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1 AND owner_id = $2 LIMIT 1`
	return scanJob(r.DB.QueryRowContext(ctx, query, jobID, ownerID))
}

func (r *PGRepo) ListByOwner(ctx context.Context, ownerID, status string) ([]Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE owner_id = $1`
	args := []any{ownerID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, job Job) (Job, error) {
	const query = `
UPDATE jobs
SET title = $3, company = $4, link = $5, description = $6, location = $7, status = $8, updated_at = now()
WHERE id = $1 AND owner_id = $2
RETURNING ` + jobColumns

	return scanJob(r.DB.QueryRowContext(ctx, query,
		job.ID, job.OwnerID, job.Title, job.Company,
		nullable(job.Link), nullable(job.Description), nullable(job.Location),
		job.Status,
	))
}

func (r *PGRepo) Delete(ctx context.Context, ownerID, jobID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND owner_id = $2`, jobID, ownerID)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var link, description, location sql.NullString

	err := row.Scan(
		&job.ID, &job.OwnerID, &job.Title, &job.Company,
		&link, &description, &location,
		&job.Status, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Job{}, ErrNotFound
		}
		return Job{}, err
	}

	job.Link = link.String
	job.Description = description.String
	job.Location = location.String
	return job, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
