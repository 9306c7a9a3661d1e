package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// PGRepo implements Repo using Postgres. The bounded histories are stored as
// JSONB documents on the resume row; appends re-read the row under FOR UPDATE
// so concurrent writers serialize per resume.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, owner_id, title, content, content_hash, source_type,
       file_name, file_size, mime_type, storage_key, analyses, optimizations, created_at, updated_at`

// Create inserts a new resume. A unique violation on (owner_id, content_hash)
// means an identical resume already exists; it is fetched and returned instead.
func (r *PGRepo) Create(ctx context.Context, resume Resume) (Resume, bool, error) {
	const query = `
INSERT INTO resumes (id, owner_id, title, content, content_hash, source_type,
                     file_name, file_size, mime_type, storage_key, analyses, optimizations, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`

	if resume.Analyses == nil {
		resume.Analyses = []AnalysisRecord{}
	}
	if resume.Optimizations == nil {
		resume.Optimizations = []OptimizationRecord{}
	}
	analysesJSON, err := marshalHistory(resume.Analyses)
	if err != nil {
		return Resume{}, false, err
	}
	optimizationsJSON, err := marshalHistory(resume.Optimizations)
	if err != nil {
		return Resume{}, false, err
	}

	_, err = r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.OwnerID,
		resume.Title,
		resume.Content,
		resume.ContentHash,
		resume.SourceType,
		nullableString(resume.FileName),
		nullableInt64(resume.FileSize),
		nullableString(resume.MimeType),
		nullableString(resume.StorageKey),
		analysesJSON,
		optimizationsJSON,
		resume.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, getErr := r.getByOwnerAndHash(ctx, resume.OwnerID, resume.ContentHash)
			if getErr != nil {
				return Resume{}, false, getErr
			}
			return existing, false, nil
		}
		return Resume{}, false, err
	}
	return resume, true, nil
}

// GetByID returns a resume scoped to its owner.
func (r *PGRepo) GetByID(ctx context.Context, ownerID, resumeID string) (Resume, error) {
	query := fmt.Sprintf(`SELECT %s FROM resumes WHERE id = $1 AND owner_id = $2 LIMIT 1`, resumeColumns)
	return scanResume(r.DB.QueryRowContext(ctx, query, resumeID, ownerID))
}

func (r *PGRepo) getByOwnerAndHash(ctx context.Context, ownerID, contentHash string) (Resume, error) {
	query := fmt.Sprintf(`SELECT %s FROM resumes WHERE owner_id = $1 AND content_hash = $2 LIMIT 1`, resumeColumns)
	return scanResume(r.DB.QueryRowContext(ctx, query, ownerID, contentHash))
}

// ListByOwner returns the owner's resumes, most recently updated first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string) ([]Resume, error) {
	query := fmt.Sprintf(`SELECT %s FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC`, resumeColumns)
	rows, err := r.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// UpdateContent replaces title and content and clears both cached histories:
// they were computed under the old content hash and are stale by definition.
func (r *PGRepo) UpdateContent(ctx context.Context, ownerID, resumeID, title, content, contentHash string) (Resume, error) {
	query := fmt.Sprintf(`
UPDATE resumes
SET title = $3, content = $4, content_hash = $5,
    analyses = '[]'::jsonb, optimizations = '[]'::jsonb, updated_at = now()
WHERE id = $1 AND owner_id = $2
RETURNING %s`, resumeColumns)

	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID, ownerID, title, content, contentHash))
	if err != nil {
		if isUniqueViolation(err) {
			return Resume{}, ErrDuplicateContent
		}
		return Resume{}, err
	}
	return resume, nil
}

// AppendAnalysis pushes rec onto the resume's bounded analysis history.
func (r *PGRepo) AppendAnalysis(ctx context.Context, ownerID, resumeID string, rec AnalysisRecord) (Resume, error) {
	return r.appendHistory(ctx, ownerID, resumeID, func(resume *Resume) error {
		resume.Analyses = appendAnalysis(resume.Analyses, rec)
		return nil
	})
}

// AppendOptimization pushes rec onto the resume's bounded optimization history.
func (r *PGRepo) AppendOptimization(ctx context.Context, ownerID, resumeID string, rec OptimizationRecord) (Resume, error) {
	return r.appendHistory(ctx, ownerID, resumeID, func(resume *Resume) error {
		resume.Optimizations = appendOptimization(resume.Optimizations, rec)
		return nil
	})
}

func (r *PGRepo) appendHistory(ctx context.Context, ownerID, resumeID string, mutate func(*Resume) error) (Resume, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Resume{}, err
	}
	defer tx.Rollback()

	// Serialize per resume so concurrent cache misses append rather than overwrite.
	query := fmt.Sprintf(`SELECT %s FROM resumes WHERE id = $1 AND owner_id = $2 FOR UPDATE`, resumeColumns)
	resume, err := scanResume(tx.QueryRowContext(ctx, query, resumeID, ownerID))
	if err != nil {
		return Resume{}, err
	}

	if err := mutate(&resume); err != nil {
		return Resume{}, err
	}

	analysesJSON, err := marshalHistory(resume.Analyses)
	if err != nil {
		return Resume{}, err
	}
	optimizationsJSON, err := marshalHistory(resume.Optimizations)
	if err != nil {
		return Resume{}, err
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE resumes SET analyses = $3, optimizations = $4, updated_at = now()
WHERE id = $1 AND owner_id = $2`,
		resumeID, ownerID, analysesJSON, optimizationsJSON,
	); err != nil {
		return Resume{}, err
	}

	if err := tx.Commit(); err != nil {
		return Resume{}, err
	}
	return resume, nil
}

// Delete removes the resume; embedded history goes with the row.
func (r *PGRepo) Delete(ctx context.Context, ownerID, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND owner_id = $2`, resumeID, ownerID)
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

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var fileName sql.NullString
	var fileSize sql.NullInt64
	var mimeType sql.NullString
	var storageKey sql.NullString
	var analysesJSON []byte
	var optimizationsJSON []byte

	err := row.Scan(
		&resume.ID,
		&resume.OwnerID,
		&resume.Title,
		&resume.Content,
		&resume.ContentHash,
		&resume.SourceType,
		&fileName,
		&fileSize,
		&mimeType,
		&storageKey,
		&analysesJSON,
		&optimizationsJSON,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}

	if fileName.Valid {
		resume.FileName = fileName.String
	}
	if fileSize.Valid {
		resume.FileSize = fileSize.Int64
	}
	if mimeType.Valid {
		resume.MimeType = mimeType.String
	}
	if storageKey.Valid {
		resume.StorageKey = storageKey.String
	}

	resume.Analyses = []AnalysisRecord{}
	if len(analysesJSON) > 0 {
		if err := json.Unmarshal(analysesJSON, &resume.Analyses); err != nil {
			return Resume{}, fmt.Errorf("decode analyses: %w", err)
		}
	}
	resume.Optimizations = []OptimizationRecord{}
	if len(optimizationsJSON) > 0 {
		if err := json.Unmarshal(optimizationsJSON, &resume.Optimizations); err != nil {
			return Resume{}, fmt.Errorf("decode optimizations: %w", err)
		}
	}
	return resume, nil
}

func marshalHistory(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return data, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt64(value int64) any {
	if value == 0 {
		return nil
	}
	return value
}
