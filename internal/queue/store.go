package queue

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateJob inserts a new PENDING job for a drive/label pair. Called by the
// supervisor on an absent->present disc-probe edge (spec.md §2, §4.2).
func (s *Store) CreateJob(ctx context.Context, drive, label string) (*Job, error) {
	ctx = ensureContext(ctx)
	timestamp := nowStamp()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO jobs (drive_id, disc_label, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		drive, label, StatusPending, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create job: last insert id: %w", err)
	}
	return s.GetJob(ctx, id)
}

const jobColumns = `id, drive_id, disc_label, content_type, status, identified_title,
    identified_year, catalog_id, confidence, poster_ref, rip_path, encode_path,
    final_path, error_message, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (*Job, error) {
	var (
		job                         Job
		identifiedYear              sql.NullInt64
		catalogID                   sql.NullInt64
		confidence                  sql.NullFloat64
		createdAt, updatedAt        string
	)
	if err := row.Scan(
		&job.ID, &job.Drive, &job.Label, &job.ContentType, &job.Status, &job.IdentifiedTitle,
		&identifiedYear, &catalogID, &confidence, &job.PosterRef, &job.RipPath, &job.EncodePath,
		&job.FinalPath, &job.ErrorMessage, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if identifiedYear.Valid {
		y := int(identifiedYear.Int64)
		job.IdentifiedYear = &y
	}
	if catalogID.Valid {
		c := catalogID.Int64
		job.CatalogID = &c
	}
	if confidence.Valid {
		c := confidence.Float64
		job.Confidence = &c
	}
	job.CreatedAt = parseStamp(createdAt)
	job.UpdatedAt = parseStamp(updatedAt)
	return &job, nil
}

// GetJob fetches a single job by id.
func (s *Store) GetJob(ctx context.Context, id int64) (*Job, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %d: %w", id, err)
	}
	return job, nil
}

// GetJobsByStatus returns jobs in a status, ordered oldest-updated-first for
// pipeline fairness (spec.md §4.1).
func (s *Store) GetJobsByStatus(ctx context.Context, status Status) ([]*Job, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = ? ORDER BY updated_at ASC, id ASC`, status)
	if err != nil {
		return nil, fmt.Errorf("get jobs by status %s: %w", status, err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

func collectJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// GetPendingJobForDrive returns the oldest PENDING job bound to a drive, or
// nil if none (spec.md §4.1, used by the rip worker for its drive).
func (s *Store) GetPendingJobForDrive(ctx context.Context, drive string) (*Job, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE drive_id = ? AND status = ?
         ORDER BY updated_at ASC, id ASC LIMIT 1`, drive, StatusPending)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending job for drive %s: %w", drive, err)
	}
	return job, nil
}

// GetRecentJobs returns up to limit jobs ordered newest-updated-first,
// optionally excluding archived jobs (used by the dashboard view).
func (s *Store) GetRecentJobs(ctx context.Context, limit int, excludeArchived bool) ([]*Job, error) {
	ctx = ensureContext(ctx)
	query := `SELECT ` + jobColumns + ` FROM jobs`
	args := []any{}
	if excludeArchived {
		query += ` WHERE status != ?`
		args = append(args, StatusArchived)
	}
	query += ` ORDER BY updated_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get recent jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}
