package queue

import (
	"context"
	"fmt"
)

// UpdateJobStatus transitions a job to newStatus, validating the edge
// against the state graph and failing with ErrConflict if the job's status
// changed between read and write (another worker claimed it first).
//
// errorMessage is recorded only on transitions into StatusFailed; pass "" to
// leave it untouched for any other transition.
func (s *Store) UpdateJobStatus(ctx context.Context, id int64, newStatus Status, errorMessage string) error {
	ctx = ensureContext(ctx)

	job, err := s.GetJob(ctx, id)
	if err != nil {
		return err
	}

	if !CanTransition(job.Status, newStatus) {
		return &InvalidTransitionError{From: job.Status, To: newStatus}
	}

	query := `UPDATE jobs SET status = ?, updated_at = ?`
	args := []any{newStatus, nowStamp()}
	if newStatus == StatusFailed {
		query += `, error_message = ?`
		args = append(args, errorMessage)
	}
	query += ` WHERE id = ? AND status = ?`
	args = append(args, id, job.Status)

	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update job %d status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job %d status: %w", id, err)
	}
	if affected == 0 {
		return ErrConflict
	}
	return nil
}

// UpdateJobIdentification writes identification fields without touching
// status (spec.md §4.1). Idempotent: re-applying identical arguments is a
// no-op apart from updated_at.
func (s *Store) UpdateJobIdentification(
	ctx context.Context,
	id int64,
	contentType ContentType,
	title string,
	year *int,
	catalogID *int64,
	confidence *float64,
	posterRef string,
) error {
	ctx = ensureContext(ctx)
	var yearArg, catalogArg, confidenceArg any
	if year != nil {
		yearArg = *year
	}
	if catalogID != nil {
		catalogArg = *catalogID
	}
	if confidence != nil {
		confidenceArg = *confidence
	}

	res, err := s.execWithRetry(ctx,
		`UPDATE jobs SET content_type = ?, identified_title = ?, identified_year = ?,
             catalog_id = ?, confidence = ?, poster_ref = ?, updated_at = ?
         WHERE id = ?`,
		contentType, title, yearArg, catalogArg, confidenceArg, posterRef, nowStamp(), id,
	)
	if err != nil {
		return fmt.Errorf("update job %d identification: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job %d identification: %w", id, err)
	}
	if affected == 0 {
		if _, getErr := s.GetJob(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}

// SetJobPath records one of the three filesystem artifact paths.
func (s *Store) SetJobPath(ctx context.Context, id int64, field PathField, value string) error {
	ctx = ensureContext(ctx)
	var column string
	switch field {
	case PathRip:
		column = "rip_path"
	case PathEncode:
		column = "encode_path"
	case PathFinal:
		column = "final_path"
	default:
		return fmt.Errorf("set job %d path: unknown field %q", id, field)
	}

	res, err := s.execWithRetry(ctx,
		fmt.Sprintf(`UPDATE jobs SET %s = ?, updated_at = ? WHERE id = ?`, column),
		value, nowStamp(), id,
	)
	if err != nil {
		return fmt.Errorf("set job %d path: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set job %d path: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountInStatus counts jobs currently in a status, used by oversight's
// invariant checks (spec.md §8.2).
func (s *Store) CountInStatus(ctx context.Context, status Status) (int, error) {
	ctx = ensureContext(ctx)
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM jobs WHERE status = ?`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count jobs in status %s: %w", status, err)
	}
	return count, nil
}

// CountRippingByDrive returns the number of jobs currently RIPPING per
// drive_id, used by oversight to detect the "two rips on one drive"
// invariant violation.
func (s *Store) CountRippingByDrive(ctx context.Context) (map[string]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT drive_id, COUNT(1) FROM jobs WHERE status = ? GROUP BY drive_id`, StatusRipping)
	if err != nil {
		return nil, fmt.Errorf("count ripping by drive: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var drive string
		var count int
		if err := rows.Scan(&drive, &count); err != nil {
			return nil, fmt.Errorf("count ripping by drive: %w", err)
		}
		out[drive] = count
	}
	return out, rows.Err()
}
