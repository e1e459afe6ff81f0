package queue

import (
	"context"
	"fmt"
)

// transientTimeouts mirrors dvdtoplex's oversight.py TRANSIENT_STATE_TIMEOUTS:
// how long a job may sit in a non-terminal status before it is considered
// stuck rather than merely slow (spec.md §4.7).
var transientTimeouts = map[Status]int64{
	StatusRipping:     4 * 3600,
	StatusEncoding:    8 * 3600,
	StatusIdentifying: 1 * 3600,
}

// ResetStuckOnStartup reverts jobs left in a transient status by an unclean
// shutdown back to their pre-transient status, marking the origin FAILED
// only where no safe rollback exists (rip has no upstream state to return
// to). Grounded on dvdtoplex's oversight.py startup cleanup and the
// teacher's store_transitions.go ResetStuckProcessing. Returns the number of
// rows touched per status for logging.
func (s *Store) ResetStuckOnStartup(ctx context.Context) (map[Status]int, error) {
	ctx = ensureContext(ctx)
	result := map[Status]int{}

	rippingCount, err := s.revertStatus(ctx, StatusRipping, StatusFailed, "reset on startup: rip in progress at shutdown")
	if err != nil {
		return nil, fmt.Errorf("reset stuck ripping: %w", err)
	}
	result[StatusRipping] = rippingCount

	encodingCount, err := s.revertStatus(ctx, StatusEncoding, StatusRipped, "")
	if err != nil {
		return nil, fmt.Errorf("reset stuck encoding: %w", err)
	}
	result[StatusEncoding] = encodingCount

	identifyingCount, err := s.revertStatus(ctx, StatusIdentifying, StatusEncoded, "")
	if err != nil {
		return nil, fmt.Errorf("reset stuck identifying: %w", err)
	}
	result[StatusIdentifying] = identifyingCount

	return result, nil
}

// revertStatus bulk-moves every job in from to to, bypassing the single-row
// CanTransition check in UpdateJobStatus because this runs once at startup
// against a database no worker is touching yet. errorMessage is applied only
// when non-empty (bulk revert to FAILED records why).
func (s *Store) revertStatus(ctx context.Context, from, to Status, errorMessage string) (int, error) {
	query := `UPDATE jobs SET status = ?, updated_at = ?`
	args := []any{to, nowStamp()}
	if errorMessage != "" {
		query += `, error_message = ?`
		args = append(args, errorMessage)
	}
	query += ` WHERE status = ?`
	args = append(args, from)

	res, err := s.execWithRetry(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// CheckConsistency reports invariant violations without repairing them,
// mirroring dvdtoplex's oversight.py check_state_consistency: more than one
// ENCODING job, more than one RIPPING job per drive, or a job that has sat in
// a transient status past its timeout (spec.md §4.7, §8.2).
func (s *Store) CheckConsistency(ctx context.Context) ([]OversightIssue, error) {
	ctx = ensureContext(ctx)
	var issues []OversightIssue

	encoding, err := s.GetJobsByStatus(ctx, StatusEncoding)
	if err != nil {
		return nil, fmt.Errorf("check encoding jobs: %w", err)
	}
	if len(encoding) > 1 {
		ids := jobIDs(encoding)
		issues = append(issues, OversightIssue{
			Kind:   "multiple_encoding",
			Detail: fmt.Sprintf("Multiple jobs in ENCODING status (%d jobs: %v). Only one job should be encoding at a time.", len(encoding), ids),
			JobIDs: ids,
		})
	}

	byDrive, err := s.CountRippingByDrive(ctx)
	if err != nil {
		return nil, fmt.Errorf("check ripping jobs: %w", err)
	}
	for drive, count := range byDrive {
		if count > 1 {
			issues = append(issues, OversightIssue{
				Kind:   "multiple_ripping_on_drive",
				Detail: fmt.Sprintf("Multiple jobs in RIPPING status on drive %s (%d jobs). Only one job should be ripping per drive.", drive, count),
			})
		}
	}

	for status, timeoutSeconds := range transientTimeouts {
		stuck, err := s.jobsStuckLongerThan(ctx, status, timeoutSeconds)
		if err != nil {
			return nil, fmt.Errorf("check stuck %s jobs: %w", status, err)
		}
		if len(stuck) > 0 {
			ids := jobIDs(stuck)
			issues = append(issues, OversightIssue{
				Kind:   "stuck_" + string(status),
				Detail: fmt.Sprintf("Jobs stuck in %s status past timeout (%d jobs: %v).", status, len(stuck), ids),
				JobIDs: ids,
			})
		}
	}

	return issues, nil
}

func (s *Store) jobsStuckLongerThan(ctx context.Context, status Status, timeoutSeconds int64) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status = ? AND
         (unixepoch('now') - unixepoch(updated_at)) > ?`,
		status, timeoutSeconds)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJobs(rows)
}

func jobIDs(jobs []*Job) []int64 {
	ids := make([]int64, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return ids
}

// FixStuckEncoding keeps the most-recently-updated ENCODING job and reverts
// every other ENCODING job to RIPPED, so the encode worker's single-slot
// invariant can re-establish itself. Grounded on dvdtoplex's oversight.py
// fix_stuck_encoding_jobs. Returns the number of jobs reverted.
func (s *Store) FixStuckEncoding(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)
	encoding, err := s.GetJobsByStatus(ctx, StatusEncoding)
	if err != nil {
		return 0, fmt.Errorf("fix stuck encoding: %w", err)
	}
	if len(encoding) <= 1 {
		return 0, nil
	}

	newest := encoding[0]
	for _, job := range encoding[1:] {
		if job.UpdatedAt.After(newest.UpdatedAt) {
			newest = job
		}
	}

	reverted := 0
	for _, job := range encoding {
		if job.ID == newest.ID {
			continue
		}
		if err := s.UpdateJobStatus(ctx, job.ID, StatusRipped, ""); err != nil {
			return reverted, fmt.Errorf("revert job %d: %w", job.ID, err)
		}
		reverted++
	}
	return reverted, nil
}
