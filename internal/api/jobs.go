package api

import (
	"context"
	"fmt"

	"platterd/internal/logging"
	"platterd/internal/queue"
)

// preIdentifiableStatuses is every status a disc can be in before the
// identifier claims it, per spec.md §4.8's pre_identify guard.
var preIdentifiableStatuses = []queue.Status{
	queue.StatusPending,
	queue.StatusRipping,
	queue.StatusRipped,
	queue.StatusEncoding,
	queue.StatusEncoded,
	queue.StatusIdentifying,
}

var archivableStatuses = []queue.Status{queue.StatusComplete, queue.StatusFailed}

func validYear(year *int) bool {
	if year == nil {
		return true
	}
	return *year >= 1800 && *year <= 2100
}

const confidencePerfect = 1.0

// Approve requires status=review and transitions the job to moving.
func (s *Surface) Approve(ctx context.Context, jobID int64) (Result, error) {
	job, notFound, err := s.getJob(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	if notFound != nil {
		return *notFound, nil
	}
	if job.Status != queue.StatusReview {
		return invalidStateResult(jobID, fmt.Sprintf("approve requires status=review, got %s", job.Status)), nil
	}
	if err := s.store.UpdateJobStatus(ctx, jobID, queue.StatusMoving, ""); err != nil {
		if res, ok := classifyJobErr(jobID, err); ok {
			return res, nil
		}
		return Result{}, err
	}
	return okResult(jobID, queue.StatusMoving), nil
}

// Identify requires status=review, writes a human-asserted identification
// with confidence 1.0 (best-effort poster lookup from the catalog), and
// transitions the job to moving.
func (s *Surface) Identify(ctx context.Context, jobID int64, title string, year *int) (Result, error) {
	job, notFound, err := s.getJob(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	if notFound != nil {
		return *notFound, nil
	}
	if job.Status != queue.StatusReview {
		return invalidStateResult(jobID, fmt.Sprintf("identify requires status=review, got %s", job.Status)), nil
	}
	if !validYear(year) {
		return invalidStateResult(jobID, "year must be between 1800 and 2100"), nil
	}

	posterRef, catalogID := s.bestEffortPoster(ctx, title)
	confidence := confidencePerfect
	if err := s.store.UpdateJobIdentification(ctx, jobID, queue.ContentMovie, title, year, catalogID, &confidence, posterRef); err != nil {
		if res, ok := classifyJobErr(jobID, err); ok {
			return res, nil
		}
		return Result{}, err
	}
	if err := s.store.UpdateJobStatus(ctx, jobID, queue.StatusMoving, ""); err != nil {
		if res, ok := classifyJobErr(jobID, err); ok {
			return res, nil
		}
		return Result{}, err
	}
	return okResult(jobID, queue.StatusMoving), nil
}

// Skip requires status=review and fails the job with a fixed message.
func (s *Surface) Skip(ctx context.Context, jobID int64) (Result, error) {
	job, notFound, err := s.getJob(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	if notFound != nil {
		return *notFound, nil
	}
	if job.Status != queue.StatusReview {
		return invalidStateResult(jobID, fmt.Sprintf("skip requires status=review, got %s", job.Status)), nil
	}
	if err := s.store.UpdateJobStatus(ctx, jobID, queue.StatusFailed, "skipped by user"); err != nil {
		if res, ok := classifyJobErr(jobID, err); ok {
			return res, nil
		}
		return Result{}, err
	}
	return okResult(jobID, queue.StatusFailed), nil
}

// PreIdentify requires the job not yet be in the identifier's hands, writes
// a human-asserted identification with confidence 1.0, and leaves status
// untouched (spec.md §4.8, scenario 3).
func (s *Surface) PreIdentify(ctx context.Context, jobID int64, title string, year *int) (Result, error) {
	job, notFound, err := s.getJob(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	if notFound != nil {
		return *notFound, nil
	}
	if !contains(preIdentifiableStatuses, job.Status) {
		return invalidStateResult(jobID, fmt.Sprintf("pre_identify not allowed from status %s", job.Status)), nil
	}
	if !validYear(year) {
		return invalidStateResult(jobID, "year must be between 1800 and 2100"), nil
	}

	posterRef, catalogID := s.bestEffortPoster(ctx, title)
	confidence := confidencePerfect
	if err := s.store.UpdateJobIdentification(ctx, jobID, queue.ContentMovie, title, year, catalogID, &confidence, posterRef); err != nil {
		if res, ok := classifyJobErr(jobID, err); ok {
			return res, nil
		}
		return Result{}, err
	}
	return okResult(jobID, job.Status), nil
}

// Archive requires status in {complete, failed} and transitions to archived.
func (s *Surface) Archive(ctx context.Context, jobID int64) (Result, error) {
	job, notFound, err := s.getJob(ctx, jobID)
	if err != nil {
		return Result{}, err
	}
	if notFound != nil {
		return *notFound, nil
	}
	if !contains(archivableStatuses, job.Status) {
		return invalidStateResult(jobID, fmt.Sprintf("archive requires complete or failed, got %s", job.Status)), nil
	}
	if err := s.store.UpdateJobStatus(ctx, jobID, queue.StatusArchived, ""); err != nil {
		if res, ok := classifyJobErr(jobID, err); ok {
			return res, nil
		}
		return Result{}, err
	}
	return okResult(jobID, queue.StatusArchived), nil
}

// bestEffortPoster looks up a poster_ref and catalog_id for a human-supplied
// title. Catalog failures are swallowed: a missing poster is not a reason to
// reject a human identification (spec.md §4.8's "best-effort from catalog").
func (s *Surface) bestEffortPoster(ctx context.Context, title string) (string, *int64) {
	if s.catalog == nil {
		return "", nil
	}
	candidates, err := s.catalog.SearchMovie(ctx, title, 1)
	if err != nil || len(candidates) == 0 {
		if err != nil {
			s.log.Debug("best-effort catalog lookup failed", logging.FieldErrorHint, err.Error())
		}
		return "", nil
	}
	catalogID := candidates[0].CatalogID
	return candidates[0].PosterRef, &catalogID
}
