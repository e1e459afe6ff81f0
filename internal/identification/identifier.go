package identification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"platterd/internal/logging"
	"platterd/internal/queue"
)

// MovieCandidate is one catalog search result, shaped independently of any
// particular catalog client so a fake can drive tests without HTTP.
type MovieCandidate struct {
	CatalogID  int64
	Title      string
	Year       *int
	Popularity float64
	PosterRef  string
}

// Catalog is the subset of catalog behavior the identifier depends on.
// internal/catalog provides the real (TMDb-backed) and no-op implementations;
// defining the interface here, at the consumer, keeps this package free of
// any HTTP or catalog-token concern.
type Catalog interface {
	SearchMovie(ctx context.Context, query string, limit int) ([]MovieCandidate, error)
}

// Identifier resolves ENCODED jobs into a catalog match (spec.md §4.5).
type Identifier struct {
	store                *queue.Store
	catalog              Catalog
	log                  *slog.Logger
	autoApproveThreshold float64
	maxCandidates        int
}

// New constructs an Identifier. threshold and maxCandidates come from
// config.Identification.
func New(store *queue.Store, catalog Catalog, log *slog.Logger, threshold float64, maxCandidates int) *Identifier {
	if maxCandidates <= 0 {
		maxCandidates = 10
	}
	return &Identifier{
		store:                store,
		catalog:              catalog,
		log:                  log,
		autoApproveThreshold: threshold,
		maxCandidates:        maxCandidates,
	}
}

// ProcessOne identifies a single ENCODED job, or returns queue.ErrNotFound
// via the caller's own lookup if none is queued. The caller (workflow
// supervisor) is responsible for the claim loop; this method assumes the job
// id it is given is genuinely ENCODED.
func (id *Identifier) ProcessOne(ctx context.Context, jobID int64) error {
	log := id.log.With(logging.FieldJobID, jobID, logging.FieldRequestID, uuid.NewString())

	job, err := id.store.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("identify job %d: %w", jobID, err)
	}

	if err := id.store.UpdateJobStatus(ctx, jobID, queue.StatusIdentifying, ""); err != nil {
		return fmt.Errorf("identify job %d: transition to identifying: %w", jobID, err)
	}

	if job.IsPreIdentified() {
		log.Info("skipping automatic identification: already pre-identified", logging.FieldTitle, job.IdentifiedTitle)
		return id.store.UpdateJobStatus(ctx, jobID, queue.StatusMoving, "")
	}

	query := CleanLabel(job.Label)
	log.Debug("cleaned disc label", "raw_label", job.Label, "query", query)

	candidates, err := id.catalog.SearchMovie(ctx, query, id.maxCandidates)
	if err != nil {
		log.Warn("catalog search failed, falling back to manual review", logging.FieldErrorHint, err.Error())
		candidates = nil
	}

	if len(candidates) == 0 {
		if err := id.store.UpdateJobIdentification(ctx, jobID, queue.ContentUnknown, "", nil, nil, floatPtr(0), ""); err != nil {
			return fmt.Errorf("identify job %d: record unknown: %w", jobID, err)
		}
		log.Info("no catalog match, needs manual review")
		return id.store.UpdateJobStatus(ctx, jobID, queue.StatusReview, "")
	}

	best, bestScore := pickBest(query, candidates)

	catalogID := best.CatalogID
	if err := id.store.UpdateJobIdentification(ctx, jobID, queue.ContentMovie, best.Title, best.Year, &catalogID, &bestScore, best.PosterRef); err != nil {
		return fmt.Errorf("identify job %d: record identification: %w", jobID, err)
	}

	if bestScore >= id.autoApproveThreshold {
		log.Info("auto-approved", logging.FieldTitle, best.Title, "confidence", bestScore)
		return id.store.UpdateJobStatus(ctx, jobID, queue.StatusMoving, "")
	}

	log.Info("needs review", logging.FieldTitle, best.Title, "confidence", bestScore)
	return id.store.UpdateJobStatus(ctx, jobID, queue.StatusReview, "")
}

// pickBest scores every candidate against query and returns the
// highest-confidence one. The catalog's own ordering determines which
// candidate receives the first-result rank bonus, per spec.md §4.5 step 4.
func pickBest(query string, candidates []MovieCandidate) (MovieCandidate, float64) {
	var best MovieCandidate
	bestScore := -1.0
	for i, candidate := range candidates {
		score := confidence(query, candidate.Title, candidate.Popularity, i == 0)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore
}

func floatPtr(f float64) *float64 { return &f }
