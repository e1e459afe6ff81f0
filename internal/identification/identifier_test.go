package identification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"platterd/internal/queue"
)

var errUnexpectedCatalogCall = errors.New("catalog should not be called for a pre-identified job")

type fakeCatalog struct {
	candidates []MovieCandidate
	err        error
}

func (f fakeCatalog) SearchMovie(ctx context.Context, query string, limit int) ([]MovieCandidate, error) {
	return f.candidates, f.err
}

func newTestStore(t *testing.T) *queue.Store {
	t.Helper()
	store, err := queue.Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func encodedJob(t *testing.T, store *queue.Store, label string) *queue.Job {
	t.Helper()
	ctx := context.Background()
	job, err := store.CreateJob(ctx, "1", label)
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	for _, status := range []queue.Status{queue.StatusRipping, queue.StatusRipped, queue.StatusEncoding, queue.StatusEncoded} {
		if err := store.UpdateJobStatus(ctx, job.ID, status, ""); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}
	job, err = store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	return job
}

func TestProcessOneAutoApprovesHighConfidence(t *testing.T) {
	store := newTestStore(t)
	job := encodedJob(t, store, "THE_MATRIX")

	year := 1999
	catalog := fakeCatalog{candidates: []MovieCandidate{
		{CatalogID: 603, Title: "The Matrix", Year: &year, Popularity: 100},
	}}

	id := New(store, catalog, discardLogger(), 0.85, 10)
	if err := id.ProcessOne(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	got, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != queue.StatusMoving {
		t.Fatalf("status = %s, want moving", got.Status)
	}
	if got.IdentifiedTitle != "The Matrix" {
		t.Fatalf("identified title = %q, want The Matrix", got.IdentifiedTitle)
	}
	if got.Confidence == nil || *got.Confidence < 0.85 {
		t.Fatalf("confidence = %v, want >= 0.85", got.Confidence)
	}
}

func TestProcessOneRoutesLowConfidenceToReview(t *testing.T) {
	store := newTestStore(t)
	job := encodedJob(t, store, "MYSTERY_DISC")

	catalog := fakeCatalog{candidates: []MovieCandidate{
		{CatalogID: 1, Title: "Some Loosely Related Film", Popularity: 1},
	}}

	id := New(store, catalog, discardLogger(), 0.85, 10)
	if err := id.ProcessOne(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	got, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != queue.StatusReview {
		t.Fatalf("status = %s, want review", got.Status)
	}
}

func TestProcessOneRoutesNoCandidatesToReviewAsUnknown(t *testing.T) {
	store := newTestStore(t)
	job := encodedJob(t, store, "UNREADABLE_LABEL")

	id := New(store, fakeCatalog{}, discardLogger(), 0.85, 10)
	if err := id.ProcessOne(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	got, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != queue.StatusReview {
		t.Fatalf("status = %s, want review", got.Status)
	}
	if got.ContentType != queue.ContentUnknown {
		t.Fatalf("content type = %s, want unknown", got.ContentType)
	}
	if got.Confidence == nil || *got.Confidence != 0 {
		t.Fatalf("confidence = %v, want 0", got.Confidence)
	}
}

func TestProcessOneSkipsCatalogWhenPreIdentified(t *testing.T) {
	store := newTestStore(t)
	job := encodedJob(t, store, "DUNE_2021")

	year := 2021
	confidenceOne := 1.0
	if err := store.UpdateJobIdentification(context.Background(), job.ID, queue.ContentMovie, "Dune", &year, nil, &confidenceOne, ""); err != nil {
		t.Fatalf("pre-identify: %v", err)
	}

	id := New(store, fakeCatalog{err: errUnexpectedCatalogCall}, discardLogger(), 0.85, 10)
	if err := id.ProcessOne(context.Background(), job.ID); err != nil {
		t.Fatalf("ProcessOne: %v", err)
	}

	got, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != queue.StatusMoving {
		t.Fatalf("status = %s, want moving", got.Status)
	}
	if got.IdentifiedTitle != "Dune" {
		t.Fatalf("identified title = %q, want Dune", got.IdentifiedTitle)
	}
}
