package mover

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"platterd/internal/queue"
)

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

func movingJob(t *testing.T, store *queue.Store, encodedContent string) *queue.Job {
	t.Helper()
	ctx := context.Background()
	job, err := store.CreateJob(ctx, "1", "THE_MATRIX")
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	for _, status := range []queue.Status{queue.StatusRipping, queue.StatusRipped, queue.StatusEncoding, queue.StatusEncoded, queue.StatusIdentifying} {
		if err := store.UpdateJobStatus(ctx, job.ID, status, ""); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}
	year := 1999
	confidence := 0.95
	if err := store.UpdateJobIdentification(ctx, job.ID, queue.ContentMovie, "The Matrix", &year, nil, &confidence, ""); err != nil {
		t.Fatalf("identify: %v", err)
	}
	if err := store.UpdateJobStatus(ctx, job.ID, queue.StatusMoving, ""); err != nil {
		t.Fatalf("transition to moving: %v", err)
	}

	stagingDir := t.TempDir()
	encodingDir := t.TempDir()
	ripPath := filepath.Join(stagingDir, "job_1", "title.mkv")
	encodePath := filepath.Join(encodingDir, "job_1", "output.mkv")
	if err := os.MkdirAll(filepath.Dir(ripPath), 0o755); err != nil {
		t.Fatalf("mkdir rip dir: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(encodePath), 0o755); err != nil {
		t.Fatalf("mkdir encode dir: %v", err)
	}
	if err := os.WriteFile(ripPath, []byte("rip"), 0o644); err != nil {
		t.Fatalf("write rip artifact: %v", err)
	}
	if err := os.WriteFile(encodePath, []byte(encodedContent), 0o644); err != nil {
		t.Fatalf("write encode artifact: %v", err)
	}
	if err := store.SetJobPath(ctx, job.ID, queue.PathRip, ripPath); err != nil {
		t.Fatalf("set rip path: %v", err)
	}
	if err := store.SetJobPath(ctx, job.ID, queue.PathEncode, encodePath); err != nil {
		t.Fatalf("set encode path: %v", err)
	}

	job, err = store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	return job
}

func TestMoverCompletesJobAndRecordsCollection(t *testing.T) {
	store := newTestStore(t)
	moviesRoot := t.TempDir()
	job := movingJob(t, store, "encoded bytes")

	m := NewMover(store, moviesRoot, time.Millisecond, discardLogger())
	m.processOne(context.Background(), job)

	got, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != queue.StatusComplete {
		t.Fatalf("status = %s, want complete", got.Status)
	}
	wantFinal := filepath.Join(moviesRoot, "The Matrix (1999)", "The Matrix (1999).mkv")
	if got.FinalPath != wantFinal {
		t.Fatalf("final path = %q, want %q", got.FinalPath, wantFinal)
	}
	if _, err := os.Stat(wantFinal); err != nil {
		t.Fatalf("expected file at destination: %v", err)
	}

	collection, err := store.GetCollection(context.Background())
	if err != nil {
		t.Fatalf("get collection: %v", err)
	}
	if len(collection) != 1 || collection[0].Title != "The Matrix" {
		t.Fatalf("unexpected collection: %+v", collection)
	}

	if _, err := os.Stat(filepath.Dir(got.RipPath)); !os.IsNotExist(err) {
		t.Fatalf("expected rip staging dir to be cleaned up, got err=%v", err)
	}
}

func TestMoverLeavesJobInMovingWhenRootMissing(t *testing.T) {
	store := newTestStore(t)
	missingRoot := filepath.Join(t.TempDir(), "does-not-exist")
	job := movingJob(t, store, "encoded bytes")

	m := NewMover(store, missingRoot, time.Millisecond, discardLogger())
	m.processOne(context.Background(), job)

	got, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != queue.StatusMoving {
		t.Fatalf("status = %s, want moving (unchanged)", got.Status)
	}
}
