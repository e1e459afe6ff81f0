package encoding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"platterd/internal/queue"
)

type fakeTranscoder struct {
	path string
	err  error
}

func (f fakeTranscoder) Encode(ctx context.Context, ripPath, destDir string, progress func(ProgressUpdate)) (string, error) {
	if progress != nil {
		progress(ProgressUpdate{PercentComplete: 50, FPS: 24.5, ETA: 90 * time.Second})
	}
	return f.path, f.err
}

type blockingTranscoder struct{}

func (blockingTranscoder) Encode(ctx context.Context, ripPath, destDir string, progress func(ProgressUpdate)) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
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

func rippedJob(t *testing.T, store *queue.Store, label string) *queue.Job {
	t.Helper()
	ctx := context.Background()
	job, err := store.CreateJob(ctx, "1", label)
	if err != nil {
		t.Fatalf("create job: %v", err)
	}
	for _, status := range []queue.Status{queue.StatusRipping, queue.StatusRipped} {
		if err := store.UpdateJobStatus(ctx, job.ID, status, ""); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}
	if err := store.SetJobPath(ctx, job.ID, queue.PathRip, "/staging/job_1/title.mkv"); err != nil {
		t.Fatalf("set rip path: %v", err)
	}
	job, err = store.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	return job
}

func TestWorkerEncodesRippedJobToEncoded(t *testing.T) {
	store := newTestStore(t)
	job := rippedJob(t, store, "THE_MATRIX")

	encodedPath := filepath.Join(t.TempDir(), "job_1", "output.mkv")
	worker := NewWorker(store, fakeTranscoder{path: encodedPath}, t.TempDir(), time.Millisecond, discardLogger())

	claimed, err := worker.claim(context.Background())
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claimed == nil {
		t.Fatal("expected a claimed job")
	}
	worker.process(context.Background(), claimed)

	got, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != queue.StatusEncoded {
		t.Fatalf("status = %s, want encoded", got.Status)
	}
	if got.EncodePath != encodedPath {
		t.Fatalf("encode path = %q, want %q", got.EncodePath, encodedPath)
	}
	if got.RipPath == "" {
		t.Fatal("rip path should remain intact for the mover")
	}
}

func TestWorkerFailsJobOnTranscodeError(t *testing.T) {
	store := newTestStore(t)
	job := rippedJob(t, store, "CORRUPT_TRANSFER")

	worker := NewWorker(store, fakeTranscoder{err: errors.New("transcoder crashed")}, t.TempDir(), time.Millisecond, discardLogger())

	claimed, err := worker.claim(context.Background())
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	worker.process(context.Background(), claimed)

	got, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != queue.StatusFailed {
		t.Fatalf("status = %s, want failed", got.Status)
	}
}

func TestWorkerRevertsToRippedOnCancellation(t *testing.T) {
	store := newTestStore(t)
	job := rippedJob(t, store, "SLOW_DISC")

	worker := NewWorker(store, blockingTranscoder{}, t.TempDir(), time.Millisecond, discardLogger())

	claimed, err := worker.claim(context.Background())
	if err != nil {
		t.Fatalf("claim: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.process(ctx, claimed)
		close(done)
	}()
	cancel()
	<-done

	got, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if got.Status != queue.StatusRipped {
		t.Fatalf("status = %s, want ripped (reverted)", got.Status)
	}
}

func TestWorkerClaimReturnsNilWhenNothingRipped(t *testing.T) {
	store := newTestStore(t)
	worker := NewWorker(store, fakeTranscoder{}, t.TempDir(), time.Millisecond, discardLogger())

	job, err := worker.claim(context.Background())
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil job, got %+v", job)
	}
}
