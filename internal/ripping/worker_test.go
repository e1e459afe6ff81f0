package ripping

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

type fakeScanner struct {
	titles []TitleInfo
	err    error
}

func (f fakeScanner) ScanTitles(ctx context.Context, driveID string) ([]TitleInfo, error) {
	return f.titles, f.err
}

type fakeRipClient struct {
	path string
	err  error
}

func (f fakeRipClient) Rip(ctx context.Context, driveID string, title TitleInfo, destDir string, progress func(ProgressUpdate)) (string, error) {
	if progress != nil {
		progress(ProgressUpdate{PercentComplete: 100})
	}
	return f.path, f.err
}

type fakeEjector struct{ called bool }

func (f *fakeEjector) Eject(ctx context.Context, device string) error {
	f.called = true
	return nil
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

func TestWorkerRipsPendingJobToRipped(t *testing.T) {
	store := newTestStore(t)
	job, err := store.CreateJob(context.Background(), "1", "THE_MATRIX")
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	stagingRoot := t.TempDir()
	ripPath := filepath.Join(stagingRoot, "job_1", "title.mkv")
	ejector := &fakeEjector{}
	worker := NewWorker("1", store, fakeScanner{titles: []TitleInfo{{ID: 0, DurationSeconds: 6332}}},
		fakeRipClient{path: ripPath}, ejector, stagingRoot, 0, time.Millisecond, discardLogger())

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
	if got.Status != queue.StatusRipped {
		t.Fatalf("status = %s, want ripped", got.Status)
	}
	if got.RipPath != ripPath {
		t.Fatalf("rip path = %q, want %q", got.RipPath, ripPath)
	}
	if !ejector.called {
		t.Fatal("expected eject to be called")
	}
}

func TestWorkerFailsJobOnEmptyDisc(t *testing.T) {
	store := newTestStore(t)
	job, err := store.CreateJob(context.Background(), "1", "BLANK")
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	worker := NewWorker("1", store, fakeScanner{titles: nil}, fakeRipClient{}, &fakeEjector{},
		t.TempDir(), 0, time.Millisecond, discardLogger())

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
	if got.ErrorMessage == "" {
		t.Fatal("expected error message to be recorded")
	}
}

func TestWorkerClaimReturnsNilWhenNothingPending(t *testing.T) {
	store := newTestStore(t)
	worker := NewWorker("1", store, fakeScanner{}, fakeRipClient{}, &fakeEjector{}, t.TempDir(), 0, time.Millisecond, discardLogger())

	job, err := worker.claim(context.Background())
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if job != nil {
		t.Fatalf("expected nil job, got %+v", job)
	}
}

func TestWorkerFailsJobOnRipError(t *testing.T) {
	store := newTestStore(t)
	job, err := store.CreateJob(context.Background(), "1", "SCRATCHED_DISC")
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	worker := NewWorker("1", store, fakeScanner{titles: []TitleInfo{{ID: 0, DurationSeconds: 6000}}},
		fakeRipClient{err: errors.New("read error at sector 42")}, &fakeEjector{}, t.TempDir(), 0, time.Millisecond, discardLogger())

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
