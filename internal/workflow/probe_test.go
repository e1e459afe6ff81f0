package workflow

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"platterd/internal/discprobe"
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

type sequenceProber struct {
	mu      sync.Mutex
	results []discprobe.Result
	idx     int
}

func (p *sequenceProber) Probe(ctx context.Context, driveID string) (discprobe.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.idx >= len(p.results) {
		return p.results[len(p.results)-1], nil
	}
	r := p.results[p.idx]
	p.idx++
	return r, nil
}

func TestDriveWatcherCreatesJobOnlyOnAbsentToPresentEdge(t *testing.T) {
	store := newTestStore(t)
	prober := &sequenceProber{results: []discprobe.Result{
		{HasDisc: false},
		{HasDisc: true, Label: "THE_MATRIX"},
		{HasDisc: true, Label: "THE_MATRIX"},
		{HasDisc: true, Label: "THE_MATRIX"},
	}}

	watcher := NewDriveWatcher("1", prober, store, time.Millisecond, discardLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	watcher.Run(ctx)

	jobs, err := store.GetJobsByStatus(context.Background(), queue.StatusPending)
	if err != nil {
		t.Fatalf("get jobs: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected exactly one job created across repeated present probes, got %d", len(jobs))
	}
}

func TestDriveWatcherTreatsProbeErrorAsNoDisc(t *testing.T) {
	store := newTestStore(t)
	watcher := NewDriveWatcher("1", erroringProber{}, store, time.Millisecond, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	watcher.Run(ctx)

	jobs, err := store.GetJobsByStatus(context.Background(), queue.StatusPending)
	if err != nil {
		t.Fatalf("get jobs: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected no jobs from a perpetually erroring probe, got %d", len(jobs))
	}
}

type erroringProber struct{}

func (erroringProber) Probe(ctx context.Context, driveID string) (discprobe.Result, error) {
	return discprobe.Result{}, errProbeFailed
}

var errProbeFailed = &probeError{}

type probeError struct{}

func (*probeError) Error() string { return "probe failed" }
