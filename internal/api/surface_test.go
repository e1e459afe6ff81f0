package api

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"platterd/internal/identification"
	"platterd/internal/notifications"
	"platterd/internal/oversight"
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

type fakeNotifier struct{}

func (fakeNotifier) Notify(ctx context.Context, title, message string, priority int, url string) notifications.Result {
	return notifications.Result{Success: true}
}

type fakeCatalog struct {
	candidates []identification.MovieCandidate
	err        error
}

func (f *fakeCatalog) SearchMovie(ctx context.Context, query string, limit int) ([]identification.MovieCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func newTestSurface(t *testing.T, store *queue.Store, catalog identification.Catalog) *Surface {
	t.Helper()
	mon := oversight.NewMonitor(store, fakeNotifier{}, time.Second, discardLogger())
	return NewSurface(store, catalog, mon, fakeNotifier{}, discardLogger())
}

func jobAtStatus(t *testing.T, store *queue.Store, status queue.Status) *queue.Job {
	t.Helper()
	ctx := context.Background()
	job, err := store.CreateJob(ctx, "/dev/sr0", "TEST_DISC")
	if err != nil {
		t.Fatalf("create job: %v", err)
	}

	if status == queue.StatusPending {
		return job
	}
	transitions := map[queue.Status][]queue.Status{
		queue.StatusRipping:     {queue.StatusRipping},
		queue.StatusRipped:      {queue.StatusRipping, queue.StatusRipped},
		queue.StatusEncoding:    {queue.StatusRipping, queue.StatusRipped, queue.StatusEncoding},
		queue.StatusEncoded:     {queue.StatusRipping, queue.StatusRipped, queue.StatusEncoding, queue.StatusEncoded},
		queue.StatusIdentifying: {queue.StatusRipping, queue.StatusRipped, queue.StatusEncoding, queue.StatusEncoded, queue.StatusIdentifying},
		queue.StatusReview:      {queue.StatusRipping, queue.StatusRipped, queue.StatusEncoding, queue.StatusEncoded, queue.StatusIdentifying, queue.StatusReview},
		queue.StatusMoving:      {queue.StatusRipping, queue.StatusRipped, queue.StatusEncoding, queue.StatusEncoded, queue.StatusIdentifying, queue.StatusMoving},
		queue.StatusComplete:    {queue.StatusRipping, queue.StatusRipped, queue.StatusEncoding, queue.StatusEncoded, queue.StatusIdentifying, queue.StatusMoving, queue.StatusComplete},
		queue.StatusFailed:      {queue.StatusFailed},
	}
	for _, s := range transitions[status] {
		if err := store.UpdateJobStatus(context.Background(), job.ID, s, ""); err != nil {
			t.Fatalf("advance job to %s: %v", s, err)
		}
	}
	return job
}

func TestApproveRequiresReview(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	job := jobAtStatus(t, store, queue.StatusPending)

	res, err := surface.Approve(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.Outcome != OutcomeInvalidState {
		t.Fatalf("expected invalid_state, got %s", res.Outcome)
	}
}

func TestApproveTransitionsToMoving(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	job := jobAtStatus(t, store, queue.StatusReview)

	res, err := surface.Approve(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.Outcome != OutcomeOK || res.Status != queue.StatusMoving {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestApproveNotFound(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})

	res, err := surface.Approve(context.Background(), 999)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if res.Outcome != OutcomeNotFound {
		t.Fatalf("expected not_found, got %s", res.Outcome)
	}
}

func TestIdentifyWritesHumanConfidenceAndMoves(t *testing.T) {
	store := newTestStore(t)
	catalog := &fakeCatalog{candidates: []identification.MovieCandidate{{CatalogID: 42, Title: "Dune", PosterRef: "/poster.jpg"}}}
	surface := newTestSurface(t, store, catalog)
	job := jobAtStatus(t, store, queue.StatusReview)

	year := 2021
	res, err := surface.Identify(context.Background(), job.ID, "Dune", &year)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if res.Outcome != OutcomeOK || res.Status != queue.StatusMoving {
		t.Fatalf("unexpected result: %+v", res)
	}

	updated, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if updated.Confidence == nil || *updated.Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", updated.Confidence)
	}
	if updated.PosterRef != "/poster.jpg" {
		t.Fatalf("expected poster carried over, got %q", updated.PosterRef)
	}
}

func TestIdentifyRejectsBadYear(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	job := jobAtStatus(t, store, queue.StatusReview)

	year := 1500
	res, err := surface.Identify(context.Background(), job.ID, "Old Movie", &year)
	if err != nil {
		t.Fatalf("identify: %v", err)
	}
	if res.Outcome != OutcomeInvalidState {
		t.Fatalf("expected invalid_state, got %s", res.Outcome)
	}
}

func TestSkipRequiresReviewAndFails(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	job := jobAtStatus(t, store, queue.StatusReview)

	res, err := surface.Skip(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if res.Outcome != OutcomeOK || res.Status != queue.StatusFailed {
		t.Fatalf("unexpected result: %+v", res)
	}

	updated, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if updated.ErrorMessage != "skipped by user" {
		t.Fatalf("expected skip message, got %q", updated.ErrorMessage)
	}
}

func TestPreIdentifyLeavesStatusUnchanged(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	job := jobAtStatus(t, store, queue.StatusEncoding)

	year := 2021
	res, err := surface.PreIdentify(context.Background(), job.ID, "Dune", &year)
	if err != nil {
		t.Fatalf("pre_identify: %v", err)
	}
	if res.Outcome != OutcomeOK || res.Status != queue.StatusEncoding {
		t.Fatalf("unexpected result: %+v", res)
	}

	updated, err := store.GetJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if !updated.IsPreIdentified() {
		t.Fatalf("expected job to be marked pre-identified")
	}
}

func TestPreIdentifyRejectsAfterIdentifierClaimsMove(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	job := jobAtStatus(t, store, queue.StatusMoving)

	res, err := surface.PreIdentify(context.Background(), job.ID, "Dune", nil)
	if err != nil {
		t.Fatalf("pre_identify: %v", err)
	}
	if res.Outcome != OutcomeInvalidState {
		t.Fatalf("expected invalid_state, got %s", res.Outcome)
	}
}

func TestArchiveRequiresTerminalStatus(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	job := jobAtStatus(t, store, queue.StatusReview)

	res, err := surface.Archive(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if res.Outcome != OutcomeInvalidState {
		t.Fatalf("expected invalid_state, got %s", res.Outcome)
	}
}

func TestArchiveThenReArchiveIsRejected(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	job := jobAtStatus(t, store, queue.StatusComplete)

	first, err := surface.Archive(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if first.Outcome != OutcomeOK || first.Status != queue.StatusArchived {
		t.Fatalf("unexpected first archive result: %+v", first)
	}

	second, err := surface.Archive(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("re-archive: %v", err)
	}
	if second.Outcome != OutcomeInvalidState {
		t.Fatalf("expected re-archive to be rejected, got %s", second.Outcome)
	}
}

func TestOversightCheckAndFixEncoding(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})

	jobAtStatus(t, store, queue.StatusEncoding)
	jobAtStatus(t, store, queue.StatusEncoding)

	issues, err := surface.OversightCheck(context.Background())
	if err != nil {
		t.Fatalf("oversight check: %v", err)
	}
	if len(issues) == 0 {
		t.Fatal("expected at least one issue with two encoding jobs")
	}

	fixed, err := surface.OversightFixEncoding(context.Background())
	if err != nil {
		t.Fatalf("fix encoding: %v", err)
	}
	if fixed != 1 {
		t.Fatalf("expected 1 job repaired, got %d", fixed)
	}
}

func TestActiveModeDefaultsOnAndToggles(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	ctx := context.Background()

	on, err := surface.ActiveMode(ctx)
	if err != nil {
		t.Fatalf("active mode: %v", err)
	}
	if !on {
		t.Fatal("expected active mode to default on")
	}

	toggled, err := surface.ToggleActiveMode(ctx)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled {
		t.Fatal("expected toggle to turn active mode off")
	}

	if _, err := surface.SetActiveMode(ctx, true); err != nil {
		t.Fatalf("set active mode: %v", err)
	}
	on, err = surface.ActiveMode(ctx)
	if err != nil {
		t.Fatalf("active mode: %v", err)
	}
	if !on {
		t.Fatal("expected active mode back on after explicit set")
	}
}

func TestAddAndRemoveWanted(t *testing.T) {
	store := newTestStore(t)
	surface := newTestSurface(t, store, &fakeCatalog{})
	ctx := context.Background()

	year := 2021
	added, err := surface.AddWanted(ctx, "Dune", &year, queue.ContentMovie, nil, "", "")
	if err != nil {
		t.Fatalf("add wanted: %v", err)
	}
	if added.Outcome != OutcomeOK || added.ID == 0 {
		t.Fatalf("unexpected add result: %+v", added)
	}

	removed, err := surface.RemoveWanted(ctx, added.ID)
	if err != nil {
		t.Fatalf("remove wanted: %v", err)
	}
	if removed.Outcome != OutcomeOK {
		t.Fatalf("unexpected remove result: %+v", removed)
	}

	again, err := surface.RemoveWanted(ctx, added.ID)
	if err != nil {
		t.Fatalf("remove wanted again: %v", err)
	}
	if again.Outcome != OutcomeNotFound {
		t.Fatalf("expected not_found on second removal, got %s", again.Outcome)
	}
}
