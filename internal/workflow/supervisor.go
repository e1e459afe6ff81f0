package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"platterd/internal/catalog"
	"platterd/internal/config"
	"platterd/internal/discprobe"
	"platterd/internal/encoding"
	"platterd/internal/identification"
	"platterd/internal/logging"
	"platterd/internal/mover"
	"platterd/internal/notifications"
	"platterd/internal/oversight"
	"platterd/internal/queue"
	"platterd/internal/ripping"
)

// Supervisor owns the full pipeline lifecycle (spec.md §4.9) on a store the
// caller has already opened: run startup cleanup, start every worker, and
// tear down cleanly on shutdown. Grounded on the teacher's workflow.Manager Start/Stop/wg pattern.
type Supervisor struct {
	cfg   *config.Config
	store *queue.Store
	log   *slog.Logger

	notifier notifications.Service
	catalog  identification.Catalog
	oversee  *oversight.Monitor

	drivePollInterval time.Duration
	workerIdleSleep   time.Duration
	shutdownTimeout   time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New constructs a Supervisor around an already-open store.
func New(cfg *config.Config, store *queue.Store, log *slog.Logger) *Supervisor {
	notifier := notifications.NewConfigured(cfg.Notifications)
	return &Supervisor{
		cfg:               cfg,
		store:             store,
		log:               log.With(logging.FieldComponent, "supervisor"),
		notifier:          notifier,
		catalog:           catalog.NewConfigured(cfg.Catalog.BaseURL, cfg.Catalog.Token),
		oversee:           oversight.NewMonitor(store, notifier, time.Duration(cfg.Workflow.OversightInterval)*time.Second, log),
		drivePollInterval: time.Duration(cfg.Workflow.DrivePollInterval) * time.Second,
		workerIdleSleep:   time.Duration(cfg.Workflow.WorkerIdleSleep) * time.Second,
		shutdownTimeout:   time.Duration(cfg.Workflow.ShutdownTimeout) * time.Second,
	}
}

// Oversight exposes the oversight monitor for the control surface's
// oversight_check/oversight_fix_encoding operations.
func (s *Supervisor) Oversight() *oversight.Monitor { return s.oversee }

// Store exposes the underlying queue store for the control surface.
func (s *Supervisor) Store() *queue.Store { return s.store }

// Notifier exposes the notification service for the control surface.
func (s *Supervisor) Notifier() notifications.Service { return s.notifier }

// Catalog exposes the catalog client for the control surface's best-effort
// poster lookups on identify/pre_identify.
func (s *Supervisor) Catalog() identification.Catalog { return s.catalog }

// Start runs startup cleanup (spec.md §4.7) then launches every worker,
// each in its own goroutine, returning once everything is running.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("supervisor already running")
	}

	reset, err := s.store.ResetStuckOnStartup(ctx)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("startup cleanup: %w", err)
	}
	for status, count := range reset {
		if count > 0 {
			s.log.Info("reset stuck jobs on startup", "status", status, "count", count)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	runnables := s.buildRunnables()
	s.wg.Add(len(runnables))
	s.mu.Unlock()

	for _, r := range runnables {
		r := r
		go func() {
			defer s.wg.Done()
			r(runCtx)
		}()
	}

	s.log.Info("supervisor started", "drives", s.cfg.Drives.IDs)
	return nil
}

// Stop cancels every worker and waits for the current goroutines to
// return, bounded by the configured shutdown timeout. The encode worker's
// own cancellation handling (encoding->ripped reversion) happens inside that
// window (spec.md §4.4 step 6, §4.9 step 4).
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	s.running = false
	s.cancel = nil
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.shutdownTimeout):
		s.log.Warn("shutdown timeout elapsed before all workers exited")
	}
}

func (s *Supervisor) buildRunnables() []func(context.Context) {
	var runnables []func(context.Context)

	prober := discprobe.NewIOCTLProber()
	for _, drive := range s.cfg.Drives.IDs {
		watcher := NewDriveWatcher(drive, prober, s.store, s.drivePollInterval, s.log)
		runnables = append(runnables, watcher.Run)
	}

	ripPool := s.buildRipPool()
	runnables = append(runnables, func(ctx context.Context) {
		ripPool.Start(ctx)
		ripPool.Wait()
	})

	encodeWorker := encoding.NewWorker(
		s.store,
		encoding.NewHandBrakeClient(""),
		s.cfg.Paths.EncodingDir,
		s.workerIdleSleep,
		s.log,
	)
	runnables = append(runnables, encodeWorker.Run)

	identifier := identification.New(
		s.store,
		s.catalog,
		s.log,
		s.cfg.Identification.AutoApproveThreshold,
		s.cfg.Identification.MaxCandidates,
	)
	identifyWorker := identification.NewWorker(identifier, s.store, s.workerIdleSleep, s.log)
	runnables = append(runnables, identifyWorker.Run)

	fileMover := mover.NewMover(s.store, s.cfg.Library.MoviesDir, s.workerIdleSleep, s.log)
	runnables = append(runnables, fileMover.Run)

	runnables = append(runnables, s.oversee.Run)

	return runnables
}

func (s *Supervisor) buildRipPool() *ripping.Pool {
	ejector := discprobe.NewEjector()

	workers := make([]*ripping.Worker, 0, len(s.cfg.Drives.IDs))
	for _, drive := range s.cfg.Drives.IDs {
		makemkv := ripping.NewMakeMKVClient("", s.cfg.Ripping.RipTimeoutSeconds)
		workers = append(workers, ripping.NewWorker(
			drive, s.store, makemkv, makemkv, ejector,
			s.cfg.Paths.StagingDir, s.cfg.Ripping.MinFeatureSeconds, s.workerIdleSleep, s.log,
		))
	}
	return ripping.NewPool(workers)
}
