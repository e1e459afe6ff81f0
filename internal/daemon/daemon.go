package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"platterd/internal/api"
	"platterd/internal/config"
	"platterd/internal/logging"
	"platterd/internal/queue"
	"platterd/internal/workflow"
)

// Daemon owns the full process lifecycle: config, store, supervisor, and
// control-surface HTTP server, plus single-instance enforcement via an
// on-disk lock file (spec.md §4.9).
type Daemon struct {
	cfg        *config.Config
	log        *slog.Logger
	store      *queue.Store
	supervisor *workflow.Supervisor
	apiServer  *api.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New opens the store and wires the supervisor and control surface around
// it. It does not start anything yet — call Start.
func New(cfg *config.Config, log *slog.Logger) (*Daemon, error) {
	if cfg == nil || log == nil {
		return nil, errors.New("daemon requires config and logger")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure workspace directories: %w", err)
	}

	store, err := queue.Open(context.Background(), cfg.Paths.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open queue store: %w", err)
	}

	supervisor := workflow.New(cfg, store, log)
	surface := api.NewSurface(store, supervisor.Catalog(), supervisor.Oversight(), supervisor.Notifier(), log)

	lockPath := filepath.Join(cfg.Paths.DataDir, "platterd.lock")
	return &Daemon{
		cfg:        cfg,
		log:        log.With(logging.FieldComponent, "daemon"),
		store:      store,
		supervisor: supervisor,
		apiServer:  api.NewServer(cfg.Paths.APIBind, surface, log),
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the single-instance lock, runs startup cleanup, and
// launches every worker plus the control-surface HTTP server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !ok {
		return errors.New("another platterd instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.supervisor.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start supervisor: %w", err)
	}
	if err := d.apiServer.Start(runCtx); err != nil {
		d.supervisor.Stop()
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}

	d.cancel = cancel
	d.running.Store(true)
	d.log.Info("platterd daemon started", "lock", d.lockPath, "api_bind", d.cfg.Paths.APIBind)
	return nil
}

// Stop cancels the running workers and control surface, in reverse
// startup order, and releases the single-instance lock (spec.md §4.9 step 4).
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.apiServer.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.supervisor.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.log.Warn("failed to release daemon lock", logging.FieldErrorHint, err.Error())
	}
	d.running.Store(false)
	d.log.Info("platterd daemon stopped")
}

// Close stops the daemon (if running) and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	return d.store.Close()
}
