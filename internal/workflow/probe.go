package workflow

import (
	"context"
	"log/slog"
	"time"

	"platterd/internal/discprobe"
	"platterd/internal/logging"
	"platterd/internal/queue"
)

// DriveWatcher polls one drive's disc probe and fires job creation on
// absent->present edges. Edge detection is explicitly not the probe's
// responsibility (spec.md §4.2): the probe only answers (has_disc, label);
// this type owns the per-drive previous-state memory.
type DriveWatcher struct {
	drive        string
	prober       discprobe.Prober
	store        *queue.Store
	pollInterval time.Duration
	log          *slog.Logger

	hadDisc bool
}

// NewDriveWatcher constructs a watcher for one drive.
func NewDriveWatcher(drive string, prober discprobe.Prober, store *queue.Store, pollInterval time.Duration, log *slog.Logger) *DriveWatcher {
	return &DriveWatcher{
		drive:        drive,
		prober:       prober,
		store:        store,
		pollInterval: pollInterval,
		log:          log.With(logging.FieldComponent, "discprobe", logging.FieldDrive, drive),
	}
}

// Run polls until ctx is cancelled. A stuck probe on this drive never blocks
// any other drive's watcher since each runs its own goroutine and timer
// (spec.md §4.2: "probes per drive run on independent schedules").
func (w *DriveWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		result, err := w.prober.Probe(ctx, w.drive)
		if err != nil {
			// Probe errors are treated as "no disc" for edge purposes but
			// logged (spec.md §4.2).
			w.log.Warn("probe failed, treating as no disc", logging.FieldErrorHint, err.Error())
			result = discprobe.Result{HasDisc: false}
		}

		if result.HasDisc && !w.hadDisc {
			w.onDiscInserted(ctx, result.Label)
		}
		w.hadDisc = result.HasDisc

		w.sleep(ctx)
	}
}

func (w *DriveWatcher) onDiscInserted(ctx context.Context, label string) {
	job, err := w.store.CreateJob(ctx, w.drive, label)
	if err != nil {
		w.log.Error("create job on disc insertion failed", logging.FieldErrorHint, err.Error())
		return
	}
	w.log.Info("disc inserted, job created", logging.FieldJobID, job.ID, "label", label)
}

func (w *DriveWatcher) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.pollInterval):
	}
}
