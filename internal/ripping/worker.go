package ripping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"platterd/internal/discprobe"
	"platterd/internal/logging"
	"platterd/internal/queue"
)

// Worker rips PENDING jobs bound to a single drive, one at a time (spec.md
// §4.3). A drive never hosts more than one rip at a time; different drives'
// Workers run concurrently and share nothing but the store.
type Worker struct {
	drive             string
	store             *queue.Store
	scanner           Scanner
	ripper            RipClient
	ejector           discprobe.Ejector
	stagingRoot       string
	minFeatureSeconds int
	idleSleep         time.Duration
	log               *slog.Logger
}

// NewWorker constructs a rip worker for one drive.
func NewWorker(drive string, store *queue.Store, scanner Scanner, ripper RipClient, ejector discprobe.Ejector, stagingRoot string, minFeatureSeconds int, idleSleep time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		drive:             drive,
		store:             store,
		scanner:           scanner,
		ripper:            ripper,
		ejector:           ejector,
		stagingRoot:       stagingRoot,
		minFeatureSeconds: minFeatureSeconds,
		idleSleep:         idleSleep,
		log:               log.With(logging.FieldComponent, "ripping", logging.FieldDrive, drive),
	}
}

// Run loops until ctx is cancelled, claiming and ripping this drive's
// pending jobs one at a time.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.claim(ctx)
		if err != nil {
			w.log.Error("claim pending job failed", logging.FieldErrorHint, err.Error())
			w.sleep(ctx)
			continue
		}
		if job == nil {
			w.sleep(ctx)
			continue
		}

		w.process(ctx, job)
	}
}

func (w *Worker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.idleSleep):
	}
}

// claim returns the next job to rip, or nil if none is pending, or nil if
// another writer beat us to the claim (spec.md §4.3 step 2: restart on
// conflict rather than treating it as an error).
func (w *Worker) claim(ctx context.Context) (*queue.Job, error) {
	job, err := w.store.GetPendingJobForDrive(ctx, w.drive)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}
	if err := w.store.UpdateJobStatus(ctx, job.ID, queue.StatusRipping, ""); err != nil {
		if errors.Is(err, queue.ErrConflict) || queue.IsInvalidTransition(err) {
			return nil, nil
		}
		return nil, err
	}
	job.Status = queue.StatusRipping
	return job, nil
}

func (w *Worker) process(ctx context.Context, job *queue.Job) {
	log := w.log.With(logging.FieldJobID, job.ID, logging.FieldRequestID, uuid.NewString())

	titles, err := w.scanner.ScanTitles(ctx, w.drive)
	if err != nil {
		w.fail(ctx, log, job.ID, fmt.Errorf("scan titles: %w", err))
		return
	}

	title, err := SelectMainTitle(titles, w.minFeatureSeconds)
	if err != nil {
		w.fail(ctx, log, job.ID, fmt.Errorf("select main title: %w", err))
		return
	}

	destDir := filepath.Join(w.stagingRoot, fmt.Sprintf("job_%d", job.ID))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		w.fail(ctx, log, job.ID, fmt.Errorf("create staging dir: %w", err))
		return
	}

	path, err := w.ripper.Rip(ctx, w.drive, title, destDir, func(update ProgressUpdate) {
		log.Debug("rip progress", "percent", update.PercentComplete, "message", update.Message)
	})
	if err != nil {
		w.fail(ctx, log, job.ID, fmt.Errorf("rip: %w", err))
		return
	}

	if err := w.store.SetJobPath(ctx, job.ID, queue.PathRip, path); err != nil {
		w.fail(ctx, log, job.ID, fmt.Errorf("record rip path: %w", err))
		return
	}
	if err := w.store.UpdateJobStatus(ctx, job.ID, queue.StatusRipped, ""); err != nil {
		log.Error("transition to ripped failed", logging.FieldErrorHint, err.Error())
		return
	}

	log.Info("rip complete", logging.FieldPath, path)

	if w.ejector != nil {
		if err := w.ejector.Eject(ctx, w.drive); err != nil {
			log.Warn("eject failed", logging.FieldErrorHint, err.Error())
		}
	}
}

func (w *Worker) fail(ctx context.Context, log *slog.Logger, jobID int64, cause error) {
	log.Error("rip failed", logging.FieldErrorHint, cause.Error())
	if err := w.store.UpdateJobStatus(ctx, jobID, queue.StatusFailed, cause.Error()); err != nil {
		log.Error("transition to failed also failed", logging.FieldErrorHint, err.Error())
	}
}
