package encoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"platterd/internal/logging"
	"platterd/internal/queue"
)

// Worker is the single global encode worker (spec.md §4.4): exactly one
// transcode runs at any wall-clock instant across the whole daemon.
type Worker struct {
	store       *queue.Store
	transcoder  Transcoder
	encodingDir string
	idleSleep   time.Duration
	log         *slog.Logger
}

// NewWorker constructs the encode worker.
func NewWorker(store *queue.Store, transcoder Transcoder, encodingDir string, idleSleep time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		store:       store,
		transcoder:  transcoder,
		encodingDir: encodingDir,
		idleSleep:   idleSleep,
		log:         log.With(logging.FieldComponent, "encoding"),
	}
}

// Run loops until ctx is cancelled, claiming and encoding RIPPED jobs one at
// a time, oldest first.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.claim(ctx)
		if err != nil {
			w.log.Error("claim ripped job failed", logging.FieldErrorHint, err.Error())
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

// claim returns the oldest RIPPED job, or nil if none, or nil if another
// writer already claimed it (spec.md §4.4 step 2).
func (w *Worker) claim(ctx context.Context) (*queue.Job, error) {
	jobs, err := w.store.GetJobsByStatus(ctx, queue.StatusRipped)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, nil
	}
	job := jobs[0]
	if err := w.store.UpdateJobStatus(ctx, job.ID, queue.StatusEncoding, ""); err != nil {
		if errors.Is(err, queue.ErrConflict) || queue.IsInvalidTransition(err) {
			return nil, nil
		}
		return nil, err
	}
	job.Status = queue.StatusEncoding
	return job, nil
}

func (w *Worker) process(ctx context.Context, job *queue.Job) {
	log := w.log.With(logging.FieldJobID, job.ID, logging.FieldRequestID, uuid.NewString())

	destDir := filepath.Join(w.encodingDir, fmt.Sprintf("job_%d", job.ID))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		w.fail(log, job.ID, fmt.Errorf("create encoding dir: %w", err))
		return
	}

	path, err := w.transcoder.Encode(ctx, job.RipPath, destDir, func(update ProgressUpdate) {
		log.Debug("encode progress",
			"percent", update.PercentComplete, "fps", update.FPS, "eta", FormatETA(update.ETA))
	})
	if err != nil {
		if ctx.Err() != nil {
			// Supervisor shutdown mid-encode: revert rather than fail, so the
			// job is re-picked on next start (spec.md §4.4 step 6). Use a
			// detached context since ctx is already cancelled.
			log.Warn("encode cancelled, reverting to ripped")
			revertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := w.store.UpdateJobStatus(revertCtx, job.ID, queue.StatusRipped, ""); err != nil {
				log.Error("revert to ripped failed", logging.FieldErrorHint, err.Error())
			}
			return
		}
		w.fail(log, job.ID, fmt.Errorf("encode: %w", err))
		return
	}

	if err := w.store.SetJobPath(ctx, job.ID, queue.PathEncode, path); err != nil {
		w.fail(log, job.ID, fmt.Errorf("record encode path: %w", err))
		return
	}
	if err := w.store.UpdateJobStatus(ctx, job.ID, queue.StatusEncoded, ""); err != nil {
		log.Error("transition to encoded failed", logging.FieldErrorHint, err.Error())
		return
	}

	log.Info("encode complete", logging.FieldPath, path)
}

func (w *Worker) fail(log *slog.Logger, jobID int64, cause error) {
	log.Error("encode failed", logging.FieldErrorHint, cause.Error())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.store.UpdateJobStatus(ctx, jobID, queue.StatusFailed, cause.Error()); err != nil {
		log.Error("transition to failed also failed", logging.FieldErrorHint, err.Error())
	}
}
