package identification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"platterd/internal/logging"
	"platterd/internal/queue"
)

// Worker loops ProcessOne over ENCODED jobs, oldest first (spec.md §4.5: "one
// job per pass, bounded concurrency of one").
type Worker struct {
	id        *Identifier
	store     *queue.Store
	idleSleep time.Duration
	log       *slog.Logger
}

// NewWorker constructs the identifier's polling loop around an Identifier.
func NewWorker(id *Identifier, store *queue.Store, idleSleep time.Duration, log *slog.Logger) *Worker {
	return &Worker{id: id, store: store, idleSleep: idleSleep, log: log.With(logging.FieldComponent, "identifier")}
}

// Run polls for ENCODED jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		jobs, err := w.store.GetJobsByStatus(ctx, queue.StatusEncoded)
		if err != nil {
			w.log.Error("list encoded jobs failed", logging.FieldErrorHint, err.Error())
			w.sleep(ctx)
			continue
		}
		if len(jobs) == 0 {
			w.sleep(ctx)
			continue
		}

		job := jobs[0]
		if err := w.id.ProcessOne(ctx, job.ID); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.log.Error("identify failed", logging.FieldJobID, job.ID, logging.FieldErrorHint, err.Error())
		}
	}
}

func (w *Worker) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(w.idleSleep):
	}
}
