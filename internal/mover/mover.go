package mover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"platterd/internal/logging"
	"platterd/internal/queue"
)

// Mover moves MOVING jobs into their library destination (spec.md §4.6).
type Mover struct {
	store      *queue.Store
	moviesRoot string
	idleSleep  time.Duration
	log        *slog.Logger
}

// NewMover constructs the file mover.
func NewMover(store *queue.Store, moviesRoot string, idleSleep time.Duration, log *slog.Logger) *Mover {
	return &Mover{store: store, moviesRoot: moviesRoot, idleSleep: idleSleep, log: log.With(logging.FieldComponent, "mover")}
}

// Run loops until ctx is cancelled, moving MOVING jobs oldest-first.
func (m *Mover) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		jobs, err := m.store.GetJobsByStatus(ctx, queue.StatusMoving)
		if err != nil {
			m.log.Error("list moving jobs failed", logging.FieldErrorHint, err.Error())
			m.sleep(ctx)
			continue
		}
		if len(jobs) == 0 {
			m.sleep(ctx)
			continue
		}

		for _, job := range jobs {
			m.processOne(ctx, job)
		}
	}
}

func (m *Mover) sleep(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(m.idleSleep):
	}
}

// processOne moves a single job. If the library root does not exist, the
// job is left in MOVING for the next loop iteration rather than failed
// (spec.md §4.6 step 3: e.g. an external volume unmounted).
func (m *Mover) processOne(ctx context.Context, job *queue.Job) {
	log := m.log.With(logging.FieldJobID, job.ID, logging.FieldRequestID, uuid.NewString())

	if _, err := os.Stat(m.moviesRoot); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("movies root missing, will retry", "movies_root", m.moviesRoot)
			return
		}
		log.Error("stat movies root failed", logging.FieldErrorHint, err.Error())
		return
	}

	title := job.IdentifiedTitle
	if title == "" {
		title = "Unknown"
	}
	year := 0
	if job.IdentifiedYear != nil {
		year = *job.IdentifiedYear
	}
	ext := filepath.Ext(job.EncodePath)
	if ext == "" {
		ext = ".mkv"
	}
	dest := MovieDestination(m.moviesRoot, title, year, ext)

	if err := moveFile(job.EncodePath, dest); err != nil {
		m.fail(log, job.ID, fmt.Errorf("move to library: %w", err))
		return
	}

	if err := m.store.SetJobPath(ctx, job.ID, queue.PathFinal, dest); err != nil {
		m.fail(log, job.ID, fmt.Errorf("record final path: %w", err))
		return
	}
	if err := m.store.UpdateJobStatus(ctx, job.ID, queue.StatusComplete, ""); err != nil {
		log.Error("transition to complete failed", logging.FieldErrorHint, err.Error())
		return
	}

	yearPtr := job.IdentifiedYear
	if _, err := m.store.AddToCollection(ctx, job.ContentType, title, yearPtr, job.CatalogID, dest); err != nil {
		log.Error("record collection entry failed", logging.FieldErrorHint, err.Error())
	}

	log.Info("move complete", logging.FieldPath, dest)
	m.cleanup(log, job)
}

func (m *Mover) cleanup(log *slog.Logger, job *queue.Job) {
	for _, path := range []string{job.RipPath, job.EncodePath} {
		if path == "" {
			continue
		}
		dir := filepath.Dir(path)
		if err := os.RemoveAll(dir); err != nil {
			log.Error("cleanup staging directory failed", logging.FieldPath, dir, logging.FieldErrorHint, err.Error())
		}
	}
}

func (m *Mover) fail(log *slog.Logger, jobID int64, cause error) {
	log.Error("move failed", logging.FieldErrorHint, cause.Error())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.store.UpdateJobStatus(ctx, jobID, queue.StatusFailed, cause.Error()); err != nil {
		log.Error("transition to failed also failed", logging.FieldErrorHint, err.Error())
	}
}

// moveFile renames sourcePath to targetPath, falling back to copy+remove
// across filesystem boundaries. Grounded on the teacher's jellyfin.FileMover.
func moveFile(sourcePath, targetPath string) error {
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	if err := os.Rename(sourcePath, targetPath); err != nil {
		var linkErr *os.LinkError
		if errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
			if err := copyFileContents(sourcePath, targetPath); err != nil {
				return fmt.Errorf("copy file across devices: %w", err)
			}
			if err := os.Remove(sourcePath); err != nil {
				return fmt.Errorf("remove source after copy: %w", err)
			}
			return nil
		}
		return fmt.Errorf("move file: %w", err)
	}
	return nil
}

func copyFileContents(sourcePath, targetPath string) error {
	source, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer source.Close()

	info, err := source.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dest, err := os.OpenFile(targetPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return fmt.Errorf("copy data: %w", err)
	}
	if err := dest.Sync(); err != nil {
		dest.Close()
		return fmt.Errorf("sync destination: %w", err)
	}
	return dest.Close()
}
