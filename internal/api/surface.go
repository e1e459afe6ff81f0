package api

import (
	"context"
	"log/slog"

	"platterd/internal/identification"
	"platterd/internal/logging"
	"platterd/internal/notifications"
	"platterd/internal/oversight"
	"platterd/internal/queue"
)

// Outcome is the three-way result every control-surface operation reports
// (spec.md §4.8), independent of any particular transport.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeNotFound     Outcome = "not_found"
	OutcomeInvalidState Outcome = "invalid_state"
)

const activeModeSetting = "active_mode"

// Result is the JSON shape every job-mutating operation returns.
type Result struct {
	Outcome Outcome      `json:"outcome"`
	JobID   int64        `json:"job_id,omitempty"`
	Status  queue.Status `json:"status,omitempty"`
	Detail  string       `json:"detail,omitempty"`
}

func okResult(jobID int64, status queue.Status) Result {
	return Result{Outcome: OutcomeOK, JobID: jobID, Status: status}
}

func notFoundResult(jobID int64) Result {
	return Result{Outcome: OutcomeNotFound, JobID: jobID}
}

func invalidStateResult(jobID int64, detail string) Result {
	return Result{Outcome: OutcomeInvalidState, JobID: jobID, Detail: detail}
}

// Surface implements the control surface (spec.md §4.8): a pure wrapper over
// the store, catalog, and oversight monitor with no transport concern of its
// own, grounded on the teacher's api.QueueActionService constructor-injected
// dependency pattern (spec.md §9's "construct with explicit dependencies").
type Surface struct {
	store    *queue.Store
	catalog  identification.Catalog
	oversee  *oversight.Monitor
	notifier notifications.Service
	log      *slog.Logger
}

// NewSurface constructs a Surface from its dependencies.
func NewSurface(store *queue.Store, catalog identification.Catalog, oversee *oversight.Monitor, notifier notifications.Service, log *slog.Logger) *Surface {
	return &Surface{
		store:    store,
		catalog:  catalog,
		oversee:  oversee,
		notifier: notifier,
		log:      log.With(logging.FieldComponent, "api"),
	}
}

// classifyJobErr maps a store error onto a Result outcome, or reports it is
// not classifiable (an unexpected failure the caller should propagate).
func classifyJobErr(jobID int64, err error) (Result, bool) {
	switch {
	case err == nil:
		return Result{}, false
	case queue.IsInvalidTransition(err):
		return invalidStateResult(jobID, err.Error()), true
	case err == queue.ErrNotFound:
		return notFoundResult(jobID), true
	default:
		return Result{}, false
	}
}

func contains(statuses []queue.Status, target queue.Status) bool {
	for _, s := range statuses {
		if s == target {
			return true
		}
	}
	return false
}

func (s *Surface) getJob(ctx context.Context, jobID int64) (*queue.Job, *Result, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		if err == queue.ErrNotFound {
			res := notFoundResult(jobID)
			return nil, &res, nil
		}
		return nil, nil, err
	}
	return job, nil, nil
}
