package oversight

import (
	"context"
	"log/slog"
	"time"

	"platterd/internal/logging"
	"platterd/internal/notifications"
	"platterd/internal/queue"
)

// Monitor periodically runs CheckConsistency and notifies on findings
// (spec.md §4.7). It also exposes Check and FixStuckEncoding directly for
// the control surface's on-demand oversight operations.
type Monitor struct {
	store    *queue.Store
	notifier notifications.Service
	interval time.Duration
	log      *slog.Logger
}

// NewMonitor constructs the oversight monitor.
func NewMonitor(store *queue.Store, notifier notifications.Service, interval time.Duration, log *slog.Logger) *Monitor {
	return &Monitor{
		store:    store,
		notifier: notifier,
		interval: interval,
		log:      log.With(logging.FieldComponent, "oversight"),
	}
}

// Check reports current consistency issues without repairing them.
func (m *Monitor) Check(ctx context.Context) ([]queue.OversightIssue, error) {
	return m.store.CheckConsistency(ctx)
}

// FixStuckEncoding reverts every ENCODING job but the most recently updated
// one back to RIPPED, per spec.md §4.7's encode-slot repair.
func (m *Monitor) FixStuckEncoding(ctx context.Context) (int, error) {
	return m.store.FixStuckEncoding(ctx)
}

// Run audits consistency on a fixed interval until ctx is cancelled,
// notifying about any issues found. Grounded on the teacher's
// workflow.HeartbeatMonitor.StartLoop ticker pattern.
func (m *Monitor) Run(ctx context.Context) {
	if m.interval <= 0 {
		return
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context) {
	issues, err := m.store.CheckConsistency(ctx)
	if err != nil {
		m.log.Error("consistency check failed", logging.FieldErrorHint, err.Error())
		return
	}
	if len(issues) == 0 {
		return
	}

	for _, issue := range issues {
		m.log.Warn("oversight issue detected", "kind", issue.Kind, "detail", issue.Detail)
	}

	if !m.activeMode(ctx) {
		return
	}
	result := m.notifier.Notify(ctx, "Oversight issue detected", issues[0].Detail, 1, "")
	if !result.Success && result.Err != nil {
		m.log.Debug("oversight notification not delivered", logging.FieldErrorHint, result.Err.Error())
	}
}

// activeMode reports whether operator alerts are currently enabled
// (GLOSSARY, "Active mode"). Unset means on.
func (m *Monitor) activeMode(ctx context.Context) bool {
	value, ok, err := m.store.GetSetting(ctx, "active_mode")
	if err != nil || !ok {
		return true
	}
	return value == "true"
}
