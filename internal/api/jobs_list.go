package api

import (
	"context"

	"platterd/internal/queue"
)

// ListJobs returns recent jobs for dashboard/CLI display, newest-updated
// first. excludeArchived hides archived jobs, matching the "active
// dashboard" framing in GLOSSARY's "Archived" entry.
func (s *Surface) ListJobs(ctx context.Context, limit int, excludeArchived bool) ([]*queue.Job, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.store.GetRecentJobs(ctx, limit, excludeArchived)
}
