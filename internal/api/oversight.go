package api

import (
	"context"

	"platterd/internal/queue"
)

// OversightCheck returns the current list of detected consistency issues
// (spec.md §4.7, §4.8).
func (s *Surface) OversightCheck(ctx context.Context) ([]queue.OversightIssue, error) {
	return s.oversee.Check(ctx)
}

// OversightFixEncoding reverts every encoding job but the newest back to
// ripped and reports how many were repaired (spec.md §4.8, scenario 5).
func (s *Surface) OversightFixEncoding(ctx context.Context) (int, error) {
	return s.oversee.FixStuckEncoding(ctx)
}
