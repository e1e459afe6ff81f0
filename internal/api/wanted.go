package api

import (
	"context"

	"platterd/internal/queue"
)

// WantedResult is the outcome of a wanted-list mutation.
type WantedResult struct {
	Outcome Outcome `json:"outcome"`
	ID      int64   `json:"id,omitempty"`
}

// AddWanted inserts a want-list entry and returns its id.
func (s *Surface) AddWanted(ctx context.Context, title string, year *int, contentType queue.ContentType, catalogID *int64, posterRef, notes string) (WantedResult, error) {
	if !validYear(year) {
		return WantedResult{Outcome: OutcomeInvalidState}, nil
	}
	id, err := s.store.AddToWanted(ctx, title, year, contentType, catalogID, posterRef, notes)
	if err != nil {
		return WantedResult{}, err
	}
	return WantedResult{Outcome: OutcomeOK, ID: id}, nil
}

// RemoveWanted deletes a want-list entry by id.
func (s *Surface) RemoveWanted(ctx context.Context, id int64) (WantedResult, error) {
	if err := s.store.RemoveFromWanted(ctx, id); err != nil {
		if err == queue.ErrNotFound {
			return WantedResult{Outcome: OutcomeNotFound, ID: id}, nil
		}
		return WantedResult{}, err
	}
	return WantedResult{Outcome: OutcomeOK, ID: id}, nil
}
