package discprobe

import "context"

// Result is the disc probe's entire contract: presence plus whatever label
// the drive surfaces. An empty label is a valid value distinct from "no
// disc" (spec.md §4.2).
type Result struct {
	HasDisc bool
	Label   string
}

// Prober answers (has_disc, label) for one drive. Implementations may shell
// out to drive tooling; callers must not depend on anything beyond this pair
// (spec.md's open question rules out depending on vendor information).
type Prober interface {
	Probe(ctx context.Context, driveID string) (Result, error)
}
