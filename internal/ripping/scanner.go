package ripping

import "context"

// Scanner reports a disc's title list ahead of ripping, grounded on the
// teacher's makemkv scan-then-rip split (spec.md §4.3 step 3).
type Scanner interface {
	ScanTitles(ctx context.Context, driveID string) ([]TitleInfo, error)
}

// RipClient invokes the external ripper against one already-selected title,
// grounded on the teacher's makemkv.Ripper interface.
type RipClient interface {
	Rip(ctx context.Context, driveID string, title TitleInfo, destDir string, progress func(ProgressUpdate)) (string, error)
}

// ProgressUpdate carries incremental rip status, mirrored from the
// teacher's makemkv.ProgressUpdate shape.
type ProgressUpdate struct {
	PercentComplete float64
	Message         string
}
