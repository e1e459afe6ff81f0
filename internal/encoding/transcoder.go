package encoding

import "context"

// Transcoder invokes the external encoder on a ripped artifact, grounded on
// the teacher's drapto.Client seam (kept generic here since drapto itself is
// not wired into this domain — see DESIGN.md).
type Transcoder interface {
	Encode(ctx context.Context, ripPath, destDir string, progress func(ProgressUpdate)) (string, error)
}
