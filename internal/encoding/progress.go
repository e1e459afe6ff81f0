package encoding

import (
	"fmt"
	"strings"
	"time"
)

// ProgressUpdate carries incremental transcode status, grounded on the
// teacher's drapto.ProgressUpdate percent/fps/ETA fields.
type ProgressUpdate struct {
	PercentComplete float64
	FPS             float64
	ETA             time.Duration
	Message         string
}

// FormatETA renders a duration as a compact unpadded string such as
// "2h5m3s", "3h0m", "1m30s" or "45s", grounded on the teacher's
// encoding.formatETA: hours are omitted when zero, minutes when both hours
// and minutes are zero, and zero seconds whenever a larger unit is shown.
// Zero or negative durations render empty.
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	d = d.Round(time.Second)
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	parts := make([]string, 0, 3)
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 || (hours == 0 && minutes == 0) {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, "")
}
