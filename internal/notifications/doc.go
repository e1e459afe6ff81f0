// Package notifications delivers a single push notification (spec.md §6's
// notification boundary) via ntfy. Missing configuration degrades to a
// no-op that reports a failed Result rather than erroring the caller.
package notifications
