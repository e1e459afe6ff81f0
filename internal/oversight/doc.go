// Package oversight periodically audits queue state for impossible or
// stuck conditions (spec.md §4.7) and exposes the same checks for the
// control surface's oversight_check/oversight_fix_encoding operations.
package oversight
