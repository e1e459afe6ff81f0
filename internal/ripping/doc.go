// Package ripping implements the per-drive rip worker pool (spec.md §4.3):
// claim the oldest PENDING job for a drive, pick a main title from the
// disc's title list, invoke an external ripper into staging, and eject.
package ripping
