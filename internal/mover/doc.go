// Package mover implements the file mover (spec.md §4.6): move a finished
// artifact into its library destination, record collection membership, and
// best-effort clean up the job's staging/encoding directories.
package mover
