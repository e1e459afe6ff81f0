// Package identification resolves an ENCODED job's disc label into a
// catalog match with a bounded confidence score, or hands off to a human
// reviewer when no candidate is convincing enough (spec.md §4.5).
//
// The package owns three concerns kept deliberately separate so each is
// unit-testable without a network call: cleaning a raw disc volume label
// into a search query (label.go), scoring catalog candidates against that
// query (score.go), and the encoded->identifying->{moving,review}
// orchestration that ties label cleaning, catalog search, and scoring
// together (identifier.go).
package identification
