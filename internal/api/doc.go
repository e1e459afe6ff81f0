// Package api implements the control surface (spec.md §4.8): pure
// operations over the queue store and wanted list, each a thin wrapper over
// store access plus guard logic. Every operation reports one of three
// outcomes — not_found, invalid_state, ok — so an HTTP layer can map them
// onto status codes without re-deriving the guard logic.
package api
