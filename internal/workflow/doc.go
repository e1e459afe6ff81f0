// Package workflow wires the pipeline's workers into a single supervised
// lifecycle (spec.md §4.9): around an already-open store, run startup
// cleanup, start the disc probes, rip workers, encode worker, identifier,
// mover, and oversight monitor, then tear everything down cleanly on
// shutdown.
package workflow
