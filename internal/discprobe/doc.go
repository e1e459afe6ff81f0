// Package discprobe answers, for a single drive, whether a disc is present
// and what label it carries (spec.md §4.2). Edge detection — deciding when
// an absent→present transition should create a job — is not this package's
// responsibility; the supervisor in internal/workflow owns that state.
package discprobe
