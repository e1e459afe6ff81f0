// Package encoding implements the single global encode worker (spec.md
// §4.4): claim the oldest RIPPED job, run the external transcoder against
// its rip artifact, and record the encoded artifact path. Exactly one
// encode runs at any wall-clock instant; the worker enforces this by
// serializing its own claim loop rather than relying on the store alone
// (internal/oversight repairs any invariant violation that slips through).
package encoding
