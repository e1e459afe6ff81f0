// Package queue persists jobs, collection entries, wanted items, and
// settings in SQLite and enforces the job status state graph.
//
// The Store is the single durable source of truth described by the job
// pipeline: every worker mutates a job exclusively through Store methods, and
// every status transition is validated against the graph in models.go before
// it is committed. Readers observe committed state only.
//
// Treat this package as authoritative for job semantics: adding a status or
// a transition means updating allStatuses, the transition graph, and
// schema.sql together.
package queue
