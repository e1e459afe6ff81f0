// Package daemon ties config, store, supervisor, and control-surface HTTP
// server into one process lifecycle with single-instance enforcement
// (spec.md §4.9), grounded on the teacher's daemon.Daemon lock/start/stop
// pattern.
package daemon
