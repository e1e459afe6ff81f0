// Package config loads and validates platterd's TOML configuration file,
// following the same load/normalize/validate sequence and embedded-sample
// pattern the daemon has always used.
package config
