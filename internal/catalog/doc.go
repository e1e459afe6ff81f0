// Package catalog looks up movie candidates by search query against TMDb
// (spec.md §4.5 step 3), implementing internal/identification's Catalog
// interface.
//
// When no API token is configured, NewConfigured returns a no-op client so
// the identifier degrades to manual review instead of failing startup
// (spec.md §7's CatalogUnavailable handling).
package catalog
