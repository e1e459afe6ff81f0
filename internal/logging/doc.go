// Package logging builds the structured slog.Logger platterd uses
// everywhere: a colorized single-line console handler for interactive use
// and a JSON handler for file/production output, selected by configuration.
package logging
