// Package logging wires log/slog with a console handler for interactive use
// and a JSON handler for machine consumption, plus helpers to thread job and
// stage identifiers from context into log records.
package logging
