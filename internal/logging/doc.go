// Package logging assembles the structured slog loggers used by rppreview.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context helpers that tag log lines with the run id, project, and pipeline
// stage. A no-op logger is provided for tests and wiring code that cannot
// fail.
package logging
