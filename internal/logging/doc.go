// Package logging assembles structured slog loggers and formatting helpers used
// across romkit commands.
//
// It owns the console and JSON handlers, maps configured levels, and exposes
// context helpers that tag log lines with the check run identifier. Output
// defaults to stderr: stdout belongs to command results such as the printed
// engine version.
package logging
