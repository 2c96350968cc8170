// Package logging assembles the structured slog loggers used by reviewbot.
//
// It owns the console and JSON handlers, the CRITICAL level used for fatal
// startup conditions, and the handler that mirrors every record to stdout and
// to the per-run log file. Components obtain a named child logger through
// Named so every line carries a logger attribute identifying its origin.
//
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
