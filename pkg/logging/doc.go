// Package logging provides structured logging for jose, built on the
// standard slog package.
//
// Commands print their user-facing output directly; this package carries
// the diagnostic stream (debug details, warnings about non-fatal failures)
// with a subsystem tag per entry. Initialize once at startup with Init;
// before initialization all entries are dropped.
//
// Secrets policy: access tokens, refresh tokens and authorization codes
// must never appear in log entries at any level.
package logging
