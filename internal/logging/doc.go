// Package logging sets up structured logging for prox and provides a
// slog-backed tracer for the proximity kernel's observability hooks.
//
// By default only warnings and errors reach stderr. --debug (or
// logging.level: debug) turns on per-candidate tracing, which is verbose.
package logging
