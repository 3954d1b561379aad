// Package logging builds the slog loggers used across the tool.
//
// Two output formats exist: a console handler that renders one compact
// line per record with a component prefix, and a JSON handler for
// machine consumption. The attr helpers keep call sites terse and let the
// console handler special-case error values.
package logging
