// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is configured at creation with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The zero [Logger] discards everything, so packages accept one as an
// optional dependency without checking for nil.
//
// Levels are [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn], and
// [LevelError]. Trace is below slog's debug level and prints as "TRACE".
//
// Pretty output, enabled by default, colorizes records with lipgloss styles;
// the text format stays on one line while the JSON format prints one field
// per line. Colors are dropped when the terminal does not support them.
//
// The package-level functions log through [Default], which [Config]
// reconfigures in place.
package log
