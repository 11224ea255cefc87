// Package cli contains the command line interface for hotmark.
//
// # Commands
//
//   - render: render a template file with variables (default command)
//   - plan: print the hot-reload format string of a template
//   - recover: print the template body invoked at a line of a source file
//   - fmt: format a template as native syntax, JSON, YAML, or an AST dump
//   - repl: render templates interactively; history is kept in
//     history.yaml of the user cache directory
//   - init: write the current flag values to the configuration file
//
// The --version flag prints the name, version and authors of hotmark.
//
// # Template Options
//
//   - --vars, -V: YAML or JSON variable file(s), or '-' for stdin
//   - --keyword: keyword introducing the template invocation (default html!)
//   - --max-iterations: iteration limit of each @while loop
//   - --strict: fail when template source cannot be recovered; also set by
//     HOTMARK_SOURCE_NO_FALLBACK=1
//
// # Configuration
//
// Flag defaults are read from the "config" document of config.yaml in the
// user configuration directory (see [kong.Configuration]):
//
//	config:
//	  log-level: debug
//	  keyword: "view!"
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o hotmark .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/hotmark/pprof)
//
// # Examples
//
//	# Render with variables, re-rendering each second as the file changes
//	hotmark render -V vars.yaml --watch=1s page.hm
//
//	# Show the format string and its number of dynamic pieces
//	hotmark plan page.hm && hotmark plan -c page.hm
//
//	# Debug logging with CPU profiling
//	hotmark --log-level=debug --pprof-mode=cpu render page.hm
package cli
