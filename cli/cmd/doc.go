// Package cmd implements the hotmark subcommands: render, plan, recover,
// fmt, init and repl.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// KeywordIdentifier is the kong variable identifier containing the
	// default invocation keyword.
	KeywordIdentifier = "keyword"
)
