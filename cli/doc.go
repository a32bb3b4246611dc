// Package cli contains the command line interface for macro.
//
// # Usage
//
//	macro [flags] [render] [TEMPLATE] [--code CODE] [--model FILE] [--set KEY=VALUE]...
//	macro scan [TEMPLATE] [--format text|json|yaml|tree] [--indent N]
//	macro check TEMPLATE...
//	macro repl [--model FILE]
//	macro init [--force]
//
// Render is the default command. A template argument of "-" reads the
// template from stdin; with no argument the --code flag is rendered.
//
// # Configuration
//
// Flag defaults are read from two files in the configuration directory
// (for example ~/.config/macro): config.json through [kong.JSON], and
// config.yaml, a flat YAML mapping of flag names that `macro init` writes:
//
//	log-level: debug
//	log-format: text
//	root: /srv/site
//
// Command-line flags override both files.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o macro .
//
// --pprof-mode selects the profile and --pprof-dir the output directory
// (default ~/.cache/macro/pprof).
package cli
