// Package config resolves arbor's settings from defaults, an optional YAML
// file, an optional dotenv file, ARBOR_* environment variables and
// command-line flags, in that order of increasing precedence.
//
// # Loading
//
//	cfg, err := config.Load(config.Options{
//	    ConfigFile: "arbor.yaml",
//	    Flags:      cmd.Flags(),
//	})
//	if errors.Is(err, config.ErrInvalid) {
//	    // a value was out of range
//	}
//
// # Environment Variables
//
//	ARBOR_WORKERS          Number of concurrent workers (default: 10, max 1024)
//	ARBOR_MAX_DEPTH        Deepest directory level listed (-1 for unlimited)
//	ARBOR_FOLLOW_SYMLINKS  Descend into symlinked directories (true/false)
//	ARBOR_ALL              Show hidden entries (true/false)
//	ARBOR_SECURITY         Print security findings (true/false)
//	ARBOR_KEYWORDS         Comma-separated security keywords
//	ARBOR_MATCH            Keyword rule: substring|segment
//	ARBOR_FORMAT           Output format: tree|json|yaml
//	ARBOR_OUTPUT           Output file path (empty for the console)
//	ARBOR_STATS            Append statistics (true/false)
//	ARBOR_ASCII            ASCII tree connectors (true/false)
//	ARBOR_NO_PAGER         Never page console output (true/false)
//	ARBOR_NO_PROGRESS      Disable the live counter (true/false)
//	ARBOR_NO_COLOR         Disable colored output (true/false)
//	ARBOR_VERBOSE          Verbosity level (0-3)
//	ARBOR_TIMEOUT          Whole-run deadline, e.g. 30s (0 for none)
//	ARBOR_LOG_FORMAT       Log encoding: json|console
//
// The config file uses the same names in lower case, for example:
//
//	workers: 16
//	max_depth: 3
//	keywords: [secret, vault]
//
// # Validation
//
// Every validation error wraps ErrInvalid.
package config
