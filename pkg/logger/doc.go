/*
Package logger provides structured logging for arbor. It wraps uber-go/zap
behind a small interface so scanning components can log with fields without
depending on zap directly.

Basic Usage:

	log := logger.NewLogger(logger.Config{
	    Verbosity: 1, // info and above
	})

	log.Info("scan started")
	log.Debug("listing directory") // only with verbosity >= 2
	log.Trace("entry classified")  // only with verbosity >= 3

Verbosity Levels:

	0: Warn, Error (default, keeps stderr quiet next to the rendered tree)
	1: Info + level 0
	2: Debug + level 1
	3: Trace + level 2

Structured Logging:

	log.WithFields(logger.Fields{
	    "component": "scanner",
	    "path":      "/some/path",
	    "entries":   42,
	}).Info("directory listed")

Output Example (JSON):

	{
	    "level": "info",
	    "ts": "2024-01-20T15:04:05.000Z",
	    "message": "directory listed",
	    "component": "scanner",
	    "path": "/some/path",
	    "entries": 42
	}

Setting Encoding to "console" switches to zap's human readable encoder.

The logger is safe for concurrent use by multiple goroutines; every worker of
the scan pool shares one instance.
*/
package logger
