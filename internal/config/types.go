package config

import (
	"errors"

	"github.com/sonemaro/arbor/pkg/worker"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Constants for configuration limits and defaults
const (
	// EnvPrefix prefixes every environment variable, e.g. ARBOR_WORKERS
	EnvPrefix = "ARBOR"

	// DefaultWorkers is the default pool size
	DefaultWorkers = 10

	// MaxWorkers is the largest accepted pool size
	MaxWorkers = worker.MaxWorkers

	// UnlimitedDepth represents unlimited directory depth
	UnlimitedDepth = -1

	// DefaultFormat is the default output format
	DefaultFormat = "tree"

	// DefaultMatch is the default keyword match rule
	DefaultMatch = "substring"

	// DefaultLogFormat is the default log encoding
	DefaultLogFormat = "json"
)

// keys maps each configuration key to its command-line flag. Keys double as
// YAML config file fields and, upper-cased with the prefix, as environment
// variable names.
var keys = map[string]string{
	"workers":         "workers",
	"max_depth":       "max-depth",
	"follow_symlinks": "follow-symlinks",
	"all":             "all",
	"security":        "security",
	"keywords":        "keywords",
	"match":           "match",
	"format":          "format",
	"output":          "output",
	"stats":           "stats",
	"ascii":           "ascii",
	"no_pager":        "no-pager",
	"no_progress":     "no-progress",
	"no_color":        "no-color",
	"verbose":         "verbose",
	"timeout":         "timeout",
	"log_format":      "log-format",
}
