package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sonemaro/arbor/pkg/output"
	"github.com/sonemaro/arbor/pkg/security"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Root is the directory to list
	Root string

	// Workers is the number of concurrent directory scanners
	Workers int

	// MaxDepth is the deepest directory level listed (-1 for unlimited)
	MaxDepth int

	// FollowSymlinks descends into symlinked directories
	FollowSymlinks bool

	// ShowHidden includes dot entries
	ShowHidden bool

	// Security enables the keyword findings section
	Security bool

	// Keywords replaces the default security keyword list when non-empty
	Keywords []string

	// Match is the keyword rule: substring or segment
	Match string

	// Format is the output format: tree, json, or yaml
	Format string

	// OutputFile is the path to write the output (empty for the console)
	OutputFile string

	// Stats appends scan statistics
	Stats bool

	// ASCII draws the tree with ASCII connectors
	ASCII bool

	// NoPager disables console paging
	NoPager bool

	// NoProgress disables the live directory counter
	NoProgress bool

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int

	// Timeout bounds the whole run (0 for none)
	Timeout time.Duration

	// LogFormat is the log encoding: json or console
	LogFormat string
}

// Options tells Load where to look beyond defaults and the environment.
type Options struct {
	// ConfigFile is an optional YAML file
	ConfigFile string

	// EnvFile is an optional dotenv file loaded into the process
	// environment; variables already set are kept
	EnvFile string

	// Flags are the parsed command-line flags. Only flags the user set
	// override other sources.
	Flags *pflag.FlagSet
}

// Load resolves the configuration from, in increasing precedence: defaults,
// the config file, the environment (after the dotenv file is applied) and
// explicitly set flags. The result is validated.
func Load(opts Options) (Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("max_depth", UnlimitedDepth)
	v.SetDefault("follow_symlinks", false)
	v.SetDefault("all", false)
	v.SetDefault("security", false)
	v.SetDefault("keywords", []string{})
	v.SetDefault("match", DefaultMatch)
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("output", "")
	v.SetDefault("stats", false)
	v.SetDefault("ascii", false)
	v.SetDefault("no_pager", false)
	v.SetDefault("no_progress", false)
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("log_format", DefaultLogFormat)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", opts.EnvFile, err)
		}
	}

	// Configure environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range sortedKeys() {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if opts.Flags != nil {
		for _, key := range sortedKeys() {
			flag := opts.Flags.Lookup(keys[key])
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag --%s: %w", flag.Name, err)
			}
		}
	}

	cfg := Config{
		Workers:        v.GetInt("workers"),
		MaxDepth:       v.GetInt("max_depth"),
		FollowSymlinks: v.GetBool("follow_symlinks"),
		ShowHidden:     v.GetBool("all"),
		Security:       v.GetBool("security"),
		Keywords:       stringList(v, "keywords"),
		Match:          strings.ToLower(strings.TrimSpace(v.GetString("match"))),
		Format:         strings.ToLower(strings.TrimSpace(v.GetString("format"))),
		OutputFile:     v.GetString("output"),
		Stats:          v.GetBool("stats"),
		ASCII:          v.GetBool("ascii"),
		NoPager:        v.GetBool("no_pager"),
		NoProgress:     v.GetBool("no_progress"),
		NoColor:        v.GetBool("no_color"),
		Verbose:        verbosity(v),
		Timeout:        v.GetDuration("timeout"),
		LogFormat:      strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid. Root is not checked here;
// the scanner reports a bad root.
func (c Config) Validate() error {
	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 1 and %d, got %d", ErrInvalid, MaxWorkers, c.Workers)
	}

	if c.MaxDepth < UnlimitedDepth {
		return fmt.Errorf("%w: max depth must be -1 (unlimited) or non-negative, got %d", ErrInvalid, c.MaxDepth)
	}

	if _, err := output.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if _, err := security.ParseRule(c.Match); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalid)
	}

	if c.Verbose < 0 {
		return fmt.Errorf("%w: verbosity must not be negative", ErrInvalid)
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log format must be json or console, got %q", ErrInvalid, c.LogFormat)
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Root: %s, Workers: %d, MaxDepth: %d, FollowSymlinks: %v, ShowHidden: %v, "+
			"Security: %v, Keywords: %v, Match: %s, Format: %s, OutputFile: %s, Stats: %v, "+
			"ASCII: %v, NoPager: %v, NoProgress: %v, NoColor: %v, Verbose: %d, Timeout: %s, LogFormat: %s}",
		c.Root, c.Workers, c.MaxDepth, c.FollowSymlinks, c.ShowHidden,
		c.Security, c.Keywords, c.Match, c.Format, c.OutputFile, c.Stats,
		c.ASCII, c.NoPager, c.NoProgress, c.NoColor, c.Verbose, c.Timeout, c.LogFormat,
	)
}

// verbosity accepts either a number or a run of v's, as in ARBOR_VERBOSE=vv.
func verbosity(v *viper.Viper) int {
	raw := strings.TrimSpace(v.GetString("verbose"))
	if raw != "" && strings.Trim(raw, "v") == "" {
		return len(raw)
	}
	return v.GetInt("verbose")
}

// stringList reads a list that may come from YAML, a repeated flag, or a
// comma-separated environment variable.
func stringList(v *viper.Viper, key string) []string {
	var out []string
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func sortedKeys() []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
