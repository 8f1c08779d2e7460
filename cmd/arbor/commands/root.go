/*
Package commands implements the arbor command line: the root command that
lists a directory tree and the version subcommand.
*/
package commands

import (
	"fmt"

	"github.com/sonemaro/arbor/cmd/arbor/app"
	"github.com/sonemaro/arbor/internal/config"
	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Options holds command-line options that are not part of config.Config
type Options struct {
	ConfigFile string
	EnvFile    string

	// Fs replaces the OS filesystem, for tests
	Fs afero.Fs
}

// NewRootCommand creates the root command for the application
func NewRootCommand() *cobra.Command {
	return newRootCommand(&Options{})
}

func newRootCommand(opts *Options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arbor [flags] [path]",
		Short: "Concurrent directory tree lister",
		Long: `Arbor lists a directory tree, like tree(1), using a pool of concurrent
workers. The output is sorted with directories first and does not depend
on the number of workers.

Options can also be set in a YAML file (--config), a dotenv file
(--env-file) or ARBOR_* environment variables; flags take precedence.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.Flags()
	flags.IntP("workers", "w", config.DefaultWorkers, "number of concurrent workers")
	flags.StringP("output", "o", "", "write the tree to this file instead of the console")
	flags.BoolP("follow-symlinks", "f", false, "descend into symlinked directories")
	flags.BoolP("all", "a", false, "show hidden entries")
	flags.BoolP("security", "s", false, "flag directories whose names contain security keywords")
	flags.IntP("max-depth", "d", config.UnlimitedDepth, "deepest directory level to list (-1 for unlimited)")
	flags.DurationP("timeout", "t", 0, "abort the run after this duration (0 for none)")
	flags.String("format", config.DefaultFormat, "output format: tree|json|yaml")
	flags.StringSlice("keywords", nil, "security keywords, replacing the defaults")
	flags.String("match", config.DefaultMatch, "keyword match rule: substring|segment")
	flags.Bool("stats", false, "append scan statistics")
	flags.Bool("ascii", false, "draw the tree with ASCII connectors")
	flags.Bool("no-pager", false, "never page console output")
	flags.Bool("no-progress", false, "disable the live directory counter")
	flags.Bool("no-color", false, "disable colored output")
	flags.CountP("verbose", "v", "increase log verbosity (repeatable)")
	flags.String("log-format", config.DefaultLogFormat, "log encoding: json|console")
	flags.StringVar(&opts.ConfigFile, "config", "", "YAML config file")
	flags.StringVar(&opts.EnvFile, "env-file", "", "dotenv file loaded into the environment")

	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// run loads the configuration and executes one listing
func run(cmd *cobra.Command, args []string, opts *Options) error {
	cfg, err := config.Load(config.Options{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Root = "."
	if len(args) == 1 {
		cfg.Root = args[0]
	}

	log := logger.NewLogger(logger.Config{
		Verbosity: cfg.Verbose,
		Encoding:  logger.Encoding(cfg.LogFormat),
		Output:    cmd.ErrOrStderr(),
	})
	defer log.Sync()

	log.WithFields(logger.Fields{
		"verbosity": cfg.Verbose,
		"command":   cmd.Name(),
	}).Debug("Initializing command")

	ctx, stop := app.WithSignals(cmd.Context(), log)
	defer stop()

	return app.New(cfg, log, app.Options{
		Fs:     opts.Fs,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}).Run(ctx)
}
