/*
Package app wires the arbor components into one run: scan the tree, mark
security findings, render, and write the result to the console or a file.

Usage:

	a := app.New(cfg, log, app.Options{})
	if err := a.Run(ctx); err != nil {
	    log.Fatal(err)
	}
*/
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sonemaro/arbor/internal/config"
	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/sonemaro/arbor/pkg/output"
	"github.com/sonemaro/arbor/pkg/progress"
	"github.com/sonemaro/arbor/pkg/scanner"
	"github.com/sonemaro/arbor/pkg/security"
	"github.com/sonemaro/arbor/pkg/sink"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// Options overrides the process defaults. Zero values mean the OS
// filesystem, os.Stdout and os.Stderr.
type Options struct {
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
}

// App represents one configured run
type App struct {
	config config.Config
	log    logger.Logger
	runID  string

	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer

	isTerminal func(io.Writer) bool
}

// New creates a new application instance
func New(cfg config.Config, log logger.Logger, opts Options) *App {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	runID := uuid.NewString()
	a := &App{
		config:     cfg,
		log:        log.WithFields(logger.Fields{"run": runID}),
		runID:      runID,
		fs:         opts.Fs,
		stdout:     opts.Stdout,
		stderr:     opts.Stderr,
		isTerminal: isTerminal,
	}

	a.log.WithFields(logger.Fields{
		"config": cfg.String(),
	}).Debug("Application initialized")

	return a
}

// Run scans the configured root and writes the rendered tree. Nothing is
// written when the scan fails or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	a.log.WithFields(logger.Fields{
		"path":    a.config.Root,
		"format":  a.config.Format,
		"workers": a.config.Workers,
	}).Info("Starting run")

	s := scanner.NewScanner(scanner.Config{
		Workers:        a.config.Workers,
		MaxDepth:       a.config.MaxDepth,
		FollowSymlinks: a.config.FollowSymlinks,
		ShowHidden:     a.config.ShowHidden,
	}, a.fs, a.log)

	result, err := a.scan(ctx, s)
	if err != nil {
		return err
	}

	var findings []string
	if a.config.Security {
		matcher, err := security.NewMatcher(security.Config{
			Keywords: a.config.Keywords,
			Rule:     security.Rule(a.config.Match),
		}, a.log)
		if err != nil {
			return fmt.Errorf("failed to configure security keywords: %w", err)
		}
		findings = matcher.Mark(result.Root)
	}

	format, err := output.ParseFormat(a.config.Format)
	if err != nil {
		return err
	}
	formatter := output.NewFormatter(output.Config{
		Format:       format,
		WithStats:    a.config.Stats,
		WithFindings: a.config.Security,
		WithColors:   a.useColor(),
		ASCII:        a.config.ASCII,
	}, a.log)

	text, err := formatter.Format(result.Root, findings)
	if err != nil {
		return fmt.Errorf("output formatting failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run cancelled before output: %w", err)
	}

	if err := a.write(ctx, text); err != nil {
		return err
	}

	a.log.WithFields(logger.Fields{
		"directories":  result.Stats.Directories,
		"files":        result.Stats.Files,
		"inaccessible": result.Stats.Inaccessible,
		"findings":     len(findings),
		"errors":       len(result.Errors),
		"duration":     result.Stats.Duration,
		"outputTo":     a.config.OutputFile,
	}).Info("Run completed")

	return nil
}

// scan runs the scanner with the live counter shown on stderr when it is a
// terminal.
func (a *App) scan(ctx context.Context, s scanner.Scanner) (scanner.Result, error) {
	if !a.config.NoProgress && a.isTerminal(a.stderr) {
		p := progress.New(progress.Config{
			Style:       progress.StyleSpinner,
			NoColor:     a.config.NoColor,
			RefreshRate: 100 * time.Millisecond,
			Writer:      a.stderr,
		}, progressSource(s), a.log)
		p.Start("Directories found")
		defer p.Stop()
	}

	result, err := s.Scan(ctx, a.config.Root)
	if err != nil {
		a.log.WithFields(logger.Fields{
			"path":  a.config.Root,
			"error": err,
		}).Error("Scan failed")
		return scanner.Result{}, fmt.Errorf("scan operation failed: %w", err)
	}
	return result, nil
}

// progressSource adapts the scanner's snapshot to the progress display.
func progressSource(s scanner.Scanner) progress.Source {
	return func() progress.Status {
		p := s.Progress()
		return progress.Status{
			DirectoriesFound: p.DirectoriesScanned,
			EntriesFound:     p.EntriesFound,
			ActiveWorkers:    p.ActiveWorkers,
			QueuedTasks:      p.QueuedTasks,
			CurrentItem:      p.CurrentPath,
		}
	}
}

// useColor reports whether the tree is rendered for a colour terminal.
func (a *App) useColor() bool {
	return !a.config.NoColor && a.config.OutputFile == "" && a.isTerminal(a.stdout)
}

// write sends text to the output file, or to the console through the pager.
func (a *App) write(ctx context.Context, text string) error {
	if a.config.OutputFile != "" {
		f := sink.NewFile(a.fs, a.config.OutputFile, a.log)
		if err := f.Write(ctx, text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(a.stderr, "Tree structure has been written to %s\n", f.Path())
		return nil
	}

	console := sink.NewConsole(sink.ConsoleConfig{
		Out:      a.stdout,
		UsePager: !a.config.NoPager,
		Pager:    os.Getenv("PAGER"),
	}, a.log)
	return console.Write(ctx, text)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
