package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sonemaro/arbor/pkg/logger"
	"golang.org/x/term"
)

// ConsoleConfig configures a Console.
type ConsoleConfig struct {
	// Out receives the text. Defaults to os.Stdout.
	Out io.Writer

	// UsePager pipes the text through a pager when Out is a terminal.
	UsePager bool

	// Pager is the preferred pager command line, usually $PAGER.
	Pager string
}

// Console writes output to a terminal, optionally through a pager.
type Console struct {
	out      io.Writer
	usePager bool
	pager    string
	log      logger.Logger

	lookPath   func(string) (string, error)
	isTerminal func(io.Writer) bool
}

// NewConsole creates a console sink.
func NewConsole(config ConsoleConfig, log logger.Logger) *Console {
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		out:        out,
		usePager:   config.UsePager,
		pager:      config.Pager,
		log:        log.Named("sink"),
		lookPath:   exec.LookPath,
		isTerminal: isTerminal,
	}
}

// Write implements Sink.
func (c *Console) Write(ctx context.Context, text string) error {
	if c.usePager && c.isTerminal(c.out) {
		if args := c.pagerCommand(); args != nil {
			paged, err := c.page(ctx, args, text)
			if paged {
				return err
			}
			c.log.WithFields(logger.Fields{
				"pager": args[0],
				"error": err,
			}).Debug("Pager unavailable, writing directly")
		}
	}

	if _, err := io.WriteString(c.out, text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// pagerCommand picks the first available of the configured pager, less and
// more.
func (c *Console) pagerCommand() []string {
	candidates := [][]string{
		strings.Fields(c.pager),
		{"less", "-R"},
		{"more"},
	}
	for _, args := range candidates {
		if len(args) == 0 {
			continue
		}
		if _, err := c.lookPath(args[0]); err == nil {
			return args
		}
	}
	return nil
}

// page runs the pager. paged is false when the pager could not be started,
// in which case nothing was written.
func (c *Console) page(ctx context.Context, args []string, text string) (paged bool, err error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = c.out
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return false, err
	}

	c.log.WithFields(logger.Fields{
		"pager": strings.Join(args, " "),
	}).Debug("Paging output")

	// Quitting the pager early is not an error.
	if err := cmd.Wait(); err != nil {
		c.log.WithFields(logger.Fields{
			"pager": args[0],
			"error": err,
		}).Debug("Pager exited with error")
	}
	return true, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
