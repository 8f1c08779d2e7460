/*
Package output renders an assembled tree as text, JSON, or YAML.

The tree format is built from RenderTree, a pure function that turns a tree
into lines. Formatter adds the optional security findings and statistics
sections. No format includes timestamps, so an unchanged tree always renders
to the same bytes.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:       output.FormatTree,
		WithStats:    true,
		WithFindings: true,
	}, log)

	text, err := formatter.Format(root, findings)
*/
package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/sonemaro/arbor/pkg/tree"
)

// Format represents the output format type
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTree, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTree, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Config holds formatter configuration
type Config struct {
	Format       Format
	WithStats    bool
	WithFindings bool
	WithColors   bool
	ASCII        bool
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format renders root. findings are the flagged paths, in display order;
	// they are only printed when the formatter has findings enabled.
	Format(root *tree.PathEntry, findings []string) (string, error)
}

// formatter implements the Formatter interface
type formatter struct {
	config Config
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	return &formatter{
		config: config,
		log:    log.Named("output"),
	}
}

// Format formats the tree according to the configured format
func (f *formatter) Format(root *tree.PathEntry, findings []string) (string, error) {
	if root == nil {
		msg := "nil tree provided for formatting"
		f.log.Error(msg)
		return "", errors.New(msg)
	}

	f.log.WithFields(logger.Fields{
		"format":       f.config.Format,
		"withStats":    f.config.WithStats,
		"withFindings": f.config.WithFindings,
		"withColors":   f.config.WithColors,
	}).Debug("Starting format operation")

	switch f.config.Format {
	case FormatTree, "":
		return f.formatTree(root, findings)
	case FormatJSON:
		return f.formatJSON(root, findings)
	case FormatYAML:
		return f.formatYAML(root, findings)
	default:
		msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
		f.log.Error(msg)
		return "", errors.New(msg)
	}
}
