package sink

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/spf13/afero"
)

// File writes output to a file, replacing any previous content.
type File struct {
	fs   afero.Fs
	path string
	log  logger.Logger
}

// NewFile creates a file sink for path on fs.
func NewFile(fs afero.Fs, path string, log logger.Logger) *File {
	return &File{
		fs:   fs,
		path: path,
		log:  log.Named("sink"),
	}
}

// Path returns the destination path.
func (f *File) Path() string { return f.path }

// Write implements Sink.
func (f *File) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "." {
		if err := f.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.path, err)
		}
	}

	if err := afero.WriteFile(f.fs, f.path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}

	f.log.WithFields(logger.Fields{
		"path":  f.path,
		"bytes": len(text),
	}).Info("Output written to file")
	return nil
}
