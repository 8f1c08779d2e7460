package scanner

import (
	"errors"
	"fmt"
	"io/fs"
)

// ConfigError is a fatal problem detected before any worker starts: the root
// is missing, not a directory, or unreadable, or the scanner is misconfigured.
type ConfigError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := e.Reason
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Reason, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// AccessError records an entry that could not be read. It never stops the
// traversal; the entry is shown as inaccessible.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot access %s: %s", e.Path, describe(e.Err))
}

func (e *AccessError) Unwrap() error { return e.Err }

// Note is the short form shown next to an inaccessible entry.
func (e *AccessError) Note() string { return describe(e.Err) }

// CycleError records a followed symlink that leads back to one of its own
// ancestors. The link is shown as a leaf.
type CycleError struct {
	Path   string
	Target string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("symlink cycle: %s -> %s", e.Path, e.Target)
}

// describe reduces a filesystem error to a short note without the path,
// which is already visible in the tree.
func describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	case errors.Is(err, fs.ErrNotExist):
		return "no such file or directory"
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
