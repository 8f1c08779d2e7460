package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// SymlinkFs extends afero.Fs with the link operations the scanner needs:
// a non-following stat, reading a link's target, and resolving a path to
// its canonical location.
type SymlinkFs interface {
	afero.Fs
	afero.Lstater
	afero.LinkReader

	// RealPath resolves every symlink in name and returns an absolute path.
	RealPath(name string) (string, error)
}

// NewSymlinkFs adapts fs. The OS filesystem gets full symlink support; other
// filesystems report links only as far as they implement afero's optional
// interfaces.
func NewSymlinkFs(fs afero.Fs) SymlinkFs {
	switch f := fs.(type) {
	case SymlinkFs:
		return f
	case *afero.OsFs:
		return &OsSymlinkFs{OsFs: f}
	default:
		return &BasicSymlinkFs{Fs: fs}
	}
}

// OsSymlinkFs is the real filesystem.
type OsSymlinkFs struct {
	*afero.OsFs
}

// NewOsSymlinkFs returns the OS filesystem with symlink support.
func NewOsSymlinkFs() *OsSymlinkFs {
	return &OsSymlinkFs{OsFs: &afero.OsFs{}}
}

// RealPath implements SymlinkFs.
func (fs *OsSymlinkFs) RealPath(name string) (string, error) {
	resolved, err := filepath.EvalSymlinks(name)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

// BasicSymlinkFs wraps a filesystem without native link resolution, such as
// afero.MemMapFs. Paths are treated as already canonical.
type BasicSymlinkFs struct {
	afero.Fs
}

// LstatIfPossible implements afero.Lstater, falling back to Stat.
func (fs *BasicSymlinkFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if l, ok := fs.Fs.(afero.Lstater); ok {
		return l.LstatIfPossible(name)
	}
	info, err := fs.Fs.Stat(name)
	return info, false, err
}

// ReadlinkIfPossible implements afero.LinkReader.
func (fs *BasicSymlinkFs) ReadlinkIfPossible(name string) (string, error) {
	if r, ok := fs.Fs.(afero.LinkReader); ok {
		return r.ReadlinkIfPossible(name)
	}
	return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

// RealPath implements SymlinkFs.
func (fs *BasicSymlinkFs) RealPath(name string) (string, error) {
	if _, err := fs.Fs.Stat(name); err != nil {
		return "", err
	}
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	return abs, nil
}
