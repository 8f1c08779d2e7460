/*
Package tree holds the filesystem data model produced by a scan and the
single-threaded assembly step that links flat per-directory listings into one
ordered tree.

	root := tree.Assemble(rootEntry, collector.Listings(), collector.Failures())
	tree.Walk(root, func(e *tree.PathEntry, depth int) bool { ...; return true })
*/
package tree

import (
	"os"
	"strings"
	"time"
)

// Kind classifies a filesystem node.
type Kind int

const (
	// File is a regular file, device, socket or any other non-directory.
	File Kind = iota
	// Directory is a directory, or a followed symlink to one.
	Directory
	// Symlink is a symbolic link that was not expanded.
	Symlink
	// Inaccessible is an entry that could not be read.
	Inaccessible
)

func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "directory"
	case Symlink:
		return "symlink"
	case Inaccessible:
		return "inaccessible"
	default:
		return "unknown"
	}
}

// PathEntry describes one filesystem node.
type PathEntry struct {
	// Path is the display path: the root path joined with every name below it.
	Path string
	// Name is the base name used for display.
	Name string
	Kind Kind

	// Children is set only for directories and is never nil after assembly.
	Children []*PathEntry

	// Hidden is derived from the leading-dot naming convention at scan time.
	Hidden bool
	// Flagged is set by the security pass only.
	Flagged bool

	// Target is the link destination as read, for symlinks.
	Target string
	// Cycle marks a followed symlink whose target is one of its own ancestors.
	Cycle bool
	// Note annotates inaccessible entries, broken links and cycles.
	Note string

	Size    int64
	Mode    os.FileMode
	ModTime time.Time
}

// IsHiddenName reports whether name follows the hidden-file convention.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// IsDirLike reports whether the entry sorts and flags as a directory: real
// directories, cycle leaves, and directories whose listing failed.
func (e *PathEntry) IsDirLike() bool {
	switch {
	case e.Kind == Directory:
		return true
	case e.Cycle:
		return true
	case e.Kind == Inaccessible && e.Mode.IsDir():
		return true
	}
	return false
}

// Walk visits entries depth-first in child order. Returning false from fn
// skips the entry's children.
func Walk(root *PathEntry, fn func(e *PathEntry, depth int) bool) {
	walk(root, 0, fn)
}

func walk(e *PathEntry, depth int, fn func(*PathEntry, int) bool) {
	if e == nil {
		return
	}
	if !fn(e, depth) {
		return
	}
	for _, child := range e.Children {
		walk(child, depth+1, fn)
	}
}

// Paths returns every path in the tree in depth-first order.
func Paths(root *PathEntry) []string {
	var paths []string
	Walk(root, func(e *PathEntry, _ int) bool {
		paths = append(paths, e.Path)
		return true
	})
	return paths
}
