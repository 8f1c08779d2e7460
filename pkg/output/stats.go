package output

import (
	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/sonemaro/arbor/pkg/tree"
)

// stats holds statistics about the rendered tree
type stats struct {
	Dirs         int   `json:"totalDirectories" yaml:"totalDirectories"`
	Files        int   `json:"totalFiles" yaml:"totalFiles"`
	Symlinks     int   `json:"totalSymlinks" yaml:"totalSymlinks"`
	Inaccessible int   `json:"inaccessible" yaml:"inaccessible"`
	Cycles       int   `json:"cycles" yaml:"cycles"`
	TotalSize    int64 `json:"totalSize" yaml:"totalSize"`
}

func (f *formatter) calculateStats(root *tree.PathEntry) *stats {
	f.log.Debug("Calculating directory statistics")

	s := &stats{}
	tree.Walk(root, func(e *tree.PathEntry, _ int) bool {
		switch e.Kind {
		case tree.File:
			s.Files++
			s.TotalSize += e.Size
		case tree.Directory:
			s.Dirs++
		case tree.Inaccessible:
			s.Inaccessible++
		}
		if e.Kind == tree.Symlink || e.Target != "" {
			s.Symlinks++
		}
		if e.Cycle {
			s.Cycles++
		}
		return true
	})

	f.log.WithFields(logger.Fields{
		"files":        s.Files,
		"dirs":         s.Dirs,
		"symlinks":     s.Symlinks,
		"inaccessible": s.Inaccessible,
		"size":         s.TotalSize,
	}).Debug("Statistics calculated")

	return s
}
