package scanner

import (
	"sync/atomic"
	"time"

	"github.com/sonemaro/arbor/pkg/tree"
)

// Config contains scanner configuration options
type Config struct {
	// Workers is the number of concurrent directory scanners
	Workers int

	// MaxDepth limits recursion; the root is depth 0 and -1 means unlimited
	MaxDepth int

	// FollowSymlinks descends into symlinks that point at directories
	FollowSymlinks bool

	// ShowHidden includes entries whose name starts with a dot
	ShowHidden bool
}

// Result contains the complete scan results
type Result struct {
	Root   *tree.PathEntry
	Errors map[string]error
	Stats  ScanStats
}

// ScanStats contains statistics about the scanning operation
type ScanStats struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	Directories   int64
	Files         int64
	Symlinks      int64
	Inaccessible  int64
	Cycles        int64
	SkippedHidden int64
	TotalSize     int64
	Workers       int
}

// Progress represents the current progress of the scanning operation
type Progress struct {
	CurrentPath        string
	DirectoriesScanned int64
	EntriesFound       int64
	ActiveWorkers      int
	QueuedTasks        int
	StartTime          time.Time
}

// ScannerStats holds the atomic counters for scanner statistics
type ScannerStats struct {
	directoriesScanned atomic.Int64
	entriesFound       atomic.Int64
	skippedHidden      atomic.Int64
	currentPath        atomic.Value
}

// NewScannerStats creates zeroed counters.
func NewScannerStats() *ScannerStats {
	s := &ScannerStats{}
	s.currentPath.Store("")
	return s
}

// scanTask is one directory waiting to be listed.
type scanTask struct {
	path     string
	realPath string
	depth    int
	chain    *ancestry
}

// ancestry is the chain of canonical directory paths from the root down to
// a task. Chains share their tails and are never modified.
type ancestry struct {
	realPath string
	parent   *ancestry
}

func (a *ancestry) extend(realPath string) *ancestry {
	return &ancestry{realPath: realPath, parent: a}
}

func (a *ancestry) contains(realPath string) bool {
	for n := a; n != nil; n = n.parent {
		if n.realPath == realPath {
			return true
		}
	}
	return false
}
