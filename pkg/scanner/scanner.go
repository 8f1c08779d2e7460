/*
Package scanner lists a directory tree concurrently.

Every directory becomes one task on a shared work queue. A fixed pool of
workers pops tasks, lists the directory, classifies each child and pushes
child directories back onto the queue. Listings are gathered in a Collector
and assembled into a sorted tree once every worker has returned, so the
result does not depend on scheduling.

Basic usage:

	config := scanner.Config{
		Workers:  10,
		MaxDepth: -1,
	}

	s := scanner.NewScanner(config, afero.NewOsFs(), log)
	result, err := s.Scan(ctx, "/path/to/scan")
*/
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sonemaro/arbor/pkg/logger"
	"github.com/sonemaro/arbor/pkg/tree"
	"github.com/sonemaro/arbor/pkg/worker"
	"github.com/spf13/afero"
)

// Scanner defines the interface for directory scanning operations
type Scanner interface {
	// Scan lists the tree below root and returns it assembled and sorted
	Scan(ctx context.Context, root string) (Result, error)

	// Progress returns the current scanning progress
	Progress() Progress
}

// scanner implements the Scanner interface
type scanner struct {
	config    Config
	fs        SymlinkFs
	log       logger.Logger
	pool      atomic.Pointer[worker.Pool[scanTask]]
	stats     *ScannerStats
	startTime atomic.Value
}

// NewScanner creates a scanner over fs.
func NewScanner(config Config, fs afero.Fs, log logger.Logger) Scanner {
	return &scanner{
		config: config,
		fs:     NewSymlinkFs(fs),
		log:    log.Named("scanner"),
		stats:  NewScannerStats(),
	}
}

// Scan performs the directory scan operation
func (s *scanner) Scan(ctx context.Context, root string) (Result, error) {
	if s.config.Workers <= 0 || s.config.Workers > worker.MaxWorkers {
		return Result{}, &ConfigError{
			Reason: fmt.Sprintf("workers must be between 1 and %d, got %d", worker.MaxWorkers, s.config.Workers),
		}
	}

	rootPath := filepath.Clean(root)
	rootInfo, realRoot, err := s.checkRoot(rootPath)
	if err != nil {
		s.log.WithFields(logger.Fields{
			"path":  rootPath,
			"error": err,
		}).Error("Root check failed")
		return Result{}, err
	}

	s.log.WithFields(logger.Fields{
		"path":           rootPath,
		"realPath":       realRoot,
		"workers":        s.config.Workers,
		"maxDepth":       s.config.MaxDepth,
		"followSymlinks": s.config.FollowSymlinks,
		"showHidden":     s.config.ShowHidden,
	}).Info("Starting scan operation")

	startTime := time.Now()
	s.startTime.Store(startTime)

	pool, err := worker.NewPool[scanTask](worker.Config{Workers: s.config.Workers})
	if err != nil {
		return Result{}, &ConfigError{Reason: "failed to create worker pool", Err: err}
	}
	s.pool.Store(pool)

	collector := NewCollector()
	handler := func(ctx context.Context, task scanTask, queue *worker.Queue[scanTask]) error {
		return s.scanDir(ctx, task, queue, collector)
	}

	seed := scanTask{
		path:     rootPath,
		realPath: realRoot,
		chain:    &ancestry{realPath: realRoot},
	}
	if err := pool.Run(ctx, handler, seed); err != nil {
		s.log.WithFields(logger.Fields{
			"path":  rootPath,
			"error": err,
		}).Warn("Scan aborted")
		return Result{}, fmt.Errorf("scan of %s aborted: %w", rootPath, err)
	}

	if rootErr, failed := collector.Failures()[rootPath]; failed {
		return Result{}, &ConfigError{Path: rootPath, Reason: "root directory is unreadable", Err: rootErr}
	}

	rootEntry := tree.PathEntry{
		Path:    rootPath,
		Name:    filepath.Base(rootPath),
		Kind:    tree.Directory,
		Hidden:  tree.IsHiddenName(filepath.Base(rootPath)),
		Mode:    rootInfo.Mode(),
		ModTime: rootInfo.ModTime(),
	}

	result := Result{
		Root:   tree.Assemble(rootEntry, collector.Listings(), collector.Failures()),
		Errors: collector.Errors(),
	}

	endTime := time.Now()
	result.Stats = s.summarize(result.Root)
	result.Stats.StartTime = startTime
	result.Stats.EndTime = endTime
	result.Stats.Duration = endTime.Sub(startTime)
	result.Stats.Workers = s.config.Workers

	s.log.WithFields(logger.Fields{
		"directories":  result.Stats.Directories,
		"files":        result.Stats.Files,
		"symlinks":     result.Stats.Symlinks,
		"inaccessible": result.Stats.Inaccessible,
		"cycles":       result.Stats.Cycles,
		"duration":     result.Stats.Duration,
	}).Info("Scan completed")

	return result, nil
}

// checkRoot verifies that root exists, is a directory and can be opened.
func (s *scanner) checkRoot(root string) (os.FileInfo, string, error) {
	info, err := s.fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", &ConfigError{Path: root, Reason: "root path does not exist", Err: err}
		}
		return nil, "", &ConfigError{Path: root, Reason: "cannot access root path", Err: err}
	}
	if !info.IsDir() {
		return nil, "", &ConfigError{Path: root, Reason: "root path is not a directory"}
	}

	f, err := s.fs.Open(root)
	if err != nil {
		return nil, "", &ConfigError{Path: root, Reason: "root directory is unreadable", Err: err}
	}
	f.Close()

	realRoot, err := s.fs.RealPath(root)
	if err != nil {
		return nil, "", &ConfigError{Path: root, Reason: "cannot resolve root path", Err: err}
	}
	return info, realRoot, nil
}

// scanDir lists one directory and enqueues its subdirectories.
func (s *scanner) scanDir(ctx context.Context, task scanTask, queue *worker.Queue[scanTask], collector *Collector) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !collector.Claim(task.path) {
		s.log.WithFields(logger.Fields{
			"path": task.path,
		}).Debug("Directory already claimed, skipping")
		return nil
	}

	s.stats.currentPath.Store(task.path)
	s.log.WithFields(logger.Fields{
		"path":  task.path,
		"depth": task.depth,
	}).Trace("Scanning directory")

	names, err := s.readDirNames(task.path)
	if err != nil {
		accessErr := &AccessError{Path: task.path, Err: err}
		s.log.WithFields(logger.Fields{
			"path":  task.path,
			"error": accessErr,
		}).Debug("Failed to list directory")
		collector.Fail(task.path, accessErr)
		return nil
	}

	children := make([]tree.PathEntry, 0, len(names))
	for _, name := range names {
		entry, next, keep := s.classify(task, name, collector)
		if !keep {
			continue
		}
		children = append(children, entry)
		if next != nil {
			if err := queue.Push(*next); err != nil {
				return fmt.Errorf("failed to enqueue %s: %w", next.path, err)
			}
		}
	}

	collector.Record(task.path, children)
	s.stats.directoriesScanned.Add(1)
	s.stats.entriesFound.Add(int64(len(children)))
	return nil
}

func (s *scanner) readDirNames(path string) ([]string, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Readdirnames(-1)
}

// classify builds the entry for one child of task. It returns the task for
// the child when it must be descended into, and false when the child is
// filtered out.
func (s *scanner) classify(task scanTask, name string, collector *Collector) (tree.PathEntry, *scanTask, bool) {
	path := filepath.Join(task.path, name)
	hidden := tree.IsHiddenName(name)
	if hidden && !s.config.ShowHidden {
		s.stats.skippedHidden.Add(1)
		return tree.PathEntry{}, nil, false
	}

	entry := tree.PathEntry{Path: path, Name: name, Hidden: hidden}

	info, _, err := s.fs.LstatIfPossible(path)
	if err != nil {
		accessErr := &AccessError{Path: path, Err: err}
		s.log.WithFields(logger.Fields{
			"path":  path,
			"error": accessErr,
		}).Debug("Failed to stat entry")
		collector.Absorb(path, accessErr)
		entry.Kind = tree.Inaccessible
		entry.Note = describe(err)
		return entry, nil, true
	}

	entry.Mode = info.Mode()
	entry.ModTime = info.ModTime()

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return s.classifySymlink(task, entry, collector)
	case info.IsDir():
		entry.Kind = tree.Directory
		return entry, s.childTask(task, path, filepath.Join(task.realPath, name)), true
	default:
		entry.Kind = tree.File
		entry.Size = info.Size()
		return entry, nil, true
	}
}

func (s *scanner) classifySymlink(task scanTask, entry tree.PathEntry, collector *Collector) (tree.PathEntry, *scanTask, bool) {
	entry.Kind = tree.Symlink
	if target, err := s.fs.ReadlinkIfPossible(entry.Path); err == nil {
		entry.Target = target
	}
	if !s.config.FollowSymlinks {
		return entry, nil, true
	}

	realPath, err := s.fs.RealPath(entry.Path)
	var info os.FileInfo
	if err == nil {
		info, err = s.fs.Stat(realPath)
	}
	if err != nil {
		s.log.WithFields(logger.Fields{
			"path":   entry.Path,
			"target": entry.Target,
			"error":  err,
		}).Debug("Broken symlink")
		collector.Absorb(entry.Path, &AccessError{Path: entry.Path, Err: err})
		entry.Note = "broken symlink"
		return entry, nil, true
	}

	if !info.IsDir() {
		entry.Kind = tree.File
		entry.Size = info.Size()
		return entry, nil, true
	}

	if task.chain.contains(realPath) {
		cycleErr := &CycleError{Path: entry.Path, Target: realPath}
		s.log.WithFields(logger.Fields{
			"path":   entry.Path,
			"target": realPath,
		}).Debug("Symlink cycle detected")
		collector.Absorb(entry.Path, cycleErr)
		entry.Cycle = true
		entry.Note = "cycle"
		return entry, nil, true
	}

	entry.Kind = tree.Directory
	entry.Mode = info.Mode()
	return entry, s.childTask(task, entry.Path, realPath), true
}

// childTask returns the task for a subdirectory, or nil when it lies beyond
// the depth limit.
func (s *scanner) childTask(parent scanTask, path, realPath string) *scanTask {
	depth := parent.depth + 1
	if s.config.MaxDepth >= 0 && depth > s.config.MaxDepth {
		return nil
	}
	return &scanTask{
		path:     path,
		realPath: realPath,
		depth:    depth,
		chain:    parent.chain.extend(realPath),
	}
}

// summarize counts the assembled tree.
func (s *scanner) summarize(root *tree.PathEntry) ScanStats {
	stats := ScanStats{SkippedHidden: s.stats.skippedHidden.Load()}
	tree.Walk(root, func(e *tree.PathEntry, depth int) bool {
		switch e.Kind {
		case tree.Directory:
			stats.Directories++
		case tree.File:
			stats.Files++
			stats.TotalSize += e.Size
		case tree.Inaccessible:
			stats.Inaccessible++
		}
		if e.Kind == tree.Symlink || e.Target != "" {
			stats.Symlinks++
		}
		if e.Cycle {
			stats.Cycles++
		}
		return true
	})
	return stats
}

// Progress returns the current scanning progress
func (s *scanner) Progress() Progress {
	p := Progress{
		DirectoriesScanned: s.stats.directoriesScanned.Load(),
		EntriesFound:       s.stats.entriesFound.Load(),
	}
	if path, ok := s.stats.currentPath.Load().(string); ok {
		p.CurrentPath = path
	}
	if start, ok := s.startTime.Load().(time.Time); ok {
		p.StartTime = start
	}
	if pool := s.pool.Load(); pool != nil {
		stats := pool.Stats()
		p.ActiveWorkers = stats.ActiveWorkers
		p.QueuedTasks = stats.QueuedTasks
	}
	return p
}
