package scanner

import (
	"sync"

	"github.com/sonemaro/arbor/pkg/tree"
)

// Collector gathers per-directory listings from concurrent workers.
//
// Each directory path is claimed by exactly one task, so no two workers ever
// record the same key. The accessor methods are meant for after the worker
// pool has been joined; they return the collector's own maps.
type Collector struct {
	mu       sync.Mutex
	claimed  map[string]struct{}
	listings map[string][]tree.PathEntry
	failures map[string]error
	absorbed map[string]error
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		claimed:  make(map[string]struct{}),
		listings: make(map[string][]tree.PathEntry),
		failures: make(map[string]error),
		absorbed: make(map[string]error),
	}
}

// Claim reserves path for scanning. It returns false if the path was
// already claimed.
func (c *Collector) Claim(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.claimed[path]; ok {
		return false
	}
	c.claimed[path] = struct{}{}
	return true
}

// Record stores the entries found directly inside path.
func (c *Collector) Record(path string, entries []tree.PathEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listings[path] = entries
}

// Fail records that the directory at path could not be listed.
func (c *Collector) Fail(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[path] = err
}

// Absorb records a non-fatal problem with a single entry.
func (c *Collector) Absorb(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.absorbed[path] = err
}

// Listings returns the recorded listings keyed by directory path.
func (c *Collector) Listings() map[string][]tree.PathEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listings
}

// Failures returns the directories whose listing failed.
func (c *Collector) Failures() map[string]error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// Errors returns every absorbed problem, listing failures included.
func (c *Collector) Errors() map[string]error {
	c.mu.Lock()
	defer c.mu.Unlock()

	all := make(map[string]error, len(c.failures)+len(c.absorbed))
	for path, err := range c.absorbed {
		all[path] = err
	}
	for path, err := range c.failures {
		all[path] = err
	}
	return all
}

// Len returns the number of directories listed so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listings)
}
