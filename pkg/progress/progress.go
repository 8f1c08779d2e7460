// Package progress draws a live "Directories found" counter while a scan
// runs. It only writes to the terminal; output text is never touched.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sonemaro/arbor/pkg/logger"
	"golang.org/x/term"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer
	source Source

	// State
	status    Status
	startTime time.Time
	message   string
	isActive  bool

	// Rendering
	renderer renderer

	// Synchronization
	mu       sync.Mutex
	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}
}

// New creates a new progress visualization instance. source may be nil, in
// which case the display shows whatever was last passed to Update.
func New(config Config, source Source, log logger.Logger) Progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = 100 * time.Millisecond
	}

	writer := config.Writer
	if writer == nil {
		writer = os.Stderr
	}

	p := &progress{
		config:   config,
		log:      log.Named("progress"),
		writer:   writer,
		source:   source,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":     p.config.Style,
		"showStats": p.config.ShowStats,
		"noColor":   p.config.NoColor,
		"refresh":   p.config.RefreshRate,
	}).Debug("Created new progress instance")

	return p
}

func (p *progress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isActive {
		return
	}

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Starting progress")

	p.message = message
	p.startTime = time.Now()
	p.isActive = true

	go p.renderLoop()
}

func (p *progress) Update(status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"directories": status.DirectoriesFound,
		"item":        status.CurrentItem,
	}).Trace("Updating progress")

	p.status = status
}

func (p *progress) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		wasActive := p.isActive
		p.isActive = false
		p.mu.Unlock()

		p.log.Debug("Stopping progress")

		close(p.stopChan)
		if wasActive {
			<-p.doneChan
			p.mu.Lock()
			p.clearLine()
			p.mu.Unlock()
		}
	})
}

func (p *progress) IsSupportedTerminal() bool {
	if f, ok := p.writer.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Internal methods

func (p *progress) renderLoop() {
	ticker := time.NewTicker(p.config.RefreshRate)
	defer ticker.Stop()
	defer close(p.doneChan)

	p.tick()
	for {
		select {
		case <-p.stopChan:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *progress) tick() {
	// The source is read outside the lock; it may take locks of its own.
	var polled *Status
	if p.source != nil {
		s := p.source()
		polled = &s
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if polled != nil {
		p.status = *polled
	}
	p.render()
}

func (p *progress) render() {
	output := p.renderer.render(p.status, p.message, p.calculateStats())
	p.clearLine()
	fmt.Fprint(p.writer, output)
}

func (p *progress) clearLine() {
	if p.IsSupportedTerminal() {
		fmt.Fprint(p.writer, "\r\033[K") // Clear line
	} else {
		fmt.Fprint(p.writer, "\r") // Just return to start
	}
}

func (p *progress) calculateStats() Statistics {
	elapsed := time.Since(p.startTime)

	stats := Statistics{
		StartTime:   p.startTime,
		ElapsedTime: elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		stats.DirectoriesPerSecond = float64(p.status.DirectoriesFound) / secs
	}
	return stats
}

func (p *progress) createRenderer() renderer {
	switch p.config.Style {
	case StyleSimple:
		return &simpleRenderer{
			showStats: p.config.ShowStats,
		}
	default:
		return &spinnerRenderer{
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	}
}
