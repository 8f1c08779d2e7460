package progress

import (
	"io"
	"time"
)

// Style represents the type of progress visualization
type Style string

const (
	// StyleSpinner shows a spinning indicator next to the counter
	StyleSpinner Style = "spinner"

	// StyleSimple shows the bare counter
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// ShowStats adds entry, worker and elapsed time details to the line
	ShowStats bool

	// NoColor disables colored output
	NoColor bool

	// RefreshRate defines how often the display updates
	RefreshRate time.Duration

	// Writer receives the progress line. Defaults to os.Stderr.
	Writer io.Writer
}

// Status represents the current progress state
type Status struct {
	// DirectoriesFound counts directories listed so far
	DirectoriesFound int64

	// EntriesFound counts entries recorded so far
	EntriesFound int64

	// ActiveWorkers is the number of workers holding a task
	ActiveWorkers int

	// QueuedTasks is the number of directories waiting to be listed
	QueuedTasks int

	// CurrentItem is the directory most recently picked up
	CurrentItem string
}

// Source is polled on every refresh for the latest status.
type Source func() Status

// Statistics provides derived progress information
type Statistics struct {
	StartTime   time.Time
	ElapsedTime time.Duration

	// DirectoriesPerSecond is the average listing rate since Start
	DirectoriesPerSecond float64
}

// Progress defines the interface for progress visualization
type Progress interface {
	// Start begins progress visualization with an initial message
	Start(message string)

	// Update pushes a status, for callers without a Source
	Update(status Status)

	// Stop ends visualization and clears the line. Safe to call more than once.
	Stop()

	// IsSupportedTerminal reports whether the writer is a terminal
	IsSupportedTerminal() bool
}
