package progress

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sonemaro/arbor/pkg/util"
)

type renderer interface {
	render(Status, string, Statistics) string
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type spinnerRenderer struct {
	noColor   bool
	showStats bool
	frame     int
}

func (r *spinnerRenderer) render(status Status, message string, stats Statistics) string {
	r.frame = (r.frame + 1) % len(spinnerFrames)
	spinner := spinnerFrames[r.frame]

	if !r.noColor {
		c := color.New(color.FgCyan)
		c.EnableColor()
		spinner = c.Sprint(spinner)
	}

	var output strings.Builder
	output.WriteString(spinner + " ")
	output.WriteString(counterLine(status, message))
	if r.showStats {
		output.WriteString(statsSuffix(status, stats))
	}
	return output.String()
}

type simpleRenderer struct {
	showStats bool
}

func (r *simpleRenderer) render(status Status, message string, stats Statistics) string {
	line := counterLine(status, message)
	if r.showStats {
		line += statsSuffix(status, stats)
	}
	return line
}

func counterLine(status Status, message string) string {
	if message == "" {
		message = "Directories found"
	}
	return fmt.Sprintf("%s: %d", message, status.DirectoriesFound)
}

func statsSuffix(status Status, stats Statistics) string {
	return fmt.Sprintf(" | entries: %d | workers: %d | queued: %d | %.0f dirs/s | %s",
		status.EntriesFound,
		status.ActiveWorkers,
		status.QueuedTasks,
		stats.DirectoriesPerSecond,
		util.FormatDuration(stats.ElapsedTime))
}
