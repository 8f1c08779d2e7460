package worker

import "time"

// Status represents the current state of the worker pool
type Status string

const (
	// StatusIdle indicates the pool is running but no worker holds a task
	StatusIdle Status = "idle"

	// StatusProcessing indicates at least one task is queued or being handled
	StatusProcessing Status = "processing"

	// StatusStopped indicates the pool has not started or has finished
	StatusStopped Status = "stopped"
)

// Stats provides runtime statistics about the worker pool
type Stats struct {
	// Workers is the configured pool size
	Workers int

	// ActiveWorkers is the number of workers currently handling a task
	ActiveWorkers int

	// QueuedTasks is the number of tasks waiting to be popped
	QueuedTasks int

	// InFlightTasks counts tasks pushed but not yet finished
	InFlightTasks int

	// CompletedTasks is the number of tasks handled without error
	CompletedTasks int64

	// FailedTasks is the number of tasks whose handler returned an error
	FailedTasks int64

	// Status is the current state of the pool
	Status Status

	// Uptime is how long the pool has been (or was) running
	Uptime time.Duration
}
