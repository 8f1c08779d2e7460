package worker

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Push once the queue has drained or been closed.
var ErrQueueClosed = errors.New("queue closed")

// Queue is an unbounded FIFO of tasks with completion tracking.
//
// Every pushed task counts as in flight until a worker calls Done for it.
// Empty is not the same as finished: a worker still processing a task may
// push more. The queue is finished only when the in-flight count returns to
// zero, at which point it closes itself and every blocked Pop returns.
type Queue[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []T
	head     int
	inFlight int
	closed   bool
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends a task and counts it as in flight. It never blocks.
func (q *Queue[T]) Push(task T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.items = append(q.items, task)
	q.inFlight++
	q.cond.Signal()
	return nil
}

// Pop removes the oldest task. It blocks while the queue is empty and other
// tasks are still in flight, and returns false once all work is finished or
// the queue was closed.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.head == len(q.items) && !q.closed {
		q.cond.Wait()
	}

	var zero T
	if q.head == len(q.items) {
		return zero, false
	}

	task := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// compact once the consumed prefix dominates the backing array
	if q.head > 64 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return task, true
}

// Done marks one popped task as finished, including any pushes it made.
func (q *Queue[T]) Done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inFlight == 0 {
		return
	}
	q.inFlight--
	if q.inFlight == 0 {
		q.closed = true
		q.cond.Broadcast()
	}
}

// Close drops queued tasks and releases every blocked Pop.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed && q.head == len(q.items) {
		return
	}
	q.closed = true
	clear(q.items)
	q.items = nil
	q.head = 0
	q.cond.Broadcast()
}

// Len returns the number of queued tasks not yet popped.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// InFlight returns the number of tasks pushed but not yet done.
func (q *Queue[T]) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight
}

// Closed reports whether the queue has finished or been closed.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
