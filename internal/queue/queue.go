// Package queue implements the asynchronous task subsystem: a buffered
// in-process transport, a task client, worker-side task endpoints, and a
// best-effort retry scheduler. Retry state is in-memory per worker process;
// a restart drops pending retries.
package queue

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Task method names carried on the transport.
const (
	MethodProcessOrder        = "process_order"
	MethodProcessVerification = "process_verification"
)

// Message is one task invocation on the transport.
type Message struct {
	// Method names the task endpoint to invoke.
	Method string
	// Args are the invocation's positional arguments, serialized as strings.
	Args []string
	// RetriesSoFar is the attempt counter carried on re-invocations, zero on
	// first dispatch.
	RetriesSoFar int
}

// Errors returned by the transport.
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// TaskQueue is a buffered in-process task transport. Producers enqueue
// messages without blocking; workers consume them from Channel.
type TaskQueue struct {
	mu       sync.Mutex
	messages chan Message
	logger   *slog.Logger
	closed   bool
}

// NewTaskQueue creates a task queue with the given buffer size.
func NewTaskQueue(size int, logger *slog.Logger) *TaskQueue {
	return &TaskQueue{
		messages: make(chan Message, size),
		logger:   logger,
	}
}

// Enqueue adds a message to the queue without blocking. It returns
// ErrQueueFull when the buffer is at capacity and ErrQueueClosed after
// Close.
func (q *TaskQueue) Enqueue(message Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.messages <- message:
		q.logger.Debug("task enqueued",
			slog.String("method", message.Method),
			slog.Int("retries_so_far", message.RetriesSoFar),
			slog.Int("queue_len", len(q.messages)),
		)
		return nil
	default:
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(q.messages))
	}
}

// Close closes the queue. Workers drain the remaining buffered messages and
// then see the channel closed.
func (q *TaskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.messages)
		q.logger.Info("task queue closed")
	}
}

// Channel returns the read side of the transport for workers.
func (q *TaskQueue) Channel() <-chan Message {
	return q.messages
}
