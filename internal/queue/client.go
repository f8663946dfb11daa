package queue

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// TaskClient submits task invocations to the asynchronous transport. It is
// the dispatcher used when the queue is enabled: dispatch is fire-and-
// continue from the caller's perspective.
type TaskClient struct {
	queue *TaskQueue
}

// NewTaskClient creates a client bound to a transport.
func NewTaskClient(queue *TaskQueue) *TaskClient {
	return &TaskClient{queue: queue}
}

// Invoke enqueues a task invocation by method name.
func (c *TaskClient) Invoke(ctx context.Context, method string, args []string, retriesSoFar int) error {
	return c.queue.Enqueue(Message{
		Method:       method,
		Args:         args,
		RetriesSoFar: retriesSoFar,
	})
}

// DispatchProcessOrder submits an order fulfillment task.
func (c *TaskClient) DispatchProcessOrder(ctx context.Context, orderID uuid.UUID, keystoneID string) error {
	return c.Invoke(ctx, MethodProcessOrder, []string{orderID.String(), keystoneID}, 0)
}

// DispatchProcessVerification submits a verification task.
func (c *TaskClient) DispatchProcessVerification(ctx context.Context, verificationID uuid.UUID, keystoneID string) error {
	return c.Invoke(ctx, MethodProcessVerification, []string{verificationID.String(), keystoneID}, 0)
}

// SyncDispatcher executes task invocations inline, in the calling process.
// It is the dispatcher used when the queue is disabled: the same task
// endpoints run, including the retry wrapper, but as direct blocking calls.
//
// Task endpoints are resolved lazily. The endpoints depend on the use cases
// and the use cases depend on the dispatcher, so binding happens through a
// provider function instead of at construction time.
type SyncDispatcher struct {
	tasks func() *Tasks
}

// NewSyncDispatcher creates a dispatcher that runs tasks inline.
func NewSyncDispatcher(tasks func() *Tasks) *SyncDispatcher {
	return &SyncDispatcher{tasks: tasks}
}

// Invoke runs a task invocation inline.
func (d *SyncDispatcher) Invoke(ctx context.Context, method string, args []string, retriesSoFar int) error {
	tasks := d.tasks()
	if tasks == nil {
		return errors.New("task endpoints are not available")
	}
	return tasks.Handle(ctx, Message{
		Method:       method,
		Args:         args,
		RetriesSoFar: retriesSoFar,
	})
}

// DispatchProcessOrder runs an order fulfillment task inline.
func (d *SyncDispatcher) DispatchProcessOrder(ctx context.Context, orderID uuid.UUID, keystoneID string) error {
	return d.Invoke(ctx, MethodProcessOrder, []string{orderID.String(), keystoneID}, 0)
}

// DispatchProcessVerification runs a verification task inline.
func (d *SyncDispatcher) DispatchProcessVerification(ctx context.Context, verificationID uuid.UUID, keystoneID string) error {
	return d.Invoke(ctx, MethodProcessVerification, []string{verificationID.String(), keystoneID}, 0)
}
