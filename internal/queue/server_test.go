package queue

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestTaskServer(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("processes dispatched tasks", func(t *testing.T) {
		f := newTasksFixture(t, 0, 60)
		queue := NewTaskQueue(10, testLogger())
		client := NewTaskClient(queue)
		server := NewTaskServer(
			TaskServerConfig{Name: "test.queue", WorkerCount: 2, RetrySchedulerCycle: 1},
			queue,
			f.tasks,
			f.retries,
			client,
			testLogger(),
		)

		orderID := uuid.Must(uuid.NewV7())
		done := make(chan struct{})
		f.orderUseCase.On("Process", mock.Anything, orderID, "tenant-1").
			Run(func(args mock.Arguments) { close(done) }).
			Return(nil)

		server.Start()
		require.NoError(t, client.DispatchProcessOrder(context.Background(), orderID, "tenant-1"))

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("task was not processed")
		}
		server.Stop()
		f.orderUseCase.AssertExpectations(t)
	})

	t.Run("stop drains buffered tasks", func(t *testing.T) {
		f := newTasksFixture(t, 0, 60)
		queue := NewTaskQueue(10, testLogger())
		client := NewTaskClient(queue)
		server := NewTaskServer(
			TaskServerConfig{Name: "test.queue", WorkerCount: 1, RetrySchedulerCycle: 1},
			queue,
			f.tasks,
			f.retries,
			client,
			testLogger(),
		)

		orderID := uuid.Must(uuid.NewV7())
		f.orderUseCase.On("Process", mock.Anything, orderID, "tenant-1").Return(nil)

		require.NoError(t, client.DispatchProcessOrder(context.Background(), orderID, "tenant-1"))
		server.Start()
		server.Stop()

		f.orderUseCase.AssertExpectations(t)
	})

	t.Run("start and stop without traffic", func(t *testing.T) {
		f := newTasksFixture(t, 0, 60)
		queue := NewTaskQueue(1, testLogger())
		server := NewTaskServer(
			TaskServerConfig{Name: "test.queue", WorkerCount: 2, RetrySchedulerCycle: 1},
			queue,
			f.tasks,
			f.retries,
			NewTaskClient(queue),
			testLogger(),
		)

		server.Start()
		server.Stop()
	})
}
