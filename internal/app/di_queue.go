package app

import (
	"fmt"
	"log/slog"

	"github.com/jfwood/barbican/internal/queue"
	secretsUsecase "github.com/jfwood/barbican/internal/secrets/usecase"
)

// TaskQueue returns the in-process task transport.
func (c *Container) TaskQueue() *queue.TaskQueue {
	c.taskQueueInit.Do(func() {
		c.taskQueue = queue.NewTaskQueue(c.config.QueueBufferSize, c.Logger())
	})
	return c.taskQueue
}

// RetryManager returns the retry state manager shared by the task endpoints
// and the retry scheduler.
func (c *Container) RetryManager() *queue.RetryManager {
	c.retryManagerInit.Do(func() {
		c.retryManager = queue.NewRetryManager(c.Logger())
	})
	return c.retryManager
}

// Tasks returns the task endpoints handling transport messages.
func (c *Container) Tasks() (*queue.Tasks, error) {
	c.tasksInit.Do(func() {
		orderUseCase, err := c.OrderUseCase()
		if err != nil {
			c.initErrors["tasks"] = err
			return
		}

		verificationUseCase, err := c.VerificationUseCase()
		if err != nil {
			c.initErrors["tasks"] = err
			return
		}

		invocable := queue.NewInvocable(
			c.RetryManager(),
			c.config.TaskMaxRetries,
			c.config.TaskRetrySeconds,
			c.Logger(),
		)

		c.tasks = queue.NewTasks(orderUseCase, verificationUseCase, invocable, c.Logger())
	})
	if storedErr, exists := c.initErrors["tasks"]; exists {
		return nil, storedErr
	}
	return c.tasks, nil
}

// TaskDispatcher returns the dispatcher the use cases submit tasks through.
// With the queue enabled tasks travel over the transport to worker processes;
// otherwise they run synchronously in-process.
func (c *Container) TaskDispatcher() (secretsUsecase.TaskDispatcher, error) {
	c.dispatcherInit.Do(func() {
		if c.config.QueueEnabled {
			c.dispatcher = queue.NewTaskClient(c.TaskQueue())
			return
		}

		logger := c.Logger()
		c.dispatcher = queue.NewSyncDispatcher(func() *queue.Tasks {
			tasks, err := c.Tasks()
			if err != nil {
				logger.Error("failed to resolve task endpoints", slog.Any("error", err))
				return nil
			}
			return tasks
		})
	})
	return c.dispatcher, nil
}

// TaskServer returns the worker-side task server. It requires the queue to
// be enabled.
func (c *Container) TaskServer() (*queue.TaskServer, error) {
	c.taskServerInit.Do(func() {
		if !c.config.QueueEnabled {
			c.initErrors["taskServer"] = fmt.Errorf("task server requires the queue to be enabled")
			return
		}

		tasks, err := c.Tasks()
		if err != nil {
			c.initErrors["taskServer"] = err
			return
		}

		c.taskServer = queue.NewTaskServer(
			queue.TaskServerConfig{
				Name:                c.config.QueueServerName,
				WorkerCount:         c.config.QueueWorkerCount,
				RetrySchedulerCycle: c.config.TaskRetrySchedulerCycle,
			},
			c.TaskQueue(),
			tasks,
			c.RetryManager(),
			queue.NewTaskClient(c.TaskQueue()),
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["taskServer"]; exists {
		return nil, storedErr
	}
	return c.taskServer, nil
}
