package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TaskServerConfig holds the task server settings.
type TaskServerConfig struct {
	// Name identifies the server in logs.
	Name string
	// WorkerCount is the number of concurrent task workers.
	WorkerCount int
	// RetrySchedulerCycle is the retry scheduler tick interval in seconds.
	RetrySchedulerCycle int
}

// TaskServer hosts the worker side of the task subsystem: a pool of workers
// draining the transport plus the periodic retry scheduler. Each server owns
// its own RetryManager; retry state is never shared across workers.
type TaskServer struct {
	config  TaskServerConfig
	queue   *TaskQueue
	tasks   *Tasks
	retries *RetryManager
	client  Invoker
	logger  *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTaskServer creates a task server. The client is used by the retry
// scheduler to re-invoke elapsed tasks over the transport.
func NewTaskServer(
	config TaskServerConfig,
	queue *TaskQueue,
	tasks *Tasks,
	retries *RetryManager,
	client Invoker,
	logger *slog.Logger,
) *TaskServer {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	return &TaskServer{
		config:  config,
		queue:   queue,
		tasks:   tasks,
		retries: retries,
		client:  client,
		logger:  logger,
	}
}

// Start launches the worker pool and the retry scheduler loop.
func (s *TaskServer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.logger.Info("task server starting",
		slog.String("server", s.config.Name),
		slog.Int("worker_count", s.config.WorkerCount),
	)

	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.wg.Add(1)
	go s.schedulerLoop(ctx)
}

// Stop closes the transport and waits for workers to drain it and for the
// scheduler loop to exit.
func (s *TaskServer) Stop() {
	s.queue.Close()
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("task server stopped", slog.String("server", s.config.Name))
}

// worker drains the transport until it is closed.
func (s *TaskServer) worker(ctx context.Context, id int) {
	defer s.wg.Done()

	for message := range s.queue.Channel() {
		if err := s.tasks.Handle(ctx, message); err != nil {
			// Malformed message; nothing to retry.
			s.logger.Error("dropping malformed task message",
				slog.Int("worker", id),
				slog.String("method", message.Method),
				slog.Any("error", err),
			)
		}
	}
}

// schedulerLoop ticks the retry scheduler at a fixed cadence until shutdown.
func (s *TaskServer) schedulerLoop(ctx context.Context) {
	defer s.wg.Done()

	cycle := s.config.RetrySchedulerCycle
	if cycle <= 0 {
		cycle = 1
	}
	ticker := time.NewTicker(time.Duration(cycle) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.retries.ScheduleRetries(ctx, cycle, s.client)
		}
	}
}
