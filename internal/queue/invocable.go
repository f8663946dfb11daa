package queue

import (
	"context"
	"log/slog"
)

// Invocable wraps task endpoint execution. Failures never propagate to the
// transport: they are handed to the RetryManager, which owns recovery, and
// the error is swallowed here.
type Invocable struct {
	retries      *RetryManager
	maxRetries   int
	retrySeconds int
	logger       *slog.Logger
}

// NewInvocable creates an Invocable with the task retry configuration.
func NewInvocable(retries *RetryManager, maxRetries, retrySeconds int, logger *slog.Logger) *Invocable {
	return &Invocable{
		retries:      retries,
		maxRetries:   maxRetries,
		retrySeconds: retrySeconds,
		logger:       logger,
	}
}

// Run executes a task body. On success any tracked retry state for the
// invocation is forgotten; on failure a retry is scheduled instead of
// returning the error.
func (i *Invocable) Run(ctx context.Context, method string, args []string, fn func(ctx context.Context) error) {
	if err := fn(ctx); err != nil {
		i.logger.Error("task execution failed",
			slog.String("method", method),
			slog.Any("error", err),
		)
		i.retries.Retry(method, i.maxRetries, i.retrySeconds, args)
		return
	}

	i.retries.Remove(method, args)
}
