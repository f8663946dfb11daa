package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jfwood/barbican/internal/secrets/usecase"
)

// Tasks holds the worker-side task endpoints. Every endpoint runs through
// the Invocable wrapper, so a failing task body becomes a scheduled retry
// instead of an error on the transport.
type Tasks struct {
	orderUseCase        usecase.OrderUseCase
	verificationUseCase usecase.VerificationUseCase
	invocable           *Invocable
	logger              *slog.Logger
}

// NewTasks creates the task endpoints.
func NewTasks(
	orderUseCase usecase.OrderUseCase,
	verificationUseCase usecase.VerificationUseCase,
	invocable *Invocable,
	logger *slog.Logger,
) *Tasks {
	return &Tasks{
		orderUseCase:        orderUseCase,
		verificationUseCase: verificationUseCase,
		invocable:           invocable,
		logger:              logger,
	}
}

// Handle dispatches one transport message to its endpoint. It returns an
// error only for malformed messages; task body failures are absorbed by the
// retry wrapper.
func (t *Tasks) Handle(ctx context.Context, message Message) error {
	switch message.Method {
	case MethodProcessOrder:
		return t.processOrder(ctx, message)
	case MethodProcessVerification:
		return t.processVerification(ctx, message)
	default:
		return fmt.Errorf("unknown task method %q", message.Method)
	}
}

func (t *Tasks) processOrder(ctx context.Context, message Message) error {
	orderID, keystoneID, err := parseTaskArgs(message)
	if err != nil {
		return err
	}

	t.logger.Info("processing order",
		slog.String("order_id", orderID.String()),
		slog.Int("retries_so_far", message.RetriesSoFar),
	)
	t.invocable.Run(ctx, message.Method, message.Args, func(ctx context.Context) error {
		return t.orderUseCase.Process(ctx, orderID, keystoneID)
	})
	return nil
}

func (t *Tasks) processVerification(ctx context.Context, message Message) error {
	verificationID, keystoneID, err := parseTaskArgs(message)
	if err != nil {
		return err
	}

	t.logger.Info("processing verification",
		slog.String("verification_id", verificationID.String()),
		slog.Int("retries_so_far", message.RetriesSoFar),
	)
	t.invocable.Run(ctx, message.Method, message.Args, func(ctx context.Context) error {
		return t.verificationUseCase.Process(ctx, verificationID, keystoneID)
	})
	return nil
}

// parseTaskArgs extracts the (entity id, keystone id) pair every task
// endpoint takes.
func parseTaskArgs(message Message) (uuid.UUID, string, error) {
	if len(message.Args) != 2 {
		return uuid.Nil, "", fmt.Errorf("task %q expects 2 arguments, got %d", message.Method, len(message.Args))
	}

	id, err := uuid.Parse(message.Args[0])
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("task %q has malformed id argument: %w", message.Method, err)
	}

	return id, message.Args[1], nil
}
