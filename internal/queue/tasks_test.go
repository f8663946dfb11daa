package queue

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfwood/barbican/internal/secrets/usecase/mocks"
)

type tasksFixture struct {
	orderUseCase        *mocks.MockOrderUseCase
	verificationUseCase *mocks.MockVerificationUseCase
	retries             *RetryManager
	tasks               *Tasks
}

func newTasksFixture(t *testing.T, maxRetries, retrySeconds int) *tasksFixture {
	t.Helper()
	f := &tasksFixture{
		orderUseCase:        &mocks.MockOrderUseCase{},
		verificationUseCase: &mocks.MockVerificationUseCase{},
		retries:             NewRetryManager(testLogger()),
	}
	invocable := NewInvocable(f.retries, maxRetries, retrySeconds, testLogger())
	f.tasks = NewTasks(f.orderUseCase, f.verificationUseCase, invocable, testLogger())
	return f
}

func TestTasksHandleProcessOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("success leaves no retry state", func(t *testing.T) {
		f := newTasksFixture(t, 3, 60)
		orderID := uuid.Must(uuid.NewV7())

		f.orderUseCase.On("Process", ctx, orderID, "tenant-1").Return(nil)

		err := f.tasks.Handle(ctx, Message{
			Method: MethodProcessOrder,
			Args:   []string{orderID.String(), "tenant-1"},
		})
		require.NoError(t, err)
		assert.Zero(t, f.retries.Len())
		f.orderUseCase.AssertExpectations(t)
	})

	t.Run("failure is swallowed and schedules a retry", func(t *testing.T) {
		f := newTasksFixture(t, 3, 60)
		orderID := uuid.Must(uuid.NewV7())

		f.orderUseCase.On("Process", ctx, orderID, "tenant-1").Return(assert.AnError)

		err := f.tasks.Handle(ctx, Message{
			Method: MethodProcessOrder,
			Args:   []string{orderID.String(), "tenant-1"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, f.retries.Len())
	})

	t.Run("failure with retries disabled tracks nothing", func(t *testing.T) {
		f := newTasksFixture(t, 0, 60)
		orderID := uuid.Must(uuid.NewV7())

		f.orderUseCase.On("Process", ctx, orderID, "tenant-1").Return(assert.AnError)

		err := f.tasks.Handle(ctx, Message{
			Method: MethodProcessOrder,
			Args:   []string{orderID.String(), "tenant-1"},
		})
		require.NoError(t, err)
		assert.Zero(t, f.retries.Len())
	})

	t.Run("success forgets a previously scheduled retry", func(t *testing.T) {
		f := newTasksFixture(t, 3, 60)
		orderID := uuid.Must(uuid.NewV7())
		args := []string{orderID.String(), "tenant-1"}
		f.retries.Retry(MethodProcessOrder, 3, 60, args)

		f.orderUseCase.On("Process", ctx, orderID, "tenant-1").Return(nil)

		require.NoError(t, f.tasks.Handle(ctx, Message{Method: MethodProcessOrder, Args: args}))
		assert.Zero(t, f.retries.Len())
	})
}

func TestTasksHandleProcessVerification(t *testing.T) {
	ctx := context.Background()
	f := newTasksFixture(t, 3, 60)
	verificationID := uuid.Must(uuid.NewV7())

	f.verificationUseCase.On("Process", ctx, verificationID, "tenant-1").Return(nil)

	err := f.tasks.Handle(ctx, Message{
		Method: MethodProcessVerification,
		Args:   []string{verificationID.String(), "tenant-1"},
	})
	require.NoError(t, err)
	f.verificationUseCase.AssertExpectations(t)
}

func TestTasksHandleMalformedMessages(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		message Message
	}{
		{
			name:    "unknown method",
			message: Message{Method: "process_certificate", Args: []string{"a", "b"}},
		},
		{
			name:    "wrong argument count",
			message: Message{Method: MethodProcessOrder, Args: []string{"only-one"}},
		},
		{
			name:    "malformed id",
			message: Message{Method: MethodProcessOrder, Args: []string{"not-a-uuid", "tenant-1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTasksFixture(t, 3, 60)
			err := f.tasks.Handle(ctx, tt.message)
			assert.Error(t, err)
			assert.Zero(t, f.retries.Len())
		})
	}
}

func TestSyncDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("runs the order task inline", func(t *testing.T) {
		f := newTasksFixture(t, 0, 60)
		orderID := uuid.Must(uuid.NewV7())

		f.orderUseCase.On("Process", ctx, orderID, "tenant-1").Return(nil)

		dispatcher := NewSyncDispatcher(func() *Tasks { return f.tasks })
		require.NoError(t, dispatcher.DispatchProcessOrder(ctx, orderID, "tenant-1"))
		f.orderUseCase.AssertExpectations(t)
	})

	t.Run("runs the verification task inline", func(t *testing.T) {
		f := newTasksFixture(t, 0, 60)
		verificationID := uuid.Must(uuid.NewV7())

		f.verificationUseCase.On("Process", ctx, verificationID, "tenant-1").Return(nil)

		dispatcher := NewSyncDispatcher(func() *Tasks { return f.tasks })
		require.NoError(t, dispatcher.DispatchProcessVerification(ctx, verificationID, "tenant-1"))
		f.verificationUseCase.AssertExpectations(t)
	})
}
