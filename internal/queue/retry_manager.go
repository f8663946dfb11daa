package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
)

// Invoker re-invokes a task by method name. Both the transport-backed client
// and the synchronous dispatcher satisfy it.
type Invoker interface {
	Invoke(ctx context.Context, method string, args []string, retriesSoFar int) error
}

// retryEntry tracks one pending retry.
type retryEntry struct {
	method    string
	args      []string
	attempts  int
	countdown int
}

// RetryManager deduplicates pending task retries by invocation identity and
// re-invokes them once their countdown elapses. State is in-memory only and
// owned by one worker process.
type RetryManager struct {
	mu      sync.Mutex
	entries map[string]*retryEntry
	logger  *slog.Logger
}

// NewRetryManager creates an empty RetryManager.
func NewRetryManager(logger *slog.Logger) *RetryManager {
	return &RetryManager{
		entries: make(map[string]*retryEntry),
		logger:  logger,
	}
}

// GenerateKey derives the dedup identity for a task invocation. The identity
// is the method name plus a canonically sorted copy of the arguments, so two
// invocations with the same arguments in a different order map to the same
// key while duplicate argument values remain distinct.
func GenerateKey(method string, args []string) string {
	sorted := make([]string, len(args))
	copy(sorted, args)
	sort.Strings(sorted)

	key, err := json.Marshal(struct {
		Method string   `json:"method"`
		Args   []string `json:"args"`
	}{Method: method, Args: sorted})
	if err != nil {
		// Marshalling strings cannot fail; keep the compiler honest.
		panic(err)
	}
	return string(key)
}

// Retry schedules a retry for the invocation. A maxRetries of zero disables
// retries for the task type and records nothing. Scheduling replaces any
// prior entry for the same identity, resetting its countdown.
func (r *RetryManager) Retry(method string, maxRetries, retrySeconds int, args []string) {
	if maxRetries == 0 {
		return
	}

	key := GenerateKey(method, args)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = &retryEntry{
		method:    method,
		args:      args,
		attempts:  1,
		countdown: retrySeconds,
	}
	r.logger.Info("task retry scheduled",
		slog.String("method", method),
		slog.Int("retry_seconds", retrySeconds),
	)
}

// Remove forgets any pending retry for the invocation. Removing an untracked
// identity is a no-op.
func (r *RetryManager) Remove(method string, args []string) {
	key := GenerateKey(method, args)

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
}

// Len reports the number of pending retries.
func (r *RetryManager) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// ScheduleRetries is one scheduler tick. Every tracked countdown advances by
// tickSeconds; entries whose countdown has elapsed are re-invoked on the
// client with their attempt counter and removed from tracking whether or not
// the invocation succeeds. A failed re-invocation re-enters the retry path
// through the task wrapper on its own. The return value is always
// tickSeconds, so callers can keep a fixed cadence.
func (r *RetryManager) ScheduleRetries(ctx context.Context, tickSeconds int, client Invoker) int {
	due := r.collectDue(tickSeconds)

	for _, entry := range due {
		if err := client.Invoke(ctx, entry.method, entry.args, entry.attempts); err != nil {
			r.logger.Error("task re-invocation failed",
				slog.String("method", entry.method),
				slog.Int("retries_so_far", entry.attempts),
				slog.Any("error", err),
			)
		}
	}

	return tickSeconds
}

// collectDue advances all countdowns and removes and returns the elapsed
// entries under the lock, so re-invocation runs without holding it.
func (r *RetryManager) collectDue(tickSeconds int) []*retryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*retryEntry
	for key, entry := range r.entries {
		entry.countdown -= tickSeconds
		if entry.countdown <= 0 {
			due = append(due, entry)
			delete(r.entries, key)
		}
	}
	return due
}
