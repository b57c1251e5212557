package green

import (
	"context"
)

// taskContextKey is a unique type used as a key for storing the
// scheduler task in a context.
type taskContextKey struct{}

// withTask creates a new context carrying the scheduler task, so the
// scheduler's wait callback can find the task to suspend.
func withTask(ctx context.Context, t *task) context.Context {
	return context.WithValue(ctx, taskContextKey{}, t)
}

// taskFromContext retrieves the scheduler task from a context.
// Returns the task and whether one was found.
func taskFromContext(ctx context.Context) (*task, bool) {
	t, ok := ctx.Value(taskContextKey{}).(*task)
	return t, ok
}
