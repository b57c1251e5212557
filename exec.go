package green

import (
	"context"
	"errors"
	"fmt"
	"runtime/trace"
)

// ErrDispatch is returned when sending the command could not even
// begin; the underlying transport error is attached to it. No wait
// loop is entered and no recovery is attempted.
var ErrDispatch = errors.New("green: dispatch failed")

const traceCategory = "green"

// tracef emits a runtime/trace diagnostic in the green category.
func tracef(ctx context.Context, format string, args ...any) {
	if trace.IsEnabled() {
		trace.Logf(ctx, traceCategory, format, args...)
	}
}

// Exec runs command on conn through the process-wide wait callback.
// See (*Executor).Exec.
func Exec(ctx context.Context, conn Conn, command string) (Result, error) {
	return defaultExecutor.Exec(ctx, conn, command)
}

// Exec sends command on conn and waits for its result through the
// registered wait callback, without blocking beyond the callback's
// own suspension. It is the cooperative replacement for a plain
// blocking query call.
//
// Exactly one async query may be outstanding per connection;
// violating that fails with ErrConcurrentQuery before any network
// I/O. On every return path the connection's async state is restored
// to idle (StatusDone, marker cleared), so the caller never needs a
// separate cleanup step.
//
// If the wait callback fails mid-query, Exec attempts to cancel the
// server-side query before returning (see the recovery notes on
// Warnings); the callback's error is what the caller receives, never
// an artifact of the cleanup path.
func (e *Executor) Exec(ctx context.Context, conn Conn, command string) (Result, error) {
	st := conn.Async()
	if err := st.begin(); err != nil {
		return nil, err
	}
	defer st.finish()

	tracef(ctx, "EXEC %q", command)

	// A missing callback is a configuration error, not a transient
	// one: fail before dispatch so no query is left ambiguously in
	// flight and no recovery is attempted.
	if !e.Green() {
		return nil, ErrNoWaitCallback
	}

	if err := conn.SendQuery(command); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDispatch, err)
	}

	// Enter the poll loop with a write. The poll implementation
	// advances the status to StatusRead when writing is finished and
	// to StatusDone when the response has arrived, all as a side
	// effect of the callback invocation. A correct callback resolves
	// the whole cycle in one call; one that returns early is simply
	// invoked again.
	st.Status = StatusWrite

	for st.Status != StatusDone {
		if err := e.invoke(ctx, conn); err != nil {
			e.panicCancel(ctx, conn)
			return nil, err
		}
	}

	// The response bytes are buffered; this cannot block.
	res, err := conn.LastResult()
	if err != nil {
		return nil, err
	}
	return res, nil
}
