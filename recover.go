package green

import (
	"context"
	"fmt"
)

// panicCancel runs after a communication error during query
// execution. The failure may be a network error or an error inside
// the wait callback, and the two cannot be told apart, so the query
// may still be running server-side. To avoid blocking, try to cancel
// it and wait for the cancellation to resolve; if that wait fails
// too, the connection cannot be trusted in its unknown read/write
// state and is closed.
//
// The original error stays with Exec's frame: panicCancel never
// raises, it only records warnings and decides the connection's
// disposition.
func (e *Executor) panicCancel(ctx context.Context, conn Conn) {
	tracef(ctx, "PANIC_CANCEL")

	if err := conn.Cancel(); err != nil {
		// Could not even ask the server to cancel. Warn and keep the
		// previous error; the connection is left as-is.
		tracef(ctx, "PANIC_CANCEL cancel failed: %v", err)
		e.warns.add(fmt.Sprintf("canceling failed: %v", err))
		return
	}

	// Go back to the loop for one more attempt at async processing,
	// letting the cancellation acknowledgment arrive.
	if err := e.invoke(ctx, conn); err != nil {
		tracef(ctx, "PANIC_CANCEL wait failed: closing the connection")
		e.warns.add("async cancel failed: closing the connection")
		conn.CloseLocked()
		return
	}

	// The canceled query's result must be drained or the protocol
	// reports "another command is already in progress" on the next
	// query.
	_, _ = conn.LastResult()
}
