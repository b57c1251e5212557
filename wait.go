package green

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrNoWaitCallback is returned when an async query is executed with
// no wait callback registered. This is a configuration error, not a
// transient condition: check Green before routing a query through
// Exec.
var ErrNoWaitCallback = errors.New("green: wait callback not available")

// ErrNotPollable is returned by the ready-made wait callbacks when
// the connection does not implement Pollable.
var ErrNotPollable = errors.New("green: connection does not expose its poll state machine")

// WaitFunc blocks the logical caller until conn's socket is ready
// for the direction indicated by conn.Async().Status, driving the
// connection's poll state machine until it reports StatusDone. It
// may suspend cooperatively (yield to other tasks) or block the OS
// thread; the executor treats the call as opaque either way.
//
// Returning an error aborts the query and triggers the cancellation
// recovery procedure.
type WaitFunc func(ctx context.Context, conn Conn) error

// Executor runs asynchronous queries through an injected wait
// strategy. The zero value has no callback and is not green; most
// programs use the package-level registry instead and never create
// one directly.
type Executor struct {
	wait  atomic.Pointer[WaitFunc]
	warns warnings
}

// NewExecutor returns an executor using fn as its wait strategy. A
// nil fn is allowed and means synchronous mode (Exec fails with
// ErrNoWaitCallback until one is set).
func NewExecutor(fn WaitFunc) *Executor {
	e := new(Executor)
	e.SetWaitFunc(fn)
	return e
}

// SetWaitFunc replaces the executor's wait strategy. Passing nil
// clears it. Replacing the strategy does not affect an invocation
// already in flight, which holds its own reference for the duration
// of the call.
func (e *Executor) SetWaitFunc(fn WaitFunc) {
	if fn == nil {
		e.wait.Store(nil)
		return
	}
	e.wait.Store(&fn)
}

// WaitFunc returns the currently registered wait strategy, or nil.
func (e *Executor) WaitFunc() WaitFunc {
	if fn := e.wait.Load(); fn != nil {
		return *fn
	}
	return nil
}

// Green reports whether a wait strategy is registered, i.e. whether
// queries on this executor run cooperatively.
func (e *Executor) Green() bool {
	return e.wait.Load() != nil
}

// invoke runs one wait cycle against conn. The callback pointer is
// loaded once so a concurrent SetWaitFunc cannot invalidate the
// in-flight call.
func (e *Executor) invoke(ctx context.Context, conn Conn) error {
	tracef(ctx, "WAIT %v", conn.Async().Status)
	fn := e.wait.Load()
	if fn == nil {
		return ErrNoWaitCallback
	}
	return (*fn)(ctx, conn)
}

// defaultExecutor backs the package-level registry. The driver
// supports exactly one cooperative-scheduling integration per
// process through it.
var defaultExecutor Executor

// SetWaitCallback registers fn as the process-wide wait callback.
// Passing nil unregisters it, returning the process to synchronous
// mode. The setting affects every subsequent asynchronous operation
// on every connection until changed again.
func SetWaitCallback(fn WaitFunc) { defaultExecutor.SetWaitFunc(fn) }

// WaitCallback returns the process-wide wait callback, or nil if
// none is registered.
func WaitCallback() WaitFunc { return defaultExecutor.WaitFunc() }

// Green reports whether a process-wide wait callback is registered.
// Query dispatch layers use it to choose between a plain blocking
// call and Exec.
func Green() bool { return defaultExecutor.Green() }

// SpinWait is a ready-made wait callback for Pollable connections.
// It drives the poll state machine on the calling goroutine,
// yielding the processor while the socket is not ready. It is the
// simplest possible integration: correct, but it occupies the
// goroutine for the whole query. Use Sched to interleave several
// queries on one goroutine instead.
func SpinWait(ctx context.Context, conn Conn) error {
	p, ok := conn.(Pollable)
	if !ok {
		return ErrNotPollable
	}
	for {
		dir := conn.Async().Status
		if dir == StatusDone {
			return nil
		}
		ready, err := p.Ready(dir)
		if err != nil {
			return err
		}
		if !ready {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
			continue
		}
		if err := p.Poll(); err != nil {
			return err
		}
	}
}
