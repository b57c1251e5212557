package green

// Result is the opaque protocol-level result of a completed query.
// This package never looks inside one; it only hands it to the
// caller, or discards it when draining a canceled query.
type Result any

// Conn is the surface the executor drives on a database connection.
// Implementations belong to the wire-protocol layer; this package
// only orchestrates who waits and what happens when waiting fails.
//
// The caller is expected to hold whatever connection lock its
// protocol layer requires for the whole duration of an Exec call;
// none of these methods are invoked concurrently by this package.
type Conn interface {
	// Async returns the connection's async bookkeeping. The same
	// pointer must be returned on every call.
	Async() *AsyncState

	// SendQuery dispatches a command asynchronously. An error means
	// dispatch could not even begin; no wait loop is entered.
	SendQuery(command string) error

	// LastResult fetches the most recently completed response. It is
	// non-blocking: the executor calls it only once the poll state
	// machine reports StatusDone, when the response bytes are
	// already buffered.
	LastResult() (Result, error)

	// Cancel requests server-side cancellation of the query
	// currently executing on this connection. An error means the
	// request could not be delivered; lack of an error does not
	// guarantee the query was canceled.
	Cancel() error

	// CloseLocked forcibly releases the connection's resources. It
	// is called with the caller's connection lock held and must be
	// safe to call on an already broken connection. The connection
	// is terminal afterwards.
	CloseLocked()
}

// Pollable is the optional extension the ready-made wait callbacks
// (SpinWait, Sched) need: a connection that exposes its poll state
// machine and socket readiness. Callbacks supplied by external
// schedulers may use their own readiness mechanism instead and never
// require it.
type Pollable interface {
	Conn

	// Poll advances the protocol state machine one step, updating
	// Async().Status (WRITE→READ→DONE). It must only be called when
	// the socket is ready for the current direction.
	Poll() error

	// Ready reports without blocking whether the socket is ready
	// for the given direction.
	Ready(dir Status) (bool, error)
}
