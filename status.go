package green

import "errors"

// ErrConcurrentQuery is returned by Exec when the connection already
// has an asynchronous query in flight. Only a single async query can
// be executed on the same connection.
var ErrConcurrentQuery = errors.New("green: a single async query can be executed on the same connection")

// Status tracks the progress of an asynchronous query on a
// connection. The zero value is StatusDone: an idle connection with
// no operation outstanding.
type Status int

const (
	// StatusDone means no operation is outstanding; the terminal
	// state of every query.
	StatusDone Status = iota
	// StatusWrite means query bytes are still being flushed to the
	// socket.
	StatusWrite
	// StatusRead means response bytes are pending on the socket.
	StatusRead
)

// String implements the fmt.Stringer interface.
func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusWrite:
		return "write"
	case StatusRead:
		return "read"
	default:
		return "unknown"
	}
}

// AsyncState is the per-connection async bookkeeping driven by this
// package. Connection implementations embed one and return it from
// their Async method; the zero value is ready to use (idle, not
// busy).
//
// Status is advanced WRITE→READ→DONE by the connection's poll
// implementation as a side effect of each wait-callback invocation.
// The busy marker is managed exclusively by Exec and guarantees at
// most one outstanding async query per connection.
type AsyncState struct {
	Status Status
	busy   bool
}

// begin claims the connection for one async query. It fails before
// any network dispatch if a query is already outstanding.
func (s *AsyncState) begin() error {
	if s.busy {
		return ErrConcurrentQuery
	}
	s.busy = true
	return nil
}

// finish restores the idle terminal state. It runs on every exit
// path of Exec, success or failure.
func (s *AsyncState) finish() {
	s.Status = StatusDone
	s.busy = false
}
