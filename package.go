// Package green lets a database driver run queries cooperatively:
// instead of blocking the caller's runtime on the socket, the driver
// delegates "wait until the connection is ready" to an externally
// registered callback, and recovers safely when that wait fails with
// a query still in flight.
//
// Key components:
//
//   - WaitFunc: The externally supplied wait callback. It suspends
//     the logical caller (cooperative task, event-loop turn, or OS
//     thread) until the connection's socket is ready, driving the
//     connection's poll state machine to completion.
//
//   - Executor: Runs one query asynchronously through the wait
//     strategy: send, mark the connection busy, wait, fetch the
//     result. A package-level default executor provides the
//     process-wide registry (SetWaitCallback, Green, Exec) that a
//     driver's host API exposes.
//
//   - Conn/Pollable: The boundary to the wire-protocol layer. This
//     package implements no protocol of its own; it reads and
//     advances the connection's AsyncState and calls into the
//     protocol layer to send, fetch, cancel and close.
//
//   - Recovery: When a wait fails mid-query the executor cancels the
//     server-side query and drains it, closing the connection only
//     if that second wait fails too. The original error is always
//     the one the caller sees; recovery problems surface as
//     Warnings.
//
//   - Sched/SpinWait: Ready-made wait strategies for programs
//     without a cooperative runtime of their own.
package green
