package green

import (
	"context"
	"errors"

	"github.com/gammazero/deque"
	"github.com/webriots/coro"
)

// ErrNotSchedTask is returned by a scheduler's wait callback when it
// is invoked outside one of that scheduler's tasks.
var ErrNotSchedTask = errors.New("green: wait callback invoked outside a scheduler task")

// Sched interleaves several asynchronous queries on a single
// goroutine. Each function passed to Go runs as a coroutine; when a
// query executed through the scheduler's Executor has to wait for a
// socket, the task suspends and the run loop resumes the others.
// Connections used under a Sched must implement Pollable.
//
// A Sched is for callers without a cooperative runtime of their own.
// Programs that already have one (an event loop, a task library)
// should register their own WaitFunc instead.
type Sched struct {
	exec    *Executor
	runq    deque.Deque[*task]
	pending []func(context.Context)
}

// task is one coroutine under a scheduler. Suspension happens only
// inside the scheduler's wait callback; between waits a task runs to
// completion without yielding.
type task struct {
	suspend func() struct{}
	resume  func(struct{}) (struct{}, bool)
	cancel  func()
}

// NewSched returns an empty scheduler. Its Executor is bound to the
// scheduler's own wait callback.
func NewSched() *Sched {
	s := new(Sched)
	s.exec = NewExecutor(s.wait)
	return s
}

// Executor returns the executor whose wait strategy suspends the
// calling task on this scheduler. Tasks use it (not the package
// registry) to run their queries.
func (s *Sched) Executor() *Executor { return s.exec }

// Go queues fn to run as a task. It may be called before Run or from
// inside a running task; in the latter case the new task starts
// within the same Run call.
func (s *Sched) Go(fn func(context.Context)) {
	s.pending = append(s.pending, fn)
}

// Run executes queued tasks until all have finished, round-robin,
// never leaving the calling goroutine. The context is propagated to
// every task.
func (s *Sched) Run(ctx context.Context) {
	defer s.shutdown()

	for len(s.pending) > 0 || s.runq.Len() > 0 {
		for _, fn := range s.pending {
			s.runq.PushBack(s.spawn(ctx, fn))
		}
		s.pending = s.pending[:0]

		t := s.runq.PopFront()
		if _, alive := t.resume(struct{}{}); alive {
			s.runq.PushBack(t)
		}
	}
}

// shutdown cancels any task still suspended, so a panic escaping a
// task does not strand the coroutines of its siblings.
func (s *Sched) shutdown() {
	for s.runq.Len() > 0 {
		s.runq.PopFront().cancel()
	}
	s.pending = s.pending[:0]
}

// spawn creates the coroutine for fn. The task is not started; the
// run loop performs the first resume.
func (s *Sched) spawn(ctx context.Context, fn func(context.Context)) *task {
	t := new(task)

	resume, cancel := coro.New(
		func(yield func(struct{}) struct{}, suspend func() struct{}) (z struct{}) {
			t.suspend = suspend
			fn(withTask(ctx, t))
			return
		},
	)

	t.resume = resume
	t.cancel = cancel
	return t
}

// wait is the scheduler's WaitFunc. It drives the connection's poll
// state machine like SpinWait, but suspends the calling task instead
// of spinning while the socket is not ready, so sibling tasks make
// progress in the meantime.
func (s *Sched) wait(ctx context.Context, conn Conn) error {
	p, ok := conn.(Pollable)
	if !ok {
		return ErrNotPollable
	}
	t, ok := taskFromContext(ctx)
	if !ok {
		return ErrNotSchedTask
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
			t.suspend()
			continue
		}
		if err := p.Poll(); err != nil {
			return err
		}
	}
}
