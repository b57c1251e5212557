package green

import (
	"sync"

	"github.com/gammazero/deque"
)

// warningLimit bounds the executor's warning buffer. When full, the
// oldest entry is evicted.
const warningLimit = 50

// warnings buffers non-fatal diagnostics from the recovery
// procedure. Recovery failures are reported here rather than as
// errors so the caller always sees the root cause that triggered
// recovery, not cleanup noise.
//
// Unlike the per-connection async state, the buffer is shared by
// every flow using the executor, so it carries its own lock.
type warnings struct {
	mu sync.Mutex
	d  deque.Deque[string]
}

func (w *warnings) add(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.d.Len() >= warningLimit {
		w.d.PopFront()
	}
	w.d.PushBack(msg)
}

func (w *warnings) all() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, w.d.Len())
	for i := 0; i < w.d.Len(); i++ {
		out = append(out, w.d.At(i))
	}
	return out
}

func (w *warnings) clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.d.Clear()
}

// Warnings returns the warnings accumulated by recovery attempts on
// this executor, oldest first. At most the 50 most recent are kept.
func (e *Executor) Warnings() []string { return e.warns.all() }

// ClearWarnings discards all accumulated warnings.
func (e *Executor) ClearWarnings() { e.warns.clear() }

// Warnings returns the warnings accumulated on the process-wide
// executor, oldest first.
func Warnings() []string { return defaultExecutor.Warnings() }

// ClearWarnings discards the process-wide executor's warnings.
func ClearWarnings() { defaultExecutor.ClearWarnings() }
