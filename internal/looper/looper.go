// Package looper runs callbacks on one logical thread.
//
// A Looper owns a queue of delayed tasks. Tasks are executed by whoever drives the
// looper: the host's frame loop calls RunPending once per frame, headless hosts call Run.
// Other goroutines never touch looper-confined state directly; they hand work over with
// Post.
package looper

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is a scheduled callback. The zero value is not usable; tasks come from Post and
// PostDelayed.
type Task struct {
	due   time.Time
	seq   uint64
	fn    func()
	index int
	l     *Looper
}

// Cancel removes the task from the queue. Cancelling a task that already ran or was
// already cancelled is a no-op.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.l.mu.Lock()
	defer t.l.mu.Unlock()
	if t.index >= 0 {
		heap.Remove(&t.l.queue, t.index)
	}
}

// Due returns the time the task becomes runnable.
func (t *Task) Due() time.Time { return t.due }

// Looper is a single-threaded task queue driven by a clockwork.Clock.
type Looper struct {
	clock clockwork.Clock

	mu    sync.Mutex
	queue taskQueue
	seq   uint64

	wake chan struct{}
}

// New creates a looper on the given clock. A nil clock means the real clock.
func New(clock clockwork.Clock) *Looper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Looper{
		clock: clock,
		wake:  make(chan struct{}, 1),
	}
}

// Clock returns the looper's clock.
func (l *Looper) Clock() clockwork.Clock { return l.clock }

// Now returns the looper clock's current time.
func (l *Looper) Now() time.Time { return l.clock.Now() }

// Post queues fn to run on the looper as soon as possible. Safe from any goroutine.
func (l *Looper) Post(fn func()) *Task {
	return l.PostDelayed(0, fn)
}

// PostDelayed queues fn to run on the looper after d. Safe from any goroutine.
func (l *Looper) PostDelayed(d time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	l.seq++
	t := &Task{
		due: l.clock.Now().Add(d),
		seq: l.seq,
		fn:  fn,
		l:   l,
	}
	heap.Push(&l.queue, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

// Pending returns the number of queued tasks.
func (l *Looper) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// NextDue returns when the earliest queued task becomes runnable.
func (l *Looper) NextDue() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return time.Time{}, false
	}
	return l.queue[0].due, true
}

// RunPending runs every task that is due, in due order, on the calling goroutine.
// Tasks that become due while running (zero-delay posts) run in the same call.
// Returns the number of tasks run.
func (l *Looper) RunPending() int {
	n := 0
	for {
		t := l.popDue()
		if t == nil {
			return n
		}
		t.fn()
		n++
	}
}

func (l *Looper) popDue() *Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	if l.queue[0].due.After(l.clock.Now()) {
		return nil
	}
	return heap.Pop(&l.queue).(*Task)
}

// Run drives the looper until ctx is done. Use it when no frame loop is available.
func (l *Looper) Run(ctx context.Context) error {
	for {
		l.RunPending()

		var timeout <-chan time.Time
		var timer clockwork.Timer
		if due, ok := l.NextDue(); ok {
			timer = l.clock.NewTimer(due.Sub(l.clock.Now()))
			timeout = timer.Chan()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case <-l.wake:
		case <-timeout:
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

// taskQueue is a min-heap ordered by due time, then by post order.
type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
