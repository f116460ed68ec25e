package overlay

import (
	"time"

	"github.com/depeter/couchosd/internal/looper"
)

// animation steps a value from 0 to 1 over a duration, one frame per looper tick.
type animation struct {
	l     *looper.Looper
	frame *looper.Slot

	start    time.Time
	duration time.Duration
	step     func(f float64)
	end      func()
}

func newAnimation(l *looper.Looper) *animation {
	return &animation{l: l, frame: l.NewSlot()}
}

func (a *animation) Running() bool { return a.end != nil }

// Start begins a new run. The caller must not start over a running animation.
func (a *animation) Start(d time.Duration, step func(f float64), end func()) {
	a.start = a.l.Now()
	a.duration = d
	a.step = step
	a.end = end
	step(0)
	if d <= 0 {
		a.Finish()
		return
	}
	a.frame.Schedule(frameInterval, a.tick)
}

func (a *animation) tick() {
	if !a.Running() {
		return
	}
	f := float64(a.l.Now().Sub(a.start)) / float64(a.duration)
	if f >= 1 {
		a.Finish()
		return
	}
	a.step(f)
	a.frame.Schedule(frameInterval, a.tick)
}

// Finish jumps to the final frame and runs the end callback.
func (a *animation) Finish() {
	if !a.Running() {
		return
	}
	a.frame.Stop()
	step, end := a.step, a.end
	a.step, a.end = nil, nil
	step(1)
	end()
}

// Cancel stops the animation where it is, without running the end callback.
func (a *animation) Cancel() {
	a.frame.Stop()
	a.step, a.end = nil, nil
}
