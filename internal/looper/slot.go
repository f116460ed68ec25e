package looper

import "time"

// Slot holds at most one scheduled task of a given kind. Scheduling a new task cancels
// the previous one, so a slot never fires twice for one arming.
//
// Slots are looper-confined: call Schedule and Stop only from tasks running on l.
type Slot struct {
	l    *Looper
	task *Task
}

// NewSlot returns an empty slot bound to l.
func (l *Looper) NewSlot() *Slot {
	return &Slot{l: l}
}

// Schedule cancels any pending task in the slot and schedules fn after d.
func (s *Slot) Schedule(d time.Duration, fn func()) {
	s.Stop()
	var t *Task
	t = s.l.PostDelayed(d, func() {
		if s.task == t {
			s.task = nil
		}
		fn()
	})
	s.task = t
}

// Stop cancels the pending task, if any.
func (s *Slot) Stop() {
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}
}

// Pending reports whether a task is scheduled.
func (s *Slot) Pending() bool { return s.task != nil }

// Due returns when the pending task fires.
func (s *Slot) Due() (time.Time, bool) {
	if s.task == nil {
		return time.Time{}, false
	}
	return s.task.Due(), true
}
