package looper

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLooper(t *testing.T) {
	Convey("Given a looper on a fake clock", t, func() {
		clock := clockwork.NewFakeClock()
		l := New(clock)

		Convey("Delayed tasks run in due order once the clock reaches them", func() {
			var order []string
			l.PostDelayed(300*time.Millisecond, func() { order = append(order, "c") })
			l.PostDelayed(100*time.Millisecond, func() { order = append(order, "a") })
			l.PostDelayed(200*time.Millisecond, func() { order = append(order, "b") })

			So(l.RunPending(), ShouldEqual, 0)

			clock.Advance(150 * time.Millisecond)
			So(l.RunPending(), ShouldEqual, 1)
			So(order, ShouldResemble, []string{"a"})

			clock.Advance(time.Second)
			So(l.RunPending(), ShouldEqual, 2)
			So(order, ShouldResemble, []string{"a", "b", "c"})
			So(l.Pending(), ShouldEqual, 0)
		})

		Convey("Tasks with the same due time keep post order", func() {
			var order []int
			for i := 0; i < 5; i++ {
				i := i
				l.Post(func() { order = append(order, i) })
			}
			l.RunPending()
			So(order, ShouldResemble, []int{0, 1, 2, 3, 4})
		})

		Convey("A cancelled task never runs", func() {
			ran := false
			task := l.PostDelayed(time.Second, func() { ran = true })
			task.Cancel()
			task.Cancel()

			clock.Advance(2 * time.Second)
			l.RunPending()
			So(ran, ShouldBeFalse)
			So(l.Pending(), ShouldEqual, 0)
		})

		Convey("Zero-delay posts made by a running task run in the same pass", func() {
			count := 0
			l.Post(func() {
				count++
				l.Post(func() { count++ })
			})
			So(l.RunPending(), ShouldEqual, 2)
			So(count, ShouldEqual, 2)
		})

		Convey("NextDue reports the earliest task", func() {
			_, ok := l.NextDue()
			So(ok, ShouldBeFalse)

			l.PostDelayed(time.Second, func() {})
			l.PostDelayed(time.Millisecond, func() {})
			due, ok := l.NextDue()
			So(ok, ShouldBeTrue)
			So(due, ShouldEqual, clock.Now().Add(time.Millisecond))
		})
	})
}

func TestSlot(t *testing.T) {
	Convey("Given a slot", t, func() {
		clock := clockwork.NewFakeClock()
		l := New(clock)
		s := l.NewSlot()

		Convey("Rescheduling cancels the previous arming", func() {
			fired := 0
			s.Schedule(time.Second, func() { fired++ })
			s.Schedule(2*time.Second, func() { fired += 10 })
			So(l.Pending(), ShouldEqual, 1)

			clock.Advance(time.Second)
			l.RunPending()
			So(fired, ShouldEqual, 0)
			So(s.Pending(), ShouldBeTrue)

			clock.Advance(time.Second)
			l.RunPending()
			So(fired, ShouldEqual, 10)
			So(s.Pending(), ShouldBeFalse)
		})

		Convey("Stop cancels the pending task", func() {
			fired := false
			s.Schedule(time.Second, func() { fired = true })
			s.Stop()
			clock.Advance(time.Minute)
			l.RunPending()
			So(fired, ShouldBeFalse)
			So(s.Pending(), ShouldBeFalse)
		})

		Convey("A task may rearm its own slot", func() {
			fired := 0
			var tick func()
			tick = func() {
				fired++
				if fired < 3 {
					s.Schedule(time.Second, tick)
				}
			}
			s.Schedule(time.Second, tick)
			for i := 0; i < 5; i++ {
				clock.Advance(time.Second)
				l.RunPending()
			}
			So(fired, ShouldEqual, 3)
			So(s.Pending(), ShouldBeFalse)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Run executes posted work until the context ends", t, func() {
		l := New(nil)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- l.Run(ctx) }()

		ran := make(chan struct{})
		l.Post(func() { close(ran) })

		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("posted task did not run")
		}

		cancel()
		select {
		case err := <-done:
			So(err, ShouldEqual, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return")
		}
	})
}
