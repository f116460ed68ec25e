package overlay

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestShowHide(t *testing.T) {
	Convey("Given an attached, hidden controller", t, func() {
		h := newHarness()
		So(h.c.IsVisible(), ShouldBeFalse)

		Convey("Show fades in, refreshes and arms the auto-hide", func() {
			h.c.Show()
			So(h.c.Visibility(), ShouldEqual, Showing)
			So(h.c.IsVisible(), ShouldBeTrue)
			So(h.surface.visible, ShouldBeTrue)
			So(h.vis.starts, ShouldResemble, []bool{true})

			h.advance(h.c.fadeDuration + frameInterval)
			So(h.c.Visibility(), ShouldEqual, Visible)
			So(h.surface.alpha, ShouldEqual, 1)
			So(h.vis.ends, ShouldResemble, []bool{true})
			So(h.vis.progress, ShouldBeGreaterThan, 1)
			So(h.surface.focus, ShouldContain, ControlPlayPause)
			So(h.surface.positionText, ShouldEqual, "0:00")

			due, ok := h.c.hideTimer.Due()
			So(ok, ShouldBeTrue)
			So(due, ShouldEqual, h.c.HideAt())
		})

		Convey("The overlay hides itself after the show timeout", func() {
			h.shown()
			h.advance(DefaultShowTimeout)
			So(h.c.Visibility(), ShouldEqual, Hiding)

			h.advance(h.c.fadeDuration + frameInterval)
			So(h.c.Visibility(), ShouldEqual, Hidden)
			So(h.surface.visible, ShouldBeFalse)
			So(h.c.HideAt().IsZero(), ShouldBeTrue)
			So(h.c.progressTimer.Pending(), ShouldBeFalse)
		})

		Convey("Hiding twice during the fade runs exactly one fade-out", func() {
			h.shown()
			h.c.Hide()
			h.c.Hide()
			h.advance(frameInterval * 3)
			h.c.Hide()
			h.advance(h.c.fadeDuration + frameInterval)

			So(h.c.Visibility(), ShouldEqual, Hidden)
			So(h.vis.starts, ShouldResemble, []bool{true, false})
			So(h.vis.ends, ShouldResemble, []bool{true, false})

			hides := 0
			for _, v := range h.surface.visibleCalls {
				if !v {
					hides++
				}
			}
			So(hides, ShouldEqual, 1)
		})

		Convey("Show is ignored while a fade-out runs", func() {
			h.shown()
			h.c.Hide()
			h.c.Show()
			h.advance(h.c.fadeDuration + frameInterval)
			So(h.c.Visibility(), ShouldEqual, Hidden)
			So(h.vis.starts, ShouldResemble, []bool{true, false})
		})

		Convey("A zero show timeout keeps the overlay up indefinitely", func() {
			h.c.SetShowTimeout(0)
			h.c.Show()
			for i := 0; i < 60; i++ {
				h.advance(time.Second)
				So(h.c.hideTimer.Pending(), ShouldBeFalse)
			}
			So(h.c.Visibility(), ShouldEqual, Visible)
			So(h.c.HideAt().IsZero(), ShouldBeTrue)
		})

		Convey("Changing the timeout while visible rearms it", func() {
			h.shown()
			h.c.SetShowTimeout(10 * time.Second)
			h.advance(5 * time.Second)
			So(h.c.Visibility(), ShouldEqual, Visible)
			h.advance(5 * time.Second)
			So(h.c.Visibility(), ShouldEqual, Hiding)
		})

		Convey("ForceHide removes the overlay without a fade", func() {
			h.shown()
			h.c.ForceHide()
			So(h.c.Visibility(), ShouldEqual, Hidden)
			So(h.surface.visible, ShouldBeFalse)
			So(h.c.hideTimer.Pending(), ShouldBeFalse)
			So(h.vis.ends, ShouldResemble, []bool{true, false})
		})

		Convey("ForceHide cancels a running fade-in", func() {
			h.c.Show()
			h.c.ForceHide()
			h.advance(time.Second)
			So(h.c.Visibility(), ShouldEqual, Hidden)
			So(h.c.fade.Running(), ShouldBeFalse)
		})

		Convey("Touches rearm the auto-hide instead of stacking timers", func() {
			h.shown()
			h.advance(2 * time.Second)
			h.c.TouchDown(false)
			So(h.loop.Pending(), ShouldBeLessThanOrEqualTo, 2)
			h.advance(2 * time.Second)
			So(h.c.Visibility(), ShouldEqual, Visible)
			h.advance(time.Second + frameInterval)
			So(h.c.Visibility(), ShouldEqual, Hiding)
		})
	})
}

func TestAttachDetach(t *testing.T) {
	Convey("Given a visible controller", t, func() {
		h := newHarness()
		h.shown()
		hideAt := h.c.HideAt()

		Convey("Detaching drops every timer but keeps the deadline", func() {
			h.c.Detach()
			So(h.c.hideTimer.Pending(), ShouldBeFalse)
			So(h.c.progressTimer.Pending(), ShouldBeFalse)
			So(h.loop.Pending(), ShouldEqual, 0)
			So(h.c.HideAt(), ShouldEqual, hideAt)

			h.advance(10 * time.Second)
			So(h.c.Visibility(), ShouldEqual, Visible)

			Convey("Reattaching after the deadline hides at once", func() {
				h.c.Attach()
				So(h.c.Visibility(), ShouldEqual, Hiding)
			})
		})

		Convey("Reattaching before the deadline waits only for the remainder", func() {
			h.c.Detach()
			h.advance(time.Second)
			h.c.Attach()

			due, ok := h.c.hideTimer.Due()
			So(ok, ShouldBeTrue)
			So(due, ShouldEqual, hideAt)
		})

		Convey("Reattaching without a deadline arms a fresh timeout", func() {
			h.c.SetShowTimeout(0)
			h.c.Detach()
			h.c.showTimeout = DefaultShowTimeout
			So(h.c.HideAt().IsZero(), ShouldBeTrue)

			h.c.Attach()
			So(h.c.hideTimer.Pending(), ShouldBeTrue)
			So(h.c.HideAt(), ShouldEqual, h.clock.Now().Add(DefaultShowTimeout))
		})

		Convey("Detaching mid-fade completes the fade", func() {
			h.c.Hide()
			So(h.c.Visibility(), ShouldEqual, Hiding)
			h.c.Detach()
			So(h.c.Visibility(), ShouldEqual, Hidden)
			So(h.surface.visible, ShouldBeFalse)
		})
	})

	Convey("A detached controller records the deadline without scheduling", t, func() {
		h := newHarness()
		h.c.Detach()
		h.c.Show()
		So(h.c.Visibility(), ShouldEqual, Showing)
		h.advance(time.Second)
		So(h.c.Visibility(), ShouldEqual, Visible)
		So(h.c.HideAt().IsZero(), ShouldBeFalse)
		So(h.c.hideTimer.Pending(), ShouldBeFalse)
	})
}
