package app

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/depeter/couchosd/internal/overlay"
)

func TestRemoteDecoder(t *testing.T) {
	Convey("Given a remote decoder", t, func() {
		d := newRemoteDecoder()

		Convey("Non-key events and unknown keys are dropped", func() {
			_, ok := d.decode(0x02, keyPlayPause, 1)
			So(ok, ShouldBeFalse)
			_, ok = d.decode(evKey, 30, 1)
			So(ok, ShouldBeFalse)
		})

		Convey("Held keys count their repeats until released", func() {
			ev, ok := d.decode(evKey, keyFastForward, 1)
			So(ok, ShouldBeTrue)
			So(ev.Key, ShouldResemble, overlay.KeyEvent{Key: overlay.KeyFastForward, Down: true})

			d.decode(evKey, keyFastForward, 2)
			ev, _ = d.decode(evKey, keyFastForward, 2)
			So(ev.Key.Repeat, ShouldEqual, 2)

			ev, _ = d.decode(evKey, keyFastForward, 0)
			So(ev.Key, ShouldResemble, overlay.KeyEvent{Key: overlay.KeyFastForward})

			ev, _ = d.decode(evKey, keyFastForward, 1)
			So(ev.Key.Repeat, ShouldEqual, 0)
		})

		Convey("Back fires on press only", func() {
			ev, ok := d.decode(evKey, keyBack, 1)
			So(ok, ShouldBeTrue)
			So(ev.Back, ShouldBeTrue)
			_, ok = d.decode(evKey, keyBack, 2)
			So(ok, ShouldBeFalse)
			_, ok = d.decode(evKey, keyBack, 0)
			So(ok, ShouldBeFalse)
		})
	})
}
