package playback_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/depeter/couchosd/internal/looper"
	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/playback/playbacktest"
	"github.com/depeter/couchosd/internal/timeline"
)

func TestPlayback(t *testing.T) {
	Convey("Given a fake player", t, func() {
		p := playbacktest.New(looper.New(clockwork.NewFakeClock()), time.Minute)

		Convey("IsPlaying follows play-when-ready and terminal states", func() {
			So(playback.IsPlaying(p), ShouldBeTrue)
			p.Play = false
			So(playback.IsPlaying(p), ShouldBeFalse)
			p.Play = true
			p.St = playback.StateEnded
			So(playback.IsPlaying(p), ShouldBeFalse)
			p.St = playback.StateBuffering
			So(playback.IsPlaying(p), ShouldBeTrue)
		})

		Convey("Terminal states are idle and ended", func() {
			So(playback.StateIdle.Terminal(), ShouldBeTrue)
			So(playback.StateEnded.Terminal(), ShouldBeTrue)
			So(playback.StateReady.Terminal(), ShouldBeFalse)
			So(playback.StateBuffering.String(), ShouldEqual, "buffering")
		})

		Convey("CurrentSegmentDynamic reads the active segment", func() {
			So(playback.CurrentSegmentDynamic(p), ShouldBeFalse)
			p.TL = timeline.Timeline{Segments: []timeline.Segment{{Duration: timeline.TimeUnset, Dynamic: true}}}
			So(playback.CurrentSegmentDynamic(p), ShouldBeTrue)
			p.Segment = 4
			So(playback.CurrentSegmentDynamic(p), ShouldBeFalse)
		})

		Convey("The default dispatcher forwards to the player", func() {
			var d playback.Dispatcher = playback.DefaultDispatcher{}
			So(d.SeekTo(p, 0, 5*time.Second), ShouldBeTrue)
			So(p.Seeks, ShouldResemble, []playbacktest.Seek{{Segment: 0, Position: 5 * time.Second}})
			So(d.SetPlayWhenReady(p, false), ShouldBeTrue)
			So(p.Play, ShouldBeFalse)
			So(d.Stop(p), ShouldBeTrue)
			So(p.St, ShouldEqual, playback.StateIdle)
		})
	})
}
