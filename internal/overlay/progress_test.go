package overlay

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/depeter/couchosd/internal/config"
	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/timeline"
)

func TestNextUpdateDelay(t *testing.T) {
	Convey("NextUpdateDelay", t, func() {
		cases := []struct {
			name      string
			position  time.Duration
			preferred time.Duration
			speed     float64
			min       time.Duration
			want      time.Duration
		}{
			{"preferred granularity scaled by speed", 0, 500 * time.Millisecond, 2, 200 * time.Millisecond, 250 * time.Millisecond},
			{"no preference waits a full second", 0, 0, 1, 200 * time.Millisecond, time.Second},
			{"stops at the next whole second", 1900 * time.Millisecond, 500 * time.Millisecond, 1, 16 * time.Millisecond, 100 * time.Millisecond},
			{"raised to the minimum interval", 1900 * time.Millisecond, 500 * time.Millisecond, 1, 200 * time.Millisecond, 200 * time.Millisecond},
			{"paused speed uses the maximum", 0, 500 * time.Millisecond, 0, 200 * time.Millisecond, MaxUpdateInterval},
			{"slow motion is capped", 0, 500 * time.Millisecond, 0.25, 200 * time.Millisecond, MaxUpdateInterval},
			{"minimum below the floor is raised", 1999 * time.Millisecond, 500 * time.Millisecond, 1, time.Millisecond, MinUpdateIntervalFloor},
			{"minimum above the maximum is lowered", 0, 500 * time.Millisecond, 1, 5 * time.Second, MaxUpdateInterval},
		}
		for _, tc := range cases {
			Convey(tc.name, func() {
				So(NextUpdateDelay(tc.position, tc.preferred, tc.speed, tc.min), ShouldEqual, tc.want)
			})
		}
	})
}

func TestFormatDuration(t *testing.T) {
	Convey("FormatDuration", t, func() {
		So(FormatDuration(0), ShouldEqual, "0:00")
		So(FormatDuration(65*time.Second), ShouldEqual, "1:05")
		So(FormatDuration(59*time.Minute+59*time.Second+999*time.Millisecond), ShouldEqual, "59:59")
		So(FormatDuration(time.Hour+2*time.Minute+3*time.Second), ShouldEqual, "1:02:03")
		So(FormatDuration(-time.Second), ShouldEqual, "0:00")
		So(FormatDuration(timeline.TimeUnset), ShouldEqual, "--:--")
	})
}

func TestProgressLoop(t *testing.T) {
	Convey("Given a visible controller over a playing item", t, func() {
		h := newHarness()
		h.indicator.preferred = 500 * time.Millisecond
		h.player.Rate = 2
		h.shown()

		Convey("The next refresh follows the indicator granularity and speed", func() {
			h.player.Discontinuity()
			due, ok := h.c.progressTimer.Due()
			So(ok, ShouldBeTrue)
			So(due.Sub(h.clock.Now()), ShouldEqual, 250*time.Millisecond)
		})

		Convey("Position and remaining time are pushed out", func() {
			h.player.Pos = 30 * time.Second
			h.player.Buffered = 45 * time.Second
			h.player.Discontinuity()
			So(h.surface.positionText, ShouldEqual, "0:30")
			So(h.surface.durationText, ShouldEqual, "1:30")
			So(h.indicator.position, ShouldEqual, 30*time.Second)
			So(h.indicator.buffered, ShouldEqual, 45*time.Second)
			So(h.progress.last, ShouldEqual, 30*time.Second)
		})

		Convey("A paused player is polled once a second", func() {
			h.player.SetPlayWhenReady(false)
			due, ok := h.c.progressTimer.Due()
			So(ok, ShouldBeTrue)
			So(due.Sub(h.clock.Now()), ShouldEqual, time.Second)
			So(h.surface.playing, ShouldBeFalse)
		})

		Convey("A buffering player is polled once a second", func() {
			h.player.SetState(playback.StateBuffering)
			due, _ := h.c.progressTimer.Due()
			So(due.Sub(h.clock.Now()), ShouldEqual, time.Second)
			So(h.surface.playing, ShouldBeTrue)
		})

		Convey("An ended player is not polled", func() {
			h.player.SetState(playback.StateEnded)
			So(h.c.progressTimer.Pending(), ShouldBeFalse)
			So(h.surface.playing, ShouldBeFalse)
		})

		Convey("Scrubbing freezes the position text", func() {
			h.c.ScrubStart(time.Minute)
			h.player.Pos = 10 * time.Second
			h.player.Discontinuity()
			So(h.surface.positionText, ShouldEqual, "1:00")
			So(h.indicator.position, ShouldEqual, 10*time.Second)
		})
	})

	Convey("A hidden controller does not poll", t, func() {
		h := newHarness()
		h.player.Discontinuity()
		h.advance(5 * time.Second)
		So(h.c.progressTimer.Pending(), ShouldBeFalse)
		So(h.progress.updates, ShouldEqual, 0)
	})

	Convey("The minimum update interval is clamped", t, func() {
		h := newHarness()
		h.c.SetMinUpdateInterval(time.Millisecond)
		So(h.c.MinUpdateInterval(), ShouldEqual, MinUpdateIntervalFloor)
		h.c.SetMinUpdateInterval(time.Minute)
		So(h.c.MinUpdateInterval(), ShouldEqual, MaxUpdateInterval)
	})
}

func TestTimelineDisplay(t *testing.T) {
	s := time.Second
	threeSegments := timeline.Timeline{Segments: []timeline.Segment{
		{Duration: 10 * s, Seekable: true},
		{Duration: 20 * s, Seekable: true},
		{Duration: timeline.TimeUnset, Seekable: true},
	}}

	Convey("Given a visible controller showing the total duration", t, func() {
		cfg := config.DefaultConfig().Overlay
		cfg.ShowRemaining = false
		h := newHarness(WithConfig(cfg))
		h.shown()

		Convey("An unknown final duration falls back to single-segment mode", func() {
			h.player.SetTimeline(threeSegments, 2)
			f := h.c.Flattening()
			So(f.Multi, ShouldBeFalse)
			So(f.DurationKnown, ShouldBeFalse)
			So(h.indicator.duration, ShouldEqual, timeline.TimeUnset)
			So(h.surface.durationText, ShouldEqual, "--:--")
		})

		Convey("Known durations are laid end to end", func() {
			tl := threeSegments
			tl.Segments = append([]timeline.Segment(nil), tl.Segments...)
			tl.Segments[2].Duration = 5 * s
			h.player.Pos = 2 * s
			h.player.SetTimeline(tl, 1)

			f := h.c.Flattening()
			So(f.Multi, ShouldBeTrue)
			So(f.Duration, ShouldEqual, 35*s)
			So(f.CurrentOffset, ShouldEqual, 10*s)
			So(h.indicator.duration, ShouldEqual, 35*s)
			So(h.indicator.position, ShouldEqual, 12*s)
			So(h.surface.durationText, ShouldEqual, "0:35")
			So(h.surface.positionText, ShouldEqual, "0:12")
		})

		Convey("Ad breaks and extra markers reach the indicator", func() {
			tl := timeline.Timeline{Segments: []timeline.Segment{{
				Duration: time.Minute, Seekable: true,
				SubPeriods: []timeline.SubPeriod{{
					Duration: time.Minute,
					AdBreaks: []timeline.AdBreak{{Position: 0, Played: true}, {Position: 30 * s}},
				}},
			}}}
			h.player.SetTimeline(tl, 0)
			So(h.indicator.positions, ShouldResemble, []time.Duration{0, 30 * s})
			So(h.indicator.played, ShouldResemble, []bool{true, false})

			err := h.c.SetExtraMarkers([]time.Duration{45 * s}, []bool{false})
			So(err, ShouldBeNil)
			So(h.indicator.positions, ShouldResemble, []time.Duration{0, 30 * s, 45 * s})

			err = h.c.SetExtraMarkers([]time.Duration{45 * s}, nil)
			So(errors.Is(err, timeline.ErrMarkerLengthMismatch), ShouldBeTrue)
			So(h.indicator.positions, ShouldHaveLength, 3)

			So(h.c.SetExtraMarkers(nil, nil), ShouldBeNil)
			So(h.indicator.positions, ShouldResemble, []time.Duration{0, 30 * s})
		})
	})

	Convey("Remaining time is unknown while the duration is", t, func() {
		h := newHarness()
		h.shown()
		h.player.SetTimeline(threeSegments, 2)
		So(h.surface.durationText, ShouldEqual, "--:--")
	})
}
