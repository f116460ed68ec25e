package player

import (
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/depeter/couchosd/internal/overlay"
)

type recordingSink struct {
	frames []string
	err    error
}

func (r *recordingSink) SetOverlay(id int, ass string) error {
	if r.err != nil {
		return r.err
	}
	r.frames = append(r.frames, ass)
	return nil
}

type staticPanel struct {
	lines  []string
	cursor int
}

func (p staticPanel) Title() string   { return "Tracks" }
func (p staticPanel) Lines() []string { return p.lines }
func (p staticPanel) Cursor() int     { return p.cursor }

func TestOSD(t *testing.T) {
	Convey("Given an OSD", t, func() {
		sink := &recordingSink{}
		o := NewOSD(sink, staticPanel{lines: []string{"English", "{French}"}}, nil)

		Convey("Nothing is drawn while hidden", func() {
			So(o.Render(), ShouldBeEmpty)
		})

		Convey("Once visible", func() {
			o.SetVisible(true)
			o.SetPositionText("0:30")
			o.SetDurationText("1:30")
			o.SetDuration(2 * time.Minute)
			o.SetPosition(30 * time.Second)

			Convey("the times and the bar are drawn", func() {
				ass := o.Render()
				So(ass, ShouldContainSubstring, "0:30")
				So(ass, ShouldContainSubstring, "1:30")
				// a quarter of the bar
				So(ass, ShouldContainSubstring, `\pos(580,975)`)
			})

			Convey("the play button reflects playback", func() {
				So(o.Render(), ShouldContainSubstring, "▶")
				o.SetPlaying(true)
				So(o.Render(), ShouldContainSubstring, "❚❚")
			})

			Convey("hidden controls are left out", func() {
				o.SetControl(overlay.ControlNext, overlay.ControlState{})
				So(o.Render(), ShouldNotContainSubstring, "⏭")
				So(o.Render(), ShouldContainSubstring, "⏮")
			})

			Convey("dimmed controls are drawn translucent", func() {
				o.SetControl(overlay.ControlRewind, overlay.ControlState{Visible: true, Alpha: 0.2})
				So(o.controlAlpha(overlay.ControlRewind), ShouldEqual, "&HCC&")
				o.SetAlpha(0.5)
				So(o.assAlpha(1), ShouldEqual, "&H7F&")
			})

			Convey("markers are drawn by played state", func() {
				o.SetMarkers([]time.Duration{time.Minute, 90 * time.Second, time.Hour}, []bool{true, false, false}, 2)
				ass := o.Render()
				So(strings.Count(ass, assMarker), ShouldEqual, 1)
				So(strings.Count(ass, assPlayed), ShouldEqual, 1)
			})

			Convey("the live badge follows the edge", func() {
				o.SetLive(true, false)
				So(o.Render(), ShouldContainSubstring, "LIVE")
				So(o.Render(), ShouldNotContainSubstring, assLive)
				o.SetLive(true, true)
				So(o.Render(), ShouldContainSubstring, assLive)
			})

			Convey("the carousel slides in with escaped content", func() {
				So(o.Render(), ShouldNotContainSubstring, "Tracks")
				o.SetCarousel(0.5)
				o.Focus(overlay.ControlCarousel)
				ass := o.Render()
				So(ass, ShouldContainSubstring, "Tracks")
				So(ass, ShouldContainSubstring, `\{French\}`)
				So(ass, ShouldContainSubstring, "▸ English")
				So(ass, ShouldContainSubstring, `\pos(0,870)`)
			})

			Convey("Flush sends only changed frames", func() {
				o.Flush()
				o.Flush()
				So(sink.frames, ShouldHaveLength, 1)
				o.SetPositionText("0:30")
				o.Flush()
				So(sink.frames, ShouldHaveLength, 1)
				o.SetPositionText("0:31")
				o.Flush()
				So(sink.frames, ShouldHaveLength, 2)

				o.SetVisible(false)
				o.Flush()
				So(sink.frames[2], ShouldBeEmpty)
			})

			Convey("a failed frame is retried on the next change", func() {
				sink.err = errors.New("closed")
				o.Flush()
				So(o.last, ShouldBeEmpty)
				sink.err = nil
				o.Invalidate()
				o.Flush()
				So(sink.frames, ShouldHaveLength, 1)
			})
		})

		Convey("The preferred update delay is one pixel of the bar", func() {
			So(o.PreferredUpdateDelay(), ShouldEqual, 0)
			o.SetDuration(1520 * time.Second)
			So(o.PreferredUpdateDelay(), ShouldEqual, time.Second)
		})
	})
}
