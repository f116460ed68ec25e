package timeline

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func ms(n int64) time.Duration { return time.Duration(n) * time.Millisecond }

func vod(d time.Duration, breaks ...AdBreak) Segment {
	return Segment{
		Duration: d,
		Seekable: true,
		SubPeriods: []SubPeriod{{
			Duration: d,
			AdBreaks: breaks,
		}},
	}
}

func TestCanFlattenAll(t *testing.T) {
	Convey("CanFlattenAll", t, func() {
		Convey("Accepts timelines with known durations", func() {
			tl := Timeline{Segments: []Segment{vod(ms(1000)), vod(ms(2000))}}
			So(CanFlattenAll(tl), ShouldBeTrue)
		})

		Convey("Rejects an unknown duration anywhere", func() {
			tl := Timeline{Segments: []Segment{vod(ms(1000)), {Duration: TimeUnset}}}
			So(CanFlattenAll(tl), ShouldBeFalse)
		})

		Convey("Rejects more segments than the cap", func() {
			segs := make([]Segment, MaxSegmentsForMultiSegment+1)
			for i := range segs {
				segs[i] = vod(ms(10))
			}
			So(CanFlattenAll(Timeline{Segments: segs}), ShouldBeFalse)
			So(CanFlattenAll(Timeline{Segments: segs[:MaxSegmentsForMultiSegment]}), ShouldBeTrue)
		})
	})
}

func TestFlatten(t *testing.T) {
	Convey("Given a multi-segment timeline with known durations", t, func() {
		tl := Timeline{Segments: []Segment{vod(ms(10000)), vod(ms(20000)), vod(ms(5000))}}

		Convey("Multi mode sums every duration", func() {
			f := Flatten(tl, 1, true, nil)
			So(f.Multi, ShouldBeTrue)
			So(f.Duration, ShouldEqual, ms(35000))
			So(f.DurationKnown, ShouldBeTrue)
			So(f.CurrentOffset, ShouldEqual, ms(10000))
		})

		Convey("The offset of the last segment is the sum of all before it", func() {
			f := Flatten(tl, 2, true, nil)
			So(f.CurrentOffset, ShouldEqual, ms(30000))
		})

		Convey("Single mode only covers the active segment", func() {
			f := Flatten(tl, 1, false, nil)
			So(f.Multi, ShouldBeFalse)
			So(f.Duration, ShouldEqual, ms(20000))
			So(f.CurrentOffset, ShouldEqual, 0)
		})
	})

	Convey("Given a timeline ending in an unknown-duration segment", t, func() {
		tl := Timeline{Segments: []Segment{
			vod(ms(10000)),
			vod(ms(20000)),
			{Duration: TimeUnset, Dynamic: true},
		}}

		Convey("Multi mode is not eligible even when allowed", func() {
			f := Flatten(tl, 2, true, nil)
			So(f.Multi, ShouldBeFalse)
		})

		Convey("The active unknown segment truncates to a partial sum without error", func() {
			f := Flatten(tl, 2, true, nil)
			So(f.Duration, ShouldEqual, 0)
			So(f.DurationKnown, ShouldBeFalse)
			So(f.CurrentOffset, ShouldEqual, 0)
		})

		Convey("A known active segment still flattens in single mode", func() {
			f := Flatten(tl, 1, true, nil)
			So(f.Duration, ShouldEqual, ms(20000))
			So(f.DurationKnown, ShouldBeTrue)
		})
	})

	Convey("An empty timeline flattens to nothing", t, func() {
		f := Flatten(Timeline{}, 0, true, nil)
		So(f.Duration, ShouldEqual, 0)
		So(f.DurationKnown, ShouldBeFalse)
	})

	Convey("Given segments with ad breaks", t, func() {
		markers := &MarkerSet{}
		tl := Timeline{Segments: []Segment{
			vod(ms(10000),
				AdBreak{Position: 0, Played: true},
				AdBreak{Position: ms(5000)},
				AdBreak{Position: TimeEndOfSource},
			),
			{
				Duration: ms(20000),
				SubPeriods: []SubPeriod{
					{Duration: ms(8000), AdBreaks: []AdBreak{{Position: ms(1000)}}},
					{Duration: TimeUnset, PositionInSegment: ms(8000), AdBreaks: []AdBreak{
						{Position: TimeEndOfSource},
						{Position: ms(2000), Played: true},
						{Position: ms(90000)},
					}},
				},
			},
		}}

		Convey("Markers are converted to flattened positions in source order", func() {
			f := Flatten(tl, 0, true, markers)
			So(f.Discovered, ShouldEqual, 5)

			positions, played, n := markers.Merge()
			So(n, ShouldEqual, 5)
			So(positions[:n], ShouldResemble, []time.Duration{
				0, ms(5000), ms(10000), ms(11000), ms(20000),
			})
			So(played[:n], ShouldResemble, []bool{true, false, false, false, true})
		})

		Convey("Single mode only reports markers of the active segment, relative to it", func() {
			Flatten(tl, 1, false, markers)
			positions, _, n := markers.Merge()
			So(n, ShouldEqual, 2)
			So(positions[:n], ShouldResemble, []time.Duration{ms(1000), ms(10000)})
		})

		Convey("Rebuilding resets the discovered markers", func() {
			Flatten(tl, 0, true, markers)
			Flatten(tl, 0, false, markers)
			So(markers.Discovered(), ShouldEqual, 3)
		})
	})
}
