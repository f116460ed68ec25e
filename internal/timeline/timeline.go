// Package timeline models a player's segments and flattens them onto one seek axis.
package timeline

import (
	"math"
	"time"
)

const (
	// TimeUnset marks an unknown duration or position. As a seek target it means the
	// segment's default position (the live edge for dynamic segments).
	TimeUnset time.Duration = math.MinInt64 + 1

	// TimeEndOfSource marks an ad break placed at the end of its sub-period.
	TimeEndOfSource time.Duration = math.MinInt64

	// MaxSegmentsForMultiSegment is the largest timeline shown on one indicator.
	MaxSegmentsForMultiSegment = 100

	// IndexUnset is returned when a segment index does not exist.
	IndexUnset = -1
)

// AdBreak is a marked interruption inside a sub-period.
type AdBreak struct {
	// Position relative to the start of the sub-period, or TimeEndOfSource.
	Position time.Duration
	Played   bool
}

// SubPeriod is a subdivision of a segment carrying ad-break metadata.
type SubPeriod struct {
	Duration          time.Duration // TimeUnset if unknown
	PositionInSegment time.Duration
	AdBreaks          []AdBreak
}

// Segment is one playable unit of a timeline.
type Segment struct {
	Duration   time.Duration // TimeUnset if unknown
	Seekable   bool
	Dynamic    bool // live: the end keeps moving
	SubPeriods []SubPeriod
}

// DurationKnown reports whether the segment has a fixed duration.
func (s Segment) DurationKnown() bool { return s.Duration != TimeUnset }

// Timeline is an ordered sequence of segments.
type Timeline struct {
	Segments []Segment
}

// Len returns the number of segments.
func (t Timeline) Len() int { return len(t.Segments) }

// IsEmpty reports whether the timeline has no segments.
func (t Timeline) IsEmpty() bool { return len(t.Segments) == 0 }

// Segment returns the segment at i and whether it exists.
func (t Timeline) Segment(i int) (Segment, bool) {
	if i < 0 || i >= len(t.Segments) {
		return Segment{}, false
	}
	return t.Segments[i], true
}

// Previous returns the index before i, or IndexUnset.
func (t Timeline) Previous(i int) int {
	if i <= 0 || i > len(t.Segments) {
		return IndexUnset
	}
	return i - 1
}

// Next returns the index after i, or IndexUnset.
func (t Timeline) Next(i int) int {
	if i < 0 || i+1 >= len(t.Segments) {
		return IndexUnset
	}
	return i + 1
}
