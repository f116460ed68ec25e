// Package seek resolves user seek requests against live-window and entitlement limits
// before dispatching them to a player.
package seek

import (
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/timeline"
)

const (
	// PreviousThreshold is how far into a segment "previous" still goes to the segment
	// before it instead of restarting the current one.
	PreviousThreshold = 3 * time.Second

	// LiveEdgeOffset is how far ahead of the position a declined seek has to be for the
	// player to count as sitting on the live edge.
	LiveEdgeOffset = 20 * time.Second

	DefaultRewindIncrement      = 30 * time.Second
	DefaultFastForwardIncrement = 30 * time.Second
)

// Preview may veto forward seeks, e.g. to keep viewers inside a preview window.
type Preview interface {
	AllowSeeking(pos time.Duration) bool
	OnBlockedSeeking()
}

// StartOver supplies the earliest position a viewer without start-over rights may seek to
// in a live segment.
type StartOver interface {
	StartOverPosition() time.Duration
	OnStartOver()
}

// Decision is the outcome of resolving a seek request.
type Decision struct {
	Segment  int
	Position time.Duration // timeline.TimeUnset for the segment's default position
	Rejected bool
}

// Arbiter applies seek constraints in a fixed order: forward-seek veto, start-over
// floor, then dispatch. The zero value dispatches every seek unchanged.
type Arbiter struct {
	Preview   Preview
	StartOver StartOver
	// Entitled lifts the start-over floor.
	Entitled bool

	Dispatcher playback.Dispatcher

	// Non-positive increments disable rewind and fast forward.
	RewindIncrement      time.Duration
	FastForwardIncrement time.Duration

	// OnSeekRequested runs before every resolved seek, rejected or not.
	OnSeekRequested func()

	Log *zap.Logger
}

// NewArbiter returns an arbiter with default increments and dispatcher.
func NewArbiter(log *zap.Logger) *Arbiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Arbiter{
		Dispatcher:           playback.DefaultDispatcher{},
		RewindIncrement:      DefaultRewindIncrement,
		FastForwardIncrement: DefaultFastForwardIncrement,
		Log:                  log,
	}
}

func (a *Arbiter) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}

func (a *Arbiter) dispatcher() playback.Dispatcher {
	if a.Dispatcher == nil {
		return playback.DefaultDispatcher{}
	}
	return a.Dispatcher
}

// Resolve applies the veto and the start-over floor to a seek within segment without
// dispatching it. A rejection notifies the Preview.
func (a *Arbiter) Resolve(p playback.Player, segment int, pos time.Duration) Decision {
	d := Decision{Segment: segment, Position: pos}
	dynamic := playback.CurrentSegmentDynamic(p)

	if pos > p.Position() && a.Preview != nil && !a.Preview.AllowSeeking(pos) {
		if !dynamic {
			a.logger().Info("seek blocked by preview",
				zap.Int("segment", segment), zap.Duration("position", pos))
			a.Preview.OnBlockedSeeking()
			d.Rejected = true
			return d
		}
		a.logger().Debug("seek past preview window, jumping to live edge",
			zap.Duration("position", pos))
		d.Position = timeline.TimeUnset
	}

	// The default position of a live segment is its edge, which is never below the floor.
	if a.StartOver != nil && !a.Entitled && dynamic && d.Position != timeline.TimeUnset {
		if floor := a.StartOver.StartOverPosition(); d.Position < floor {
			a.logger().Debug("seek raised to start-over floor",
				zap.Duration("position", d.Position), zap.Duration("floor", floor))
			d.Position = floor
		}
	}
	return d
}

// SeekTo resolves and dispatches a seek to pos within segment. It reports whether the
// seek was dispatched.
func (a *Arbiter) SeekTo(p playback.Player, segment int, pos time.Duration) bool {
	if a.OnSeekRequested != nil {
		a.OnSeekRequested()
	}
	d := a.Resolve(p, segment, pos)
	if d.Rejected {
		return false
	}
	return a.dispatcher().SeekTo(p, d.Segment, d.Position)
}

// Remap converts a position on the indicator axis into a segment and a position inside
// it. In single-segment mode the position already belongs to current.
func Remap(tl timeline.Timeline, current int, target time.Duration, multi bool) (int, time.Duration) {
	if !multi || tl.IsEmpty() {
		return current, target
	}
	i := 0
	for {
		d := tl.Segments[i].Duration
		if target < d {
			return i, target
		}
		if i == tl.Len()-1 {
			// past the end of the timeline
			return i, d
		}
		target -= d
		i++
	}
}

// SeekToIndicator seeks to target on the indicator axis.
func (a *Arbiter) SeekToIndicator(p playback.Player, target time.Duration, multi bool) bool {
	segment, pos := Remap(p.Timeline(), p.CurrentSegment(), target, multi)
	return a.SeekTo(p, segment, pos)
}

// Previous restarts the current segment, or goes to the previous one when the player is
// near the start or sits in a live segment that cannot be seeked.
func (a *Arbiter) Previous(p playback.Player) bool {
	tl := p.Timeline()
	if tl.IsEmpty() || p.IsPlayingAd() {
		return false
	}
	current := p.CurrentSegment()
	seg, _ := tl.Segment(current)
	prev := tl.Previous(current)
	if prev != timeline.IndexUnset &&
		(p.Position() <= PreviousThreshold || (seg.Dynamic && !seg.Seekable)) {
		return a.SeekTo(p, prev, timeline.TimeUnset)
	}
	return a.SeekTo(p, current, 0)
}

// Next goes to the next segment. On the last segment of a live timeline it jumps back to
// the live edge instead.
func (a *Arbiter) Next(p playback.Player) bool {
	tl := p.Timeline()
	if tl.IsEmpty() || p.IsPlayingAd() {
		return false
	}
	current := p.CurrentSegment()
	if next := tl.Next(current); next != timeline.IndexUnset {
		return a.SeekTo(p, next, timeline.TimeUnset)
	}
	if seg, ok := tl.Segment(current); ok && seg.Dynamic {
		return a.SeekTo(p, current, timeline.TimeUnset)
	}
	return false
}

// HasPrevious reports whether Previous would do anything.
func HasPrevious(p playback.Player) bool {
	tl := p.Timeline()
	if tl.IsEmpty() || p.IsPlayingAd() {
		return false
	}
	return tl.Previous(p.CurrentSegment()) != timeline.IndexUnset || currentSeekable(p)
}

// HasNext reports whether Next would do anything.
func HasNext(p playback.Player) bool {
	tl := p.Timeline()
	if tl.IsEmpty() || p.IsPlayingAd() {
		return false
	}
	return tl.Next(p.CurrentSegment()) != timeline.IndexUnset || playback.CurrentSegmentDynamic(p)
}

func currentSeekable(p playback.Player) bool {
	if p.IsPlayingAd() {
		return false
	}
	seg, ok := p.Timeline().Segment(p.CurrentSegment())
	return ok && seg.Seekable
}

// CanRewind reports whether a rewind would land somewhere useful. Viewers without
// start-over rights in a live segment cannot rewind past the start-over position. offset
// is where the current segment starts on the indicator axis.
func (a *Arbiter) CanRewind(p playback.Player, offset time.Duration) bool {
	if a.StartOver != nil && !a.Entitled && playback.CurrentSegmentDynamic(p) {
		return offset+p.Position()-a.RewindIncrement > a.StartOver.StartOverPosition()
	}
	return a.RewindIncrement > 0 && currentSeekable(p)
}

// CanFastForward reports whether a fast forward would be allowed by the preview.
func (a *Arbiter) CanFastForward(p playback.Player, offset time.Duration) bool {
	if a.Preview != nil {
		return a.Preview.AllowSeeking(offset + p.Position() + a.FastForwardIncrement)
	}
	return a.FastForwardIncrement > 0 && currentSeekable(p)
}

// Rewind seeks back by RewindIncrement.
func (a *Arbiter) Rewind(p playback.Player) bool {
	if a.RewindIncrement <= 0 || !currentSeekable(p) {
		return false
	}
	return a.seekBy(p, -a.RewindIncrement)
}

// FastForward seeks ahead by FastForwardIncrement.
func (a *Arbiter) FastForward(p playback.Player) bool {
	if a.FastForwardIncrement <= 0 || !currentSeekable(p) {
		return false
	}
	return a.seekBy(p, a.FastForwardIncrement)
}

func (a *Arbiter) seekBy(p playback.Player, offset time.Duration) bool {
	pos := p.Position() + offset
	if d := p.Duration(); d != timeline.TimeUnset {
		pos = lo.Clamp(pos, 0, d)
	} else {
		pos = max(pos, 0)
	}
	return a.SeekTo(p, p.CurrentSegment(), pos)
}

// StartOverSeek seeks to the start of the current segment, notifying the StartOver
// collaborator first. The start-over floor still applies.
func (a *Arbiter) StartOverSeek(p playback.Player) bool {
	if !currentSeekable(p) {
		return false
	}
	if a.StartOver != nil {
		a.StartOver.OnStartOver()
	}
	return a.SeekTo(p, p.CurrentSegment(), 0)
}

// SeekToLiveEdge seeks the current segment to its default position.
func (a *Arbiter) SeekToLiveEdge(p playback.Player) bool {
	return a.SeekTo(p, p.CurrentSegment(), timeline.TimeUnset)
}

// OnLiveEdge reports whether the player is close enough to the live edge that the
// preview would refuse a seek LiveEdgeOffset further ahead. offset is where the current
// segment starts on the indicator axis.
func (a *Arbiter) OnLiveEdge(p playback.Player, offset time.Duration) bool {
	if a.Preview == nil {
		return false
	}
	return !a.Preview.AllowSeeking(offset + p.Position() + LiveEdgeOffset)
}
