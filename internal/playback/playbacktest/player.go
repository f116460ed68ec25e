// Package playbacktest provides an in-memory playback.Player for tests.
package playbacktest

import (
	"slices"
	"time"

	"github.com/depeter/couchosd/internal/looper"
	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/timeline"
)

// Seek records one SeekTo call.
type Seek struct {
	Segment  int
	Position time.Duration
}

// Player is a scriptable playback.Player. Fields may be set directly; the Set* helpers
// also notify listeners.
type Player struct {
	L *looper.Looper

	TL       timeline.Timeline
	Segment  int
	Pos      time.Duration
	Buffered time.Duration
	Dur      time.Duration
	Rate     float64
	St       playback.State
	Play     bool
	Ad       bool

	Seeks   []Seek
	Stopped int

	listeners []playback.Listener
}

// New returns a ready, playing player on l with a single segment of duration d.
func New(l *looper.Looper, d time.Duration) *Player {
	return &Player{
		L:    l,
		TL:   timeline.Timeline{Segments: []timeline.Segment{{Duration: d, Seekable: true}}},
		Dur:  d,
		Rate: 1,
		St:   playback.StateReady,
		Play: true,
	}
}

func (p *Player) Looper() *looper.Looper { return p.L }

func (p *Player) AddListener(l playback.Listener) { p.listeners = append(p.listeners, l) }

func (p *Player) RemoveListener(l playback.Listener) {
	p.listeners = slices.DeleteFunc(p.listeners, func(x playback.Listener) bool { return x == l })
}

// Listeners returns the number of registered listeners.
func (p *Player) Listeners() int { return len(p.listeners) }

func (p *Player) Timeline() timeline.Timeline { return p.TL }
func (p *Player) CurrentSegment() int { return p.Segment }
func (p *Player) Position() time.Duration { return p.Pos }
func (p *Player) BufferedPosition() time.Duration { return p.Buffered }
func (p *Player) Duration() time.Duration { return p.Dur }
func (p *Player) Speed() float64 { return p.Rate }
func (p *Player) State() playback.State { return p.St }
func (p *Player) PlayWhenReady() bool { return p.Play }
func (p *Player) IsPlayingAd() bool { return p.Ad }

// SeekTo records the call and moves the position like a real player would.
func (p *Player) SeekTo(segment int, pos time.Duration) {
	p.Seeks = append(p.Seeks, Seek{Segment: segment, Position: pos})
	if segment != p.Segment {
		p.Segment = segment
		if seg, ok := p.TL.Segment(segment); ok {
			p.Dur = seg.Duration
		}
	}
	if pos == timeline.TimeUnset {
		pos = 0
	}
	p.Pos = pos
}

func (p *Player) SetPlayWhenReady(play bool) {
	p.Play = play
	p.fireState()
}

func (p *Player) Stop() {
	p.Stopped++
	p.St = playback.StateIdle
	p.fireState()
}

// SetState changes the playback state and notifies listeners.
func (p *Player) SetState(st playback.State) {
	p.St = st
	p.fireState()
}

// SetTimeline replaces the timeline and notifies listeners.
func (p *Player) SetTimeline(tl timeline.Timeline, current int) {
	p.TL = tl
	p.Segment = current
	if seg, ok := tl.Segment(current); ok {
		p.Dur = seg.Duration
	}
	for _, l := range slices.Clone(p.listeners) {
		l.OnTimelineChanged()
	}
}

// Discontinuity notifies listeners of a position jump.
func (p *Player) Discontinuity() {
	for _, l := range slices.Clone(p.listeners) {
		l.OnPositionDiscontinuity()
	}
}

func (p *Player) fireState() {
	for _, l := range slices.Clone(p.listeners) {
		l.OnStateChanged(p.Play, p.St)
	}
}

var _ playback.Player = (*Player)(nil)
