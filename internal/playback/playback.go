// Package playback defines the player contract the overlay reads from and dispatches to.
package playback

import (
	"time"

	"github.com/depeter/couchosd/internal/looper"
	"github.com/depeter/couchosd/internal/timeline"
)

// State is the coarse playback state of a player.
type State int

const (
	StateIdle State = iota + 1
	StateBuffering
	StateReady
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuffering:
		return "buffering"
	case StateReady:
		return "ready"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// Terminal reports whether the player has nothing left to play.
func (s State) Terminal() bool {
	return s == StateIdle || s == StateEnded
}

// Listener receives player notifications on the player's looper.
type Listener interface {
	OnStateChanged(playWhenReady bool, state State)
	OnTimelineChanged()
	OnPositionDiscontinuity()
}

// Player is a media player as seen by the overlay. All methods must be called on the
// player's looper.
type Player interface {
	// Looper is the looper every call and notification is confined to.
	Looper() *looper.Looper

	AddListener(l Listener)
	RemoveListener(l Listener)

	Timeline() timeline.Timeline
	CurrentSegment() int

	// Position, BufferedPosition and Duration are relative to the current segment.
	// Duration is timeline.TimeUnset when unknown.
	Position() time.Duration
	BufferedPosition() time.Duration
	Duration() time.Duration

	Speed() float64
	State() State
	PlayWhenReady() bool
	IsPlayingAd() bool

	// SeekTo moves to pos within segment. timeline.TimeUnset seeks to the segment's
	// default position.
	SeekTo(segment int, pos time.Duration)
	SetPlayWhenReady(play bool)
	Stop()
}

// IsPlaying reports whether p is advancing its position.
func IsPlaying(p Player) bool {
	st := p.State()
	return p.PlayWhenReady() && st != StateEnded && st != StateIdle
}

// CurrentSegmentDynamic reports whether the segment p is playing has a moving end.
func CurrentSegmentDynamic(p Player) bool {
	seg, ok := p.Timeline().Segment(p.CurrentSegment())
	return ok && seg.Dynamic
}

// Dispatcher carries out control actions on a player. Hosts may wrap the default to
// veto or observe actions. Each method reports whether the action was dispatched.
type Dispatcher interface {
	SeekTo(p Player, segment int, pos time.Duration) bool
	SetPlayWhenReady(p Player, play bool) bool
	Stop(p Player) bool
}

// DefaultDispatcher forwards every action to the player unchanged.
type DefaultDispatcher struct{}

func (DefaultDispatcher) SeekTo(p Player, segment int, pos time.Duration) bool {
	p.SeekTo(segment, pos)
	return true
}

func (DefaultDispatcher) SetPlayWhenReady(p Player, play bool) bool {
	p.SetPlayWhenReady(play)
	return true
}

func (DefaultDispatcher) Stop(p Player) bool {
	p.Stop()
	return true
}
