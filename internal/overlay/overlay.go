// Package overlay drives the on-screen playback controls: when they fade in and out,
// what they show, and which player actions they trigger.
//
// A Controller is confined to its looper. Every method must be called from the
// goroutine running that looper, and the player it controls must share the looper.
package overlay

import (
	"errors"
	"time"
)

// Timing defaults.
const (
	DefaultShowTimeout       = 3 * time.Second
	DefaultCarouselTimeout   = 5 * time.Second
	DefaultMinUpdateInterval = 200 * time.Millisecond
	DefaultFadeDuration      = 350 * time.Millisecond
	DefaultCarouselFade      = 75 * time.Millisecond
	DefaultCarouselSlide     = 250 * time.Millisecond

	// MaxUpdateInterval is the longest the progress display may go without a refresh.
	MaxUpdateInterval = time.Second
	// MinUpdateIntervalFloor caps progress refreshes at roughly 60 per second.
	MinUpdateIntervalFloor = 16 * time.Millisecond

	frameInterval = 16 * time.Millisecond

	// Alpha of a control that is shown but unavailable.
	disabledAlpha = 0.3
	// Below this alpha a dimmed control stops accepting input.
	interactiveAlpha = 0.2
)

// ErrForeignLooper is returned when a player runs on a different looper than the
// controller.
var ErrForeignLooper = errors.New("player does not share the controller's looper")

// Visibility is the fade state of the overlay.
type Visibility int

const (
	Hidden  Visibility = iota
	Showing            // fading in
	Visible
	Hiding // fading out
)

func (v Visibility) String() string {
	switch v {
	case Hidden:
		return "hidden"
	case Showing:
		return "showing"
	case Visible:
		return "visible"
	case Hiding:
		return "hiding"
	}
	return "unknown"
}

// CarouselState is the position of the secondary content panel.
type CarouselState int

const (
	CarouselCollapsed CarouselState = iota
	CarouselSettling                // sliding between collapsed and expanded
	CarouselExpanded
)

func (s CarouselState) String() string {
	switch s {
	case CarouselCollapsed:
		return "collapsed"
	case CarouselSettling:
		return "settling"
	case CarouselExpanded:
		return "expanded"
	}
	return "unknown"
}

// Control identifies an element of the overlay.
type Control int

const (
	ControlPrevious Control = iota
	ControlRewind
	ControlPlayPause
	ControlFastForward
	ControlNext
	ControlStartOver
	ControlLive
	ControlSeekBar
	ControlTimes    // position and duration texts
	ControlCarousel // the secondary panel; focus target only
	controlCount
)

// ControlState is how a control should be drawn.
type ControlState struct {
	Visible bool
	Enabled bool
	Alpha   float64
}

// Surface renders the overlay. The controller decides what to show; the surface only
// draws it.
type Surface interface {
	SetVisible(visible bool)
	// SetAlpha sets the opacity of the whole overlay, from 0 to 1.
	SetAlpha(alpha float64)
	SetControl(c Control, st ControlState)
	SetPlaying(playing bool)
	SetPositionText(text string)
	SetDurationText(text string)
	// SetLive shows the live badge, highlighted when the player is on the live edge.
	SetLive(shown, onEdge bool)
	// SetCarousel positions the secondary panel, from 0 (collapsed) to 1 (expanded).
	SetCarousel(offset float64)
	Focus(c Control)
}

// Indicator is the seek bar.
type Indicator interface {
	// SetDuration sets the length of the bar. timeline.TimeUnset means unknown.
	SetDuration(d time.Duration)
	SetPosition(pos time.Duration)
	SetBufferedPosition(pos time.Duration)
	// SetMarkers sets the ad markers. Only the first count entries are used.
	SetMarkers(positions []time.Duration, played []bool, count int)
	// PreferredUpdateDelay is how often the bar wants position updates, in media time.
	// Zero means no preference.
	PreferredUpdateDelay() time.Duration
}

// VisibilityListener follows the overlay fades.
type VisibilityListener interface {
	OnFadeStart(fadeIn bool)
	OnFadeProgress(alpha float64)
	OnFadeEnd(fadeIn bool)
}

// ProgressListener receives every position refresh.
type ProgressListener interface {
	OnProgressUpdate(position, buffered time.Duration)
}

// SwitchItems moves between items of a queue that lives outside the player. When set it
// replaces segment navigation for the next and previous controls.
type SwitchItems interface {
	Next()
	Previous()
	HasNext() bool
	HasPrevious() bool
}

// Preparer restarts an idle player.
type Preparer interface {
	PreparePlayback()
}

// Interaction is a user action reported to interaction listeners.
type Interaction int

const (
	InteractionPlay Interaction = iota + 1
	InteractionPause
	InteractionFastForward
	InteractionRewind
)

func (i Interaction) String() string {
	switch i {
	case InteractionPlay:
		return "play"
	case InteractionPause:
		return "pause"
	case InteractionFastForward:
		return "fast_forward"
	case InteractionRewind:
		return "rewind"
	}
	return "unknown"
}

// InteractionListener is notified of user actions, e.g. for analytics.
type InteractionListener interface {
	OnInteraction(i Interaction)
}
