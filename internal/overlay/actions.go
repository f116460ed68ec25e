package overlay

import (
	"time"

	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/timeline"
)

// Click activates a control.
func (c *Controller) Click(ctl Control) {
	p := c.player
	if p == nil {
		return
	}
	switch ctl {
	case ControlNext:
		c.next()
	case ControlPrevious:
		c.previous()
	case ControlFastForward:
		c.emit(InteractionFastForward)
		c.arbiter.FastForward(p)
	case ControlRewind:
		c.emit(InteractionRewind)
		c.arbiter.Rewind(p)
	case ControlLive:
		c.arbiter.SeekToLiveEdge(p)
	case ControlStartOver:
		c.arbiter.StartOverSeek(p)
	case ControlPlayPause:
		c.TogglePlayPause()
	case ControlCarousel:
		c.ToggleCarousel(nil)
	}
}

// TogglePlayPause plays or pauses. An idle player is prepared first; an ended one is
// sent back to the start of its segment.
func (c *Controller) TogglePlayPause() {
	p := c.player
	if p == nil {
		return
	}
	playing := playback.IsPlaying(p)
	switch p.State() {
	case playback.StateIdle:
		if c.preparer != nil {
			c.preparer.PreparePlayback()
		}
	case playback.StateEnded:
		c.dispatcher.SeekTo(p, p.CurrentSegment(), timeline.TimeUnset)
	}
	if playing {
		c.emit(InteractionPause)
	} else {
		c.emit(InteractionPlay)
	}
	c.dispatcher.SetPlayWhenReady(p, !playing)
}

func (c *Controller) next() {
	if c.switchItems != nil {
		c.switchItems.Next()
		return
	}
	if c.player != nil {
		c.arbiter.Next(c.player)
	}
}

func (c *Controller) previous() {
	if c.switchItems != nil {
		c.switchItems.Previous()
		return
	}
	if c.player != nil {
		c.arbiter.Previous(c.player)
	}
}

// SeekToLiveEdge jumps to the live edge of the current segment.
func (c *Controller) SeekToLiveEdge() {
	if c.player != nil {
		c.arbiter.SeekToLiveEdge(c.player)
	}
}

// StartOver seeks to the earliest position the viewer may watch.
func (c *Controller) StartOver() {
	if c.player != nil {
		c.arbiter.StartOverSeek(c.player)
	}
}

// ScrubStart begins a drag on the indicator at pos.
func (c *Controller) ScrubStart(pos time.Duration) {
	c.scrubbing = true
	c.surface.SetPositionText(FormatDuration(pos))
	c.updateLive()
}

// ScrubMove follows the drag.
func (c *Controller) ScrubMove(pos time.Duration) {
	c.surface.SetPositionText(FormatDuration(pos))
	c.updateLive()
}

// ScrubStop ends the drag and seeks to pos unless it was canceled.
func (c *Controller) ScrubStop(pos time.Duration, canceled bool) {
	c.scrubbing = false
	if !canceled && c.player != nil {
		c.SeekToIndicator(pos)
	}
}

// Scrubbing reports whether the indicator is being dragged.
func (c *Controller) Scrubbing() bool { return c.scrubbing }

// SeekToIndicator seeks to pos on the indicator axis. It reports whether a seek was
// dispatched; when not, the displayed position snaps back.
func (c *Controller) SeekToIndicator(pos time.Duration) bool {
	p := c.player
	if p == nil {
		return false
	}
	dispatched := c.arbiter.SeekToIndicator(p, pos, c.flat.Multi)
	c.updateLive()
	if !dispatched {
		c.log.Debug("seek not dispatched", zap.Duration("position", pos))
		c.updateProgress()
	}
	return dispatched
}
