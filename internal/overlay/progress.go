package overlay

import (
	"time"

	"github.com/samber/lo"

	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/timeline"
)

// NextUpdateDelay returns the wall-clock delay before the next progress refresh.
//
// preferred is the indicator's media-time granularity (MaxUpdateInterval when not
// positive). The delay never runs past the next whole second of position, is scaled by
// playback speed, and is clamped to [minInterval, MaxUpdateInterval].
func NextUpdateDelay(position, preferred time.Duration, speed float64, minInterval time.Duration) time.Duration {
	if preferred <= 0 {
		preferred = MaxUpdateInterval
	}
	untilNextSecond := time.Second - position%time.Second
	mediaDelay := min(preferred, untilNextSecond)

	delay := MaxUpdateInterval
	if speed > 0 {
		delay = time.Duration(float64(mediaDelay) / speed)
	}
	return lo.Clamp(delay, clampMinUpdateInterval(minInterval), MaxUpdateInterval)
}

func clampMinUpdateInterval(d time.Duration) time.Duration {
	return lo.Clamp(d, MinUpdateIntervalFloor, MaxUpdateInterval)
}

// SetMinUpdateInterval sets the shortest delay between progress refreshes. Values are
// clamped to [MinUpdateIntervalFloor, MaxUpdateInterval].
func (c *Controller) SetMinUpdateInterval(d time.Duration) {
	c.minUpdateInterval = clampMinUpdateInterval(d)
}

// MinUpdateInterval returns the shortest delay between progress refreshes.
func (c *Controller) MinUpdateInterval() time.Duration { return c.minUpdateInterval }

// updateProgress refreshes position texts and the indicator, then schedules the next
// refresh while the overlay is on screen.
func (c *Controller) updateProgress() {
	if !c.shouldUpdate() {
		return
	}
	p := c.player
	var position, buffered time.Duration
	if p != nil {
		position = c.flat.CurrentOffset + p.Position()
		buffered = c.flat.CurrentOffset + p.BufferedPosition()
	}

	if !c.scrubbing {
		c.surface.SetPositionText(FormatDuration(position))
	}
	c.updateLive()
	if c.showRemaining && p != nil {
		if d := p.Duration(); d == timeline.TimeUnset {
			c.surface.SetDurationText(FormatDuration(timeline.TimeUnset))
		} else {
			c.surface.SetDurationText(FormatDuration((d - p.Position()).Abs()))
		}
	}
	if c.indicator != nil {
		c.indicator.SetPosition(position)
		c.indicator.SetBufferedPosition(buffered)
	}
	if c.progressListener != nil {
		c.progressListener.OnProgressUpdate(position, buffered)
	}

	c.progressTimer.Stop()
	if p == nil {
		return
	}
	switch {
	case p.PlayWhenReady() && p.State() == playback.StateReady:
		var preferred time.Duration
		if c.indicator != nil {
			preferred = c.indicator.PreferredUpdateDelay()
		}
		delay := NextUpdateDelay(position, preferred, p.Speed(), c.minUpdateInterval)
		c.progressTimer.Schedule(delay, c.updateProgress)
	case !p.State().Terminal():
		c.progressTimer.Schedule(MaxUpdateInterval, c.updateProgress)
	}
}

// updateLive shows the live badge for dynamic segments and highlights it on the edge.
func (c *Controller) updateLive() {
	p := c.player
	if p == nil {
		c.surface.SetLive(false, false)
		return
	}
	c.surface.SetLive(playback.CurrentSegmentDynamic(p), c.arbiter.OnLiveEdge(p, c.flat.CurrentOffset))
}
