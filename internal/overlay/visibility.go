package overlay

import (
	"time"

	"go.uber.org/zap"
)

// IsVisible reports whether the overlay is on screen, including while it fades.
func (c *Controller) IsVisible() bool { return c.vis != Hidden }

// Visibility returns the fade state.
func (c *Controller) Visibility() Visibility { return c.vis }

// Show fades the overlay in and arms the auto-hide timer.
func (c *Controller) Show() {
	if c.IsVisible() {
		return
	}
	c.updatePlayPause()
	c.fadeTo(true, c.fadeDuration, c.onShow)
}

// Hide fades the overlay out. It is ignored while the carousel slides.
func (c *Controller) Hide() {
	if !c.IsVisible() || c.carousel == CarouselSettling {
		return
	}
	c.fadeTo(false, c.fadeDuration, func() {
		c.surface.SetVisible(false)
		c.onHide(true)
	})
}

// ForceHide removes the overlay at once, cancelling any fade.
func (c *Controller) ForceHide() {
	if !c.IsVisible() || c.carousel == CarouselSettling {
		return
	}
	c.fade.Cancel()
	c.vis = Hidden
	c.surface.SetVisible(false)
	c.onHide(true)
	if c.visibilityListener != nil {
		c.visibilityListener.OnFadeEnd(false)
	}
}

// fadeTo runs a fade unless one is already in flight.
func (c *Controller) fadeTo(in bool, d time.Duration, onEnd func()) {
	if c.fade.Running() {
		c.log.Debug("fade ignored, another is running", zap.Bool("fadeIn", in))
		return
	}
	if c.visibilityListener != nil {
		c.visibilityListener.OnFadeStart(in)
	}
	c.hideTimer.Stop()
	if in {
		c.vis = Showing
	} else {
		c.vis = Hiding
	}
	c.log.Debug("fade start", zap.Stringer("visibility", c.vis))
	c.surface.SetVisible(true)
	c.updateAll()
	c.surface.Focus(ControlPlayPause)

	c.fade.Start(d, func(f float64) {
		alpha := f
		if !in {
			alpha = 1 - f
		}
		c.surface.SetAlpha(alpha)
		if c.visibilityListener != nil {
			c.visibilityListener.OnFadeProgress(alpha)
		}
	}, func() {
		if in {
			c.vis = Visible
		} else {
			c.vis = Hidden
		}
		c.log.Debug("fade end", zap.Stringer("visibility", c.vis))
		onEnd()
		if c.visibilityListener != nil {
			c.visibilityListener.OnFadeEnd(in)
		}
	})
}

func (c *Controller) onShow() {
	c.updateAll()
	c.surface.Focus(ControlPlayPause)
	c.hideAfterTimeout()
}

// onHide stops the timers that only matter while the controls are shown. With
// collapseCarousel an expanded carousel is closed as well; one caught mid-slide always is.
func (c *Controller) onHide(collapseCarousel bool) {
	c.progressTimer.Stop()
	c.hideTimer.Stop()
	if (collapseCarousel && c.carousel == CarouselExpanded) || c.carousel == CarouselSettling {
		c.collapseNow()
	}
	c.hideAt = time.Time{}
}

// hideAfterTimeout (re)arms the auto-hide timer. The deadline is kept while detached so
// Attach can honour it.
func (c *Controller) hideAfterTimeout() {
	c.hideTimer.Stop()
	if c.showTimeout <= 0 {
		c.hideAt = time.Time{}
		return
	}
	c.hideAt = c.loop.Now().Add(c.showTimeout)
	if c.attached {
		c.hideTimer.Schedule(c.showTimeout, c.Hide)
	}
}

// HideAt returns when the overlay will hide itself, or the zero time.
func (c *Controller) HideAt() time.Time { return c.hideAt }

// SetShowTimeout sets how long the overlay stays up without input. Non-positive keeps it
// up until hidden explicitly.
func (c *Controller) SetShowTimeout(d time.Duration) {
	c.showTimeout = d
	if c.IsVisible() {
		c.hideAfterTimeout()
	}
}

// ShowTimeout returns the auto-hide delay.
func (c *Controller) ShowTimeout() time.Duration { return c.showTimeout }

// Attach is called when the surface starts rendering. Timers are rebuilt from the
// stored deadlines.
func (c *Controller) Attach() {
	if c.attached {
		return
	}
	c.attached = true
	if !c.hideAt.IsZero() {
		if delay := c.hideAt.Sub(c.loop.Now()); delay <= 0 {
			c.Hide()
		} else {
			c.hideTimer.Schedule(delay, c.Hide)
		}
	} else if c.IsVisible() {
		c.hideAfterTimeout()
	}
	if c.carousel == CarouselExpanded {
		c.hideCarouselAfterTimeout()
	}
	c.updateAll()
}

// Detach is called when the surface stops rendering. Pending timers are dropped and
// running animations jump to their end state.
func (c *Controller) Detach() {
	if !c.attached {
		return
	}
	c.attached = false
	c.fade.Finish()
	c.slide.Finish()
	c.progressTimer.Stop()
	c.hideTimer.Stop()
	c.carouselTimer.Stop()
}

// Attached reports whether the surface is rendering.
func (c *Controller) Attached() bool { return c.attached }

// TouchDown handles the start of a touch or click. insideCarousel reports whether it
// landed on the carousel panel.
func (c *Controller) TouchDown(insideCarousel bool) {
	if c.carousel == CarouselExpanded {
		if insideCarousel {
			c.hideCarouselAfterTimeout()
		} else {
			c.SwipeDown()
		}
		return
	}
	if c.IsVisible() {
		c.hideAfterTimeout()
	}
}
