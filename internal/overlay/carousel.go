package overlay

import (
	"time"

	"go.uber.org/zap"
)

// Carousel returns the carousel position.
func (c *Controller) Carousel() CarouselState { return c.carousel }

// SetCarouselAvailable enables or disables the carousel. Disabling closes it.
func (c *Controller) SetCarouselAvailable(available bool) {
	c.carouselAvailable = available
	if !available && c.carousel != CarouselCollapsed {
		c.collapseNow()
	}
}

// IgnoreTouch reports whether touches belong to the expanded carousel rather than to the
// player underneath.
func (c *Controller) IgnoreTouch() bool {
	return c.carouselAvailable && c.carousel == CarouselExpanded
}

// SwipeUp expands the carousel, fading the overlay in first when it is hidden.
func (c *Controller) SwipeUp() {
	if !c.carouselAvailable {
		return
	}
	c.hideTimer.Stop()
	c.hideAt = time.Time{}
	if !c.IsVisible() {
		c.fadeTo(true, c.carouselFade, func() {
			c.moveCarousel(CarouselCollapsed, CarouselExpanded)
		})
		return
	}
	c.moveCarousel(CarouselCollapsed, CarouselExpanded)
}

// SwipeDown collapses the carousel.
func (c *Controller) SwipeDown() {
	if !c.carouselAvailable {
		return
	}
	c.moveCarousel(CarouselExpanded, CarouselCollapsed)
}

// ToggleCarousel expands or collapses the carousel. onEnd, if not nil, runs once the
// carousel settles.
func (c *Controller) ToggleCarousel(onEnd func()) {
	c.onCarouselToggle = onEnd
	if c.carousel == CarouselExpanded {
		c.SwipeDown()
	} else {
		c.SwipeUp()
	}
}

func (c *Controller) moveCarousel(from, to CarouselState) {
	if c.carousel != from {
		return
	}
	c.carousel = CarouselSettling
	start, target := c.slideOffset, 0.0
	if to == CarouselExpanded {
		target = 1
	}
	c.log.Debug("carousel sliding", zap.Stringer("to", to))
	c.slide.Start(c.carouselSlide, func(f float64) {
		c.onSlide(start + (target-start)*f)
	}, func() {
		c.carouselSettled(to)
	})
}

func (c *Controller) onSlide(offset float64) {
	c.slideOffset = offset
	c.surface.SetCarousel(offset)
	c.updateNavigation()
}

func (c *Controller) carouselSettled(state CarouselState) {
	c.carousel = state
	c.log.Debug("carousel settled", zap.Stringer("state", state))
	switch state {
	case CarouselExpanded:
		c.onHide(false)
		c.hideCarouselAfterTimeout()
		c.surface.Focus(ControlCarousel)
	case CarouselCollapsed:
		c.carouselTimer.Stop()
		c.onShow()
	}
	if cb := c.onCarouselToggle; cb != nil {
		c.onCarouselToggle = nil
		cb()
	}
}

// collapseNow closes the carousel without animating or re-arming the overlay.
func (c *Controller) collapseNow() {
	c.slide.Cancel()
	c.carouselTimer.Stop()
	c.carousel = CarouselCollapsed
	c.onSlide(0)
}

func (c *Controller) hideCarouselAfterTimeout() {
	c.carouselTimer.Stop()
	if c.attached && c.carouselTimeout > 0 {
		c.carouselTimer.Schedule(c.carouselTimeout, c.hideCarousel)
	}
}

func (c *Controller) hideCarousel() {
	if c.carousel == CarouselSettling {
		return
	}
	c.SwipeDown()
}
