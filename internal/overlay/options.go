package overlay

import (
	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/config"
	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/seek"
)

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithConfig applies timing and display settings.
func WithConfig(cfg config.OverlayConfig) Option {
	return func(c *Controller) {
		c.showTimeout = cfg.ShowTimeout()
		c.carouselTimeout = cfg.CarouselTimeout()
		c.arbiter.RewindIncrement = cfg.Rewind()
		c.arbiter.FastForwardIncrement = cfg.FastForward()
		c.minUpdateInterval = clampMinUpdateInterval(cfg.MinUpdateInterval())
		c.fadeDuration = cfg.Fade()
		c.carouselFade = cfg.CarouselFade()
		c.carouselSlide = cfg.CarouselSlide()
		c.multiSegment = cfg.MultiSegment
		c.showRemaining = cfg.ShowRemaining
	}
}

func WithIndicator(ind Indicator) Option {
	return func(c *Controller) { c.indicator = ind }
}

func WithSeekPreview(p seek.Preview) Option {
	return func(c *Controller) { c.arbiter.Preview = p }
}

// WithStartOver sets the start-over collaborator and whether the viewer may seek before
// its position.
func WithStartOver(so seek.StartOver, entitled bool) Option {
	return func(c *Controller) {
		c.arbiter.StartOver = so
		c.arbiter.Entitled = entitled
	}
}

func WithVisibilityListener(l VisibilityListener) Option {
	return func(c *Controller) { c.visibilityListener = l }
}

func WithProgressListener(l ProgressListener) Option {
	return func(c *Controller) { c.progressListener = l }
}

func WithSwitchItems(s SwitchItems) Option {
	return func(c *Controller) { c.switchItems = s }
}

func WithPreparer(p Preparer) Option {
	return func(c *Controller) { c.preparer = p }
}

// WithDispatcher routes control actions through d instead of straight to the player.
func WithDispatcher(d playback.Dispatcher) Option {
	return func(c *Controller) {
		if d != nil {
			c.dispatcher = d
			c.arbiter.Dispatcher = d
		}
	}
}

// WithCarousel enables the secondary panel.
func WithCarousel() Option {
	return func(c *Controller) { c.carouselAvailable = true }
}

// WithCarouselControls sets which controls dim while the carousel slides in.
func WithCarouselControls(controls ...Control) Option {
	return func(c *Controller) {
		c.slideControls = make(map[Control]bool, len(controls))
		for _, ctl := range controls {
			c.slideControls[ctl] = true
		}
	}
}
