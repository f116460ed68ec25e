package overlay

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/looper"
	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/seek"
	"github.com/depeter/couchosd/internal/timeline"
)

// Controller is the state machine behind the playback overlay.
type Controller struct {
	loop *looper.Looper
	log  *zap.Logger

	surface   Surface
	indicator Indicator

	arbiter    *seek.Arbiter
	dispatcher playback.Dispatcher

	visibilityListener VisibilityListener
	progressListener   ProgressListener
	switchItems        SwitchItems
	preparer           Preparer
	interactions       []InteractionListener

	player   playback.Player
	listener *playerListener

	// Visibility
	vis         Visibility
	attached    bool
	fade        *animation
	hideAt      time.Time // zero when no auto-hide is due
	hideTimer   *looper.Slot
	showTimeout time.Duration

	// Carousel
	carouselAvailable bool
	carousel          CarouselState
	slide             *animation
	slideOffset       float64
	slideControls     map[Control]bool
	carouselTimer     *looper.Slot
	carouselTimeout   time.Duration
	onCarouselToggle  func()

	fadeDuration  time.Duration
	carouselFade  time.Duration
	carouselSlide time.Duration

	// Progress
	progressTimer     *looper.Slot
	minUpdateInterval time.Duration
	scrubbing         bool

	// Timeline
	multiSegment  bool
	showRemaining bool
	markers       timeline.MarkerSet
	flat          timeline.Flattening
}

// New returns a hidden, detached controller drawing on surface.
func New(loop *looper.Looper, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		loop:              loop,
		log:               zap.NewNop(),
		surface:           surface,
		arbiter:           seek.NewArbiter(nil),
		dispatcher:        playback.DefaultDispatcher{},
		fade:              newAnimation(loop),
		hideTimer:         loop.NewSlot(),
		showTimeout:       DefaultShowTimeout,
		slide:             newAnimation(loop),
		carouselTimer:     loop.NewSlot(),
		carouselTimeout:   DefaultCarouselTimeout,
		fadeDuration:      DefaultFadeDuration,
		carouselFade:      DefaultCarouselFade,
		carouselSlide:     DefaultCarouselSlide,
		progressTimer:     loop.NewSlot(),
		minUpdateInterval: DefaultMinUpdateInterval,
		multiSegment:      true,
		showRemaining:     true,
	}
	WithCarouselControls(ControlTimes, ControlPlayPause, ControlSeekBar,
		ControlRewind, ControlFastForward, ControlStartOver, ControlLive)(c)
	for _, opt := range opts {
		opt(c)
	}
	c.arbiter.Log = c.log.Named("seek")
	c.arbiter.OnSeekRequested = c.hideAfterTimeout
	c.listener = &playerListener{c: c}
	return c
}

// Player returns the controlled player, or nil.
func (c *Controller) Player() playback.Player { return c.player }

// SetPlayer replaces the controlled player. nil detaches the current one.
func (c *Controller) SetPlayer(p playback.Player) error {
	if p != nil && p.Looper() != c.loop {
		return fmt.Errorf("set player: %w", ErrForeignLooper)
	}
	if c.player == p {
		return nil
	}
	if c.player != nil {
		c.player.RemoveListener(c.listener)
	}
	c.player = p
	if p != nil {
		p.AddListener(c.listener)
	}
	c.log.Debug("player set", zap.Bool("present", p != nil))
	c.updateAll()
	return nil
}

// SetExtraMarkers sets markers shown in addition to the timeline's ad breaks. Positions
// are on the indicator axis. nil clears them.
func (c *Controller) SetExtraMarkers(positions []time.Duration, played []bool) error {
	if err := c.markers.SetExtra(positions, played); err != nil {
		return fmt.Errorf("set extra markers: %w", err)
	}
	c.updateTimeline()
	return nil
}

// ExtraMarkers returns how many extra markers are set.
func (c *Controller) ExtraMarkers() int { return c.markers.Extra() }

// SetRewindIncrement sets the rewind step. Non-positive disables rewind.
func (c *Controller) SetRewindIncrement(d time.Duration) {
	c.arbiter.RewindIncrement = d
	c.updateNavigation()
}

// SetFastForwardIncrement sets the fast forward step. Non-positive disables it.
func (c *Controller) SetFastForwardIncrement(d time.Duration) {
	c.arbiter.FastForwardIncrement = d
	c.updateNavigation()
}

// SetStartOverRights changes the start-over collaborator and entitlement.
func (c *Controller) SetStartOverRights(entitled bool, so seek.StartOver) {
	c.arbiter.Entitled = entitled
	c.arbiter.StartOver = so
	c.updateNavigation()
}

func (c *Controller) SetSeekPreview(p seek.Preview) {
	c.arbiter.Preview = p
	c.updateNavigation()
}

func (c *Controller) SetSwitchItems(s SwitchItems) {
	c.switchItems = s
	c.updateNavigation()
}

func (c *Controller) AddInteractionListener(l InteractionListener) {
	c.interactions = append(c.interactions, l)
}

func (c *Controller) RemoveInteractionListener(l InteractionListener) {
	for i, x := range c.interactions {
		if x == l {
			c.interactions = append(c.interactions[:i], c.interactions[i+1:]...)
			return
		}
	}
}

func (c *Controller) emit(i Interaction) {
	for _, l := range c.interactions {
		l.OnInteraction(i)
	}
}

func (c *Controller) updateAll() {
	c.updatePlayPause()
	c.updateNavigation()
	c.updateTimeline()
}

func (c *Controller) shouldUpdate() bool {
	return c.IsVisible() && c.attached
}

func (c *Controller) updatePlayPause() {
	if !c.shouldUpdate() {
		return
	}
	c.surface.SetPlaying(c.player != nil && playback.IsPlaying(c.player))
}

func (c *Controller) updateNavigation() {
	if !c.shouldUpdate() {
		return
	}
	for ctl := Control(0); ctl < ControlCarousel; ctl++ {
		c.surface.SetControl(ctl, c.controlState(ctl))
	}
}

// controlState combines a control's availability with the carousel slide dimming.
func (c *Controller) controlState(ctl Control) ControlState {
	p := c.player
	st := ControlState{Visible: true, Enabled: true}
	switch ctl {
	case ControlPrevious:
		st.Enabled = c.hasPrevious()
		st.Visible = st.Enabled
	case ControlNext:
		st.Enabled = c.hasNext()
		st.Visible = st.Enabled
	case ControlRewind:
		st.Enabled = p != nil && c.arbiter.CanRewind(p, c.flat.CurrentOffset)
	case ControlFastForward:
		st.Enabled = p != nil && c.arbiter.CanFastForward(p, c.flat.CurrentOffset)
	case ControlStartOver:
		st.Visible = c.arbiter.Entitled
		st.Enabled = st.Visible
	case ControlLive:
		st.Visible = p != nil && playback.CurrentSegmentDynamic(p)
		st.Enabled = st.Visible
	case ControlSeekBar:
		st.Enabled = p != nil && !p.IsPlayingAd() && currentSeekable(p)
	}
	st.Alpha = 1
	if !st.Enabled {
		st.Alpha = disabledAlpha
	}

	if c.slideOffset <= 0 || !c.slideControls[ctl] {
		return st
	}
	alpha := 1 - c.slideOffset
	interactive := alpha > interactiveAlpha
	if ctl == ControlRewind || ctl == ControlFastForward {
		// unavailable seek buttons never get brighter than their disabled look
		if alpha > disabledAlpha && !st.Enabled {
			st.Alpha = disabledAlpha
		} else {
			st.Alpha = alpha
		}
		st.Enabled = st.Enabled && interactive
		return st
	}
	st.Alpha = alpha
	st.Enabled = st.Enabled && interactive
	return st
}

func currentSeekable(p playback.Player) bool {
	seg, ok := p.Timeline().Segment(p.CurrentSegment())
	return ok && seg.Seekable
}

func (c *Controller) hasPrevious() bool {
	if c.switchItems != nil {
		return c.switchItems.HasPrevious()
	}
	return c.player != nil && seek.HasPrevious(c.player)
}

func (c *Controller) hasNext() bool {
	if c.switchItems != nil {
		return c.switchItems.HasNext()
	}
	return c.player != nil && seek.HasNext(c.player)
}

// updateTimeline reflattens the timeline and pushes duration and markers to the
// indicator.
func (c *Controller) updateTimeline() {
	p := c.player
	if p == nil {
		return
	}
	c.flat = timeline.Flatten(p.Timeline(), p.CurrentSegment(), c.multiSegment, &c.markers)
	duration := c.flat.Duration
	if !c.flat.DurationKnown {
		duration = timeline.TimeUnset
	}
	c.log.Debug("timeline updated",
		zap.Bool("multi", c.flat.Multi),
		zap.Duration("duration", c.flat.Duration),
		zap.Bool("durationKnown", c.flat.DurationKnown),
		zap.Int("markers", c.flat.Discovered+c.markers.Extra()))

	if !c.showRemaining {
		c.surface.SetDurationText(FormatDuration(duration))
	}
	if c.indicator != nil {
		c.indicator.SetDuration(duration)
		positions, played, n := c.markers.Merge()
		c.indicator.SetMarkers(positions, played, n)
	}
	c.updateProgress()
}

// Flattening returns the layout of the timeline on the indicator.
func (c *Controller) Flattening() timeline.Flattening { return c.flat }

// playerListener keeps the player callbacks off the Controller's method set.
type playerListener struct {
	c *Controller
}

func (l *playerListener) OnStateChanged(playWhenReady bool, state playback.State) {
	l.c.log.Debug("player state", zap.Bool("playWhenReady", playWhenReady), zap.Stringer("state", state))
	l.c.updatePlayPause()
	l.c.updateProgress()
}

func (l *playerListener) OnTimelineChanged() {
	l.c.updateNavigation()
	l.c.updateTimeline()
}

func (l *playerListener) OnPositionDiscontinuity() {
	l.c.updateNavigation()
	l.c.updateTimeline()
}
