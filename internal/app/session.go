package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/config"
	"github.com/depeter/couchosd/internal/jellyfin"
	"github.com/depeter/couchosd/internal/looper"
	"github.com/depeter/couchosd/internal/overlay"
	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/player"
)

// Backend is the player a session drives. *player.MPV is one.
type Backend interface {
	playback.Player
	Load(start time.Duration, urls ...string) error
}

// Screen draws the overlay. *player.OSD is one.
type Screen interface {
	overlay.Surface
	overlay.Indicator
	Flush()
	Invalidate()
}

// Streams builds stream URLs for Jellyfin items. *jellyfin.Client is one.
type Streams interface {
	GetStreamURL(itemID string) string
	GetLiveStreamURL(itemID string) string
}

// Source is what a session plays: plain URLs, or a queue of Jellyfin items.
type Source struct {
	URLs  []string
	Start time.Duration

	Items   []jellyfin.MediaItem
	Current string // id of the first item to play
	Streams Streams
}

// Session is one playback: the backend, the overlay controlling it and the reports sent
// about it. All methods run on the looper goroutine.
type Session struct {
	loop     *looper.Looper
	log      *zap.Logger
	backend  Backend
	screen   Screen
	panel    *player.TrackPanel
	reporter *jellyfin.Reporter
	ctrl     *overlay.Controller

	src      Source
	queue    *jellyfin.Queue
	limits   *seekLimits
	join     *joinPoint
	poll     *looper.Slot
	advanced bool
	stopped  bool

	chapters      []time.Duration // of the current queue item
	chaptersShown bool
}

// Deps are the collaborators of a session. Panel and Reporter may be nil.
type Deps struct {
	Config   *config.Config
	Loop     *looper.Looper
	Log      *zap.Logger
	Backend  Backend
	Screen   Screen
	Panel    *player.TrackPanel
	Reporter *jellyfin.Reporter
}

func NewSession(d Deps) *Session {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		loop:     d.Loop,
		log:      log,
		backend:  d.Backend,
		screen:   d.Screen,
		panel:    d.Panel,
		reporter: d.Reporter,
		poll:     d.Loop.NewSlot(),
		join:     &joinPoint{log: log},
	}
	s.limits = &seekLimits{
		player:  d.Backend,
		preview: time.Duration(d.Config.Playback.PreviewLimitSec) * time.Second,
		log:     log,
	}

	opts := []overlay.Option{
		overlay.WithLogger(log.Named("overlay")),
		overlay.WithConfig(d.Config.Overlay),
		overlay.WithIndicator(d.Screen),
		overlay.WithSeekPreview(s.limits),
		overlay.WithStartOver(s.join, d.Config.Playback.StartOverRights),
		overlay.WithPreparer(s),
	}
	if s.panel != nil {
		opts = append(opts, overlay.WithCarousel())
	}
	if s.reporter != nil {
		opts = append(opts, overlay.WithProgressListener(s.reporter))
	}
	s.ctrl = overlay.New(d.Loop, d.Screen, opts...)
	return s
}

// Controller is the overlay of the session.
func (s *Session) Controller() *overlay.Controller { return s.ctrl }

// Start loads src and shows the overlay.
func (s *Session) Start(src Source) error {
	if len(src.URLs) == 0 && len(src.Items) == 0 {
		return errors.New("start session: nothing to play")
	}
	if len(src.Items) > 0 && src.Streams == nil {
		return errors.New("start session: items need a stream source")
	}
	if err := s.ctrl.SetPlayer(s.backend); err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	s.src = src
	s.backend.AddListener(s)
	if s.reporter != nil {
		s.backend.AddListener(s.reporter)
	}
	s.ctrl.Attach()

	if len(src.Items) > 0 {
		s.queue = jellyfin.NewQueue(src.Items, src.Current, func(item jellyfin.MediaItem) {
			// the reporter only hears about position every few seconds
			if s.reporter != nil {
				s.reporter.StopAt(s.backend.Position())
			}
			if err := s.playItem(item, 0); err != nil {
				s.log.Warn("queue switch failed", zap.String("item", item.ID), zap.Error(err))
			}
		})
		if s.queue.Len() > 1 {
			s.ctrl.SetSwitchItems(s.queue)
		}
		start := src.Start
		if start == 0 {
			start = s.queue.Current().Resume
		}
		if err := s.playItem(s.queue.Current(), start); err != nil {
			return err
		}
	} else if err := s.backend.Load(src.Start, src.URLs...); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	if s.reporter != nil {
		s.poll.Schedule(jellyfin.ProgressInterval, s.pollProgress)
	}
	s.ctrl.Show()
	return nil
}

func (s *Session) playItem(item jellyfin.MediaItem, start time.Duration) error {
	url := s.src.Streams.GetStreamURL(item.ID)
	if item.Live() {
		url = s.src.Streams.GetLiveStreamURL(item.ID)
	}
	if err := s.backend.Load(start, url); err != nil {
		return fmt.Errorf("play %s: %w", item.ID, err)
	}
	s.join.reset()
	s.chapters = item.Chapters
	s.showChapters(!playerMarksChapters(s.backend))
	if s.reporter != nil {
		s.reporter.Start(item.ID, start)
	}
	s.log.Info("playing", zap.String("item", item.ID), zap.String("title", item.Title()), zap.Duration("start", start))
	return nil
}

// pollProgress keeps the server informed while the overlay is hidden and not polling.
func (s *Session) pollProgress() {
	if s.stopped {
		return
	}
	s.reporter.OnProgressUpdate(s.backend.Position(), s.backend.BufferedPosition())
	s.poll.Schedule(jellyfin.ProgressInterval, s.pollProgress)
}

// PreparePlayback reloads the current source after the player went idle.
func (s *Session) PreparePlayback() {
	pos := s.backend.Position()
	if s.queue != nil {
		if err := s.playItem(s.queue.Current(), pos); err != nil {
			s.log.Warn("reload failed", zap.Error(err))
		}
		return
	}
	if err := s.backend.Load(pos, s.src.URLs...); err != nil {
		s.log.Warn("reload failed", zap.Error(err))
	}
}

func (s *Session) OnStateChanged(_ bool, state playback.State) {
	// one advance per end of an item
	if state != playback.StateEnded {
		s.advanced = false
	}
	switch state {
	case playback.StateReady:
		if playback.CurrentSegmentDynamic(s.backend) {
			s.join.mark(s.backend.Position())
		}
	case playback.StateEnded:
		if s.queue != nil && s.queue.HasNext() && !s.advanced {
			s.advanced = true
			s.queue.Next()
		}
	}
}

func (s *Session) OnTimelineChanged() {
	if s.queue == nil {
		return
	}
	if show := !playerMarksChapters(s.backend); show != s.chaptersShown {
		s.showChapters(show)
	}
}

// showChapters puts the item's chapters on the seek bar as extra markers, or takes them
// off.
func (s *Session) showChapters(show bool) {
	s.chaptersShown = show
	var chapters []time.Duration
	if show {
		chapters = s.chapters
	}
	if err := s.ctrl.SetExtraMarkers(chapters, make([]bool, len(chapters))); err != nil {
		s.log.Warn("chapter markers rejected", zap.Error(err))
	}
}

// playerMarksChapters reports whether the current segment carries markers of its own.
// mpv turns the chapters it reads from the file into ad breaks.
func playerMarksChapters(p playback.Player) bool {
	seg, ok := p.Timeline().Segment(p.CurrentSegment())
	if !ok {
		return false
	}
	for _, sp := range seg.SubPeriods {
		if len(sp.AdBreaks) > 0 {
			return true
		}
	}
	return false
}

func (s *Session) OnPositionDiscontinuity() {}

// Handle runs a bound action.
func (s *Session) Handle(a Action) {
	if s.stopped {
		return
	}
	expanded := s.ctrl.Carousel() == overlay.CarouselExpanded
	switch a {
	case ActionPlayPause:
		s.ctrl.Click(overlay.ControlPlayPause)
	case ActionSeekForward:
		s.ctrl.Click(overlay.ControlFastForward)
	case ActionSeekBackward:
		s.ctrl.Click(overlay.ControlRewind)
	case ActionNext:
		s.ctrl.Click(overlay.ControlNext)
	case ActionPrevious:
		s.ctrl.Click(overlay.ControlPrevious)
	case ActionStartOver:
		s.ctrl.Click(overlay.ControlStartOver)
	case ActionLive:
		s.ctrl.Click(overlay.ControlLive)
	case ActionCarouselUp:
		if expanded {
			s.panelMove(-1)
			return
		}
		if s.panel != nil {
			s.panel.Open(s.panel.Kind())
			s.screen.Invalidate()
		}
		s.ctrl.SwipeUp()
		return
	case ActionCarouselDown:
		if expanded {
			s.panelMove(1)
		}
		return
	case ActionSelect:
		if expanded {
			s.panel.Select()
			s.touchPanel()
			return
		}
		if !s.ctrl.IsVisible() {
			s.ctrl.Show()
			return
		}
		s.ctrl.Click(overlay.ControlPlayPause)
	case ActionSwitchPanel:
		if expanded {
			s.panel.Switch()
			s.touchPanel()
		}
		return
	case ActionInfo:
		if s.ctrl.IsVisible() {
			s.ctrl.Hide()
		} else {
			s.ctrl.Show()
		}
		return
	case ActionBack:
		switch {
		case s.ctrl.Carousel() != overlay.CarouselCollapsed:
			s.ctrl.SwipeDown()
		case s.ctrl.IsVisible():
			s.ctrl.Hide()
		default:
			s.Stop()
		}
		return
	case ActionStop:
		s.Stop()
		return
	default:
		return
	}
	s.poke()
}

// HandleKey runs a media key from a remote.
func (s *Session) HandleKey(ev overlay.KeyEvent) {
	if s.stopped {
		return
	}
	if s.ctrl.DispatchMediaKeyEvent(ev) && ev.Down {
		s.poke()
	}
}

// Touch handles a click. inPanel reports whether it landed where the carousel is drawn.
func (s *Session) Touch(inPanel bool) {
	if s.stopped {
		return
	}
	if !s.ctrl.IsVisible() {
		s.ctrl.Show()
		return
	}
	s.ctrl.TouchDown(inPanel)
}

// Scroll turns wheel movement into carousel swipes.
func (s *Session) Scroll(dy float64) {
	switch {
	case dy > 0 && s.ctrl.Carousel() == overlay.CarouselExpanded:
		s.panelMove(-1)
	case dy > 0:
		s.Handle(ActionCarouselUp)
	case dy < 0 && s.ctrl.Carousel() == overlay.CarouselExpanded:
		s.panelMove(1)
	}
}

func (s *Session) panelMove(delta int) {
	s.panel.Move(delta)
	s.touchPanel()
}

func (s *Session) touchPanel() {
	s.ctrl.TouchDown(true)
	s.screen.Invalidate()
}

// poke shows the overlay, or keeps it up a while longer.
func (s *Session) poke() {
	if s.ctrl.IsVisible() {
		s.ctrl.TouchDown(s.ctrl.Carousel() == overlay.CarouselExpanded)
		return
	}
	s.ctrl.Show()
}

// Tick runs due looper tasks and draws the result.
func (s *Session) Tick() {
	s.loop.RunPending()
	s.screen.Flush()
}

// Stop ends playback, reports it and takes the overlay down.
func (s *Session) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.poll.Stop()
	if s.reporter != nil {
		s.reporter.OnProgressUpdate(s.backend.Position(), s.backend.BufferedPosition())
		s.reporter.Stop()
		s.backend.RemoveListener(s.reporter)
	}
	s.backend.RemoveListener(s)
	s.backend.Stop()
	s.ctrl.Detach()
	s.ctrl.ForceHide()
	if err := s.ctrl.SetPlayer(nil); err != nil {
		s.log.Warn("detach player", zap.Error(err))
	}
	s.screen.Flush()
	s.log.Info("playback stopped")
}

// Done reports whether the session has stopped.
func (s *Session) Done() bool { return s.stopped }

var _ playback.Listener = (*Session)(nil)
