// Package player plays media through libmpv and draws the overlay with mpv's OSD.
package player

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/gen2brain/go-mpv"
	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/config"
	"github.com/depeter/couchosd/internal/looper"
	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/timeline"
)

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("mpv: player closed")

// Properties observed on the event goroutine.
var observed = []struct {
	name   string
	format mpv.Format
}{
	{"time-pos", mpv.FormatDouble},
	{"duration", mpv.FormatDouble},
	{"pause", mpv.FormatFlag},
	{"speed", mpv.FormatDouble},
	{"demuxer-cache-time", mpv.FormatDouble},
	{"seekable", mpv.FormatFlag},
	{"playlist-pos", mpv.FormatInt64},
	{"playlist-count", mpv.FormatInt64},
	{"eof-reached", mpv.FormatFlag},
	{"idle-active", mpv.FormatFlag},
	{"paused-for-cache", mpv.FormatFlag},
	{"chapters", mpv.FormatInt64},
}

// commander runs mpv commands. *mpv.Mpv is one.
type commander interface {
	Command(args []string) error
}

// MPV is a playback.Player backed by libmpv.
//
// Property changes arrive on an event goroutine. They are folded into a snapshot under mu
// and listeners are notified on the looper, so every Player method may be called from
// looper tasks.
type MPV struct {
	m    *mpv.Mpv
	cmd  commander
	loop *looper.Looper
	log  *zap.Logger

	mu     sync.Mutex
	snap   snapshot
	closed bool

	// looper-confined
	listeners   []playback.Listener
	pendingSeek *time.Duration

	done chan struct{}
}

// Options configure New.
type Options struct {
	// WindowID embeds the video into an existing native window when non-zero.
	WindowID int64
	// OSC keeps mpv's own controller. The overlay replaces it by default.
	OSC bool
}

// New creates and initializes an mpv instance that reports to loop.
func New(cfg *config.Config, loop *looper.Looper, log *zap.Logger, opts Options) (*MPV, error) {
	if log == nil {
		log = zap.NewNop()
	}
	m := mpv.New()
	p := &MPV{
		m:    m,
		cmd:  m,
		loop: loop,
		log:  log,
		snap: newSnapshot(),
		done: make(chan struct{}),
	}

	osc := "no"
	if opts.OSC {
		osc = "yes"
	}
	p.option("hwdec", cfg.Playback.HWAccel)
	p.option("vo", "gpu")
	p.option("osc", osc)
	p.option("keep-open", "yes")
	p.option("idle", "yes")
	p.option("ytdl", "yes")
	p.option("volume", fmt.Sprintf("%d", cfg.Playback.Volume))
	if cfg.Playback.AudioLanguage != "" {
		p.option("alang", cfg.Playback.AudioLanguage)
	}
	if cfg.Playback.SubLanguage != "" {
		p.option("slang", cfg.Playback.SubLanguage)
	}
	if opts.WindowID != 0 {
		p.option("wid", fmt.Sprintf("%d", opts.WindowID))
	}
	for name, value := range subtitleOptions(cfg.Subtitles) {
		p.option(name, value)
	}

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("mpv init: %w", err)
	}
	for i, prop := range observed {
		if err := m.ObserveProperty(uint64(i+1), prop.name, prop.format); err != nil {
			log.Warn("mpv observe failed", zap.String("property", prop.name), zap.Error(err))
		}
	}

	go p.eventLoop()
	return p, nil
}

func (p *MPV) option(name, value string) {
	if err := p.m.SetOptionString(name, value); err != nil {
		p.log.Warn("mpv option rejected", zap.String("option", name), zap.String("value", value), zap.Error(err))
	}
}

// subtitleOptions maps the subtitle section onto mpv option names.
func subtitleOptions(s config.SubtitleConfig) map[string]string {
	opts := map[string]string{
		"sub-font":          s.Font,
		"sub-font-size":     fmt.Sprintf("%d", s.FontSize),
		"sub-color":         s.Color,
		"sub-border-color":  s.BorderColor,
		"sub-border-size":   fmt.Sprintf("%.1f", s.BorderSize),
		"sub-shadow-offset": fmt.Sprintf("%.1f", s.ShadowOffset),
		"sub-pos":           fmt.Sprintf("%d", s.Position),
	}
	if s.Delay != 0 {
		opts["sub-delay"] = fmt.Sprintf("%.3f", s.Delay)
	}
	if s.ASSOverride != "" {
		opts["sub-ass-override"] = s.ASSOverride
	}
	return opts
}

func (p *MPV) command(args ...string) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if err := p.cmd.Command(args); err != nil {
		return fmt.Errorf("mpv %s: %w", args[0], err)
	}
	return nil
}

// Load replaces the playlist with urls and starts the first one at start. The start
// position is a per-file option, so later entries start from their beginning.
func (p *MPV) Load(start time.Duration, urls ...string) error {
	if len(urls) == 0 {
		return errors.New("mpv load: no urls")
	}
	if err := p.command("loadfile", urls[0], "replace", "-1", "start="+startOption(start)); err != nil {
		return err
	}
	for _, u := range urls[1:] {
		if err := p.command("loadfile", u, "append"); err != nil {
			return err
		}
	}
	return nil
}

func startOption(start time.Duration) string {
	if start <= 0 {
		return "none"
	}
	return fmt.Sprintf("%.3f", start.Seconds())
}

// SetOverlay shows ASS text on the OSD layer id, in a 1920x1080 coordinate space. Empty
// text removes the layer.
func (p *MPV) SetOverlay(id int, ass string) error {
	if ass == "" {
		return p.command("osd-overlay", fmt.Sprintf("%d", id), "none", "")
	}
	return p.command("osd-overlay", fmt.Sprintf("%d", id), "ass-events", ass,
		fmt.Sprintf("%d", osdWidth), fmt.Sprintf("%d", osdHeight))
}

// Close asks mpv to quit, waits for the event goroutine to see the shutdown and frees
// the handle.
func (p *MPV) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	if err := p.m.Command([]string{"quit"}); err != nil {
		p.log.Warn("mpv quit failed", zap.Error(err))
	}
	<-p.done
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.m.TerminateDestroy()
}

func (p *MPV) Looper() *looper.Looper { return p.loop }

func (p *MPV) AddListener(l playback.Listener) { p.listeners = append(p.listeners, l) }

func (p *MPV) RemoveListener(l playback.Listener) {
	p.listeners = slices.DeleteFunc(p.listeners, func(x playback.Listener) bool { return x == l })
}

func (p *MPV) snapshot() snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap.clone()
}

func (p *MPV) Timeline() timeline.Timeline { return p.snapshot().timeline() }

func (p *MPV) CurrentSegment() int { return max(p.snapshot().playlistPos, 0) }

func (p *MPV) Position() time.Duration { return p.snapshot().position }

func (p *MPV) BufferedPosition() time.Duration {
	s := p.snapshot()
	return max(s.position, s.cacheTime)
}

func (p *MPV) Duration() time.Duration { return p.snapshot().duration }

func (p *MPV) Speed() float64 { return p.snapshot().speed }

func (p *MPV) State() playback.State { return p.snapshot().state() }

func (p *MPV) PlayWhenReady() bool { return !p.snapshot().paused }

// IsPlayingAd is always false: mpv has no notion of inserted ads.
func (p *MPV) IsPlayingAd() bool { return false }

// SeekTo seeks inside the current entry or switches playlist entries. A position for
// another entry is applied once that entry has loaded.
func (p *MPV) SeekTo(segment int, pos time.Duration) {
	s := p.snapshot()
	if segment != s.playlistPos {
		p.pendingSeek = &pos
		if err := p.command("playlist-play-index", fmt.Sprintf("%d", segment)); err != nil {
			p.pendingSeek = nil
			p.log.Warn("playlist switch failed", zap.Int("segment", segment), zap.Error(err))
		}
		return
	}
	p.seek(pos, s.dynamic())
}

func (p *MPV) seek(pos time.Duration, dynamic bool) {
	if err := p.command(seekArgs(pos, dynamic)...); err != nil {
		p.log.Warn("seek failed", zap.Duration("position", pos), zap.Error(err))
	}
}

// seekArgs builds the seek command for pos. The default position of a live stream is
// its edge; of anything else, the start.
func seekArgs(pos time.Duration, dynamic bool) []string {
	if pos == timeline.TimeUnset {
		if dynamic {
			return []string{"seek", "100", "absolute-percent"}
		}
		pos = 0
	}
	return []string{"seek", fmt.Sprintf("%.3f", pos.Seconds()), "absolute"}
}

func (p *MPV) SetPlayWhenReady(play bool) {
	value := "yes"
	if play {
		value = "no"
	}
	if err := p.m.SetPropertyString("pause", value); err != nil {
		p.log.Warn("set pause failed", zap.Bool("play", play), zap.Error(err))
	}
}

func (p *MPV) Stop() {
	if err := p.command("stop"); err != nil {
		p.log.Warn("stop failed", zap.Error(err))
	}
}

func (p *MPV) eventLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(p.done)
	for {
		ev := p.m.WaitEvent(1.0)
		if ev == nil {
			continue
		}
		switch ev.EventID {
		case mpv.EventPropertyChange:
			p.onProperty(ev.Property())
		case mpv.EventFileLoaded:
			p.loop.Post(p.applyPendingSeek)
			p.post(changeTimeline | changeState)
		case mpv.EventSeek, mpv.EventPlaybackRestart:
			p.post(changeDiscontinuity)
		case mpv.EventEnd:
			if ev.Data != nil {
				p.log.Debug("mpv end-file", zap.Any("reason", ev.EndFile().Reason))
			}
			p.post(changeState)
		case mpv.EventShutdown:
			return
		}
	}
}

func (p *MPV) onProperty(prop mpv.EventProperty) {
	p.mu.Lock()
	changed := p.snap.apply(prop.Name, prop.Data)
	count := p.snap.chapterCount
	p.mu.Unlock()

	if prop.Name == "chapters" {
		chapters := p.readChapters(count)
		p.mu.Lock()
		p.snap.chapters = chapters
		p.mu.Unlock()
	}
	p.post(changed)
}

// readChapters fetches chapter start times. Called off the looper.
func (p *MPV) readChapters(n int) []time.Duration {
	out := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		v, err := p.m.GetProperty(fmt.Sprintf("chapter-list/%d/time", i), mpv.FormatDouble)
		if err != nil {
			p.log.Debug("chapter time unavailable", zap.Int("chapter", i), zap.Error(err))
			continue
		}
		if secs, ok := v.(float64); ok {
			out = append(out, seconds(secs))
		}
	}
	return out
}

func (p *MPV) applyPendingSeek() {
	if p.pendingSeek == nil {
		return
	}
	pos := *p.pendingSeek
	p.pendingSeek = nil
	dynamic := p.snapshot().dynamic()
	if pos == timeline.TimeUnset && !dynamic {
		// a freshly loaded entry already sits at its start
		return
	}
	p.seek(pos, dynamic)
}

// post notifies listeners of changed on the looper.
func (p *MPV) post(changed change) {
	if changed == 0 {
		return
	}
	p.loop.Post(func() {
		ls := slices.Clone(p.listeners)
		if changed&changeTimeline != 0 {
			for _, l := range ls {
				l.OnTimelineChanged()
			}
		}
		if changed&changeState != 0 {
			play, st := p.PlayWhenReady(), p.State()
			for _, l := range ls {
				l.OnStateChanged(play, st)
			}
		}
		if changed&changeDiscontinuity != 0 {
			for _, l := range ls {
				l.OnPositionDiscontinuity()
			}
		}
	})
}

var _ playback.Player = (*MPV)(nil)
