package overlay

import (
	"slices"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/depeter/couchosd/internal/looper"
	"github.com/depeter/couchosd/internal/playback/playbacktest"
)

type fakeSurface struct {
	visible      bool
	visibleCalls []bool
	alpha        float64
	controls     map[Control]ControlState
	playing      bool
	positionText string
	durationText string
	live         bool
	onEdge       bool
	carousel     float64
	focus        []Control
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{controls: map[Control]ControlState{}}
}

func (s *fakeSurface) SetVisible(v bool) {
	s.visible = v
	s.visibleCalls = append(s.visibleCalls, v)
}
func (s *fakeSurface) SetAlpha(a float64) { s.alpha = a }
func (s *fakeSurface) SetControl(c Control, st ControlState) { s.controls[c] = st }
func (s *fakeSurface) SetPlaying(p bool) { s.playing = p }
func (s *fakeSurface) SetPositionText(t string) { s.positionText = t }
func (s *fakeSurface) SetDurationText(t string) { s.durationText = t }
func (s *fakeSurface) SetLive(shown, onEdge bool) { s.live, s.onEdge = shown, onEdge }
func (s *fakeSurface) SetCarousel(offset float64) { s.carousel = offset }
func (s *fakeSurface) Focus(c Control) { s.focus = append(s.focus, c) }

type fakeIndicator struct {
	duration  time.Duration
	position  time.Duration
	buffered  time.Duration
	positions []time.Duration
	played    []bool
	preferred time.Duration
}

func (i *fakeIndicator) SetDuration(d time.Duration) { i.duration = d }
func (i *fakeIndicator) SetPosition(p time.Duration) { i.position = p }
func (i *fakeIndicator) SetBufferedPosition(p time.Duration) { i.buffered = p }
func (i *fakeIndicator) SetMarkers(positions []time.Duration, played []bool, count int) {
	i.positions = slices.Clone(positions[:count])
	i.played = slices.Clone(played[:count])
}
func (i *fakeIndicator) PreferredUpdateDelay() time.Duration { return i.preferred }

type fakeVisibility struct {
	starts   []bool
	ends     []bool
	progress int
}

func (v *fakeVisibility) OnFadeStart(in bool) { v.starts = append(v.starts, in) }
func (v *fakeVisibility) OnFadeProgress(_ float64) { v.progress++ }
func (v *fakeVisibility) OnFadeEnd(in bool) { v.ends = append(v.ends, in) }

type fakeProgress struct {
	updates int
	last    time.Duration
}

func (p *fakeProgress) OnProgressUpdate(position, _ time.Duration) {
	p.updates++
	p.last = position
}

type fakeSwitch struct {
	next, previous       int
	hasNext, hasPrevious bool
}

func (s *fakeSwitch) Next() { s.next++ }
func (s *fakeSwitch) Previous() { s.previous++ }
func (s *fakeSwitch) HasNext() bool { return s.hasNext }
func (s *fakeSwitch) HasPrevious() bool { return s.hasPrevious }

type fakePreparer struct{ prepared int }

func (p *fakePreparer) PreparePlayback() { p.prepared++ }

type recordInteractions struct{ got []Interaction }

func (r *recordInteractions) OnInteraction(i Interaction) { r.got = append(r.got, i) }

type fakePreview struct {
	limit   time.Duration
	blocked int
}

func (f *fakePreview) AllowSeeking(pos time.Duration) bool { return pos <= f.limit }
func (f *fakePreview) OnBlockedSeeking() { f.blocked++ }

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

type harness struct {
	clock     fakeClock
	loop      *looper.Looper
	surface   *fakeSurface
	indicator *fakeIndicator
	vis       *fakeVisibility
	progress  *fakeProgress
	player    *playbacktest.Player
	c         *Controller
}

// newHarness builds an attached controller driving a playing two-minute item.
func newHarness(opts ...Option) *harness {
	clock := clockwork.NewFakeClock()
	h := &harness{
		clock:     clock,
		loop:      looper.New(clock),
		surface:   newFakeSurface(),
		indicator: &fakeIndicator{},
		vis:       &fakeVisibility{},
		progress:  &fakeProgress{},
	}
	h.player = playbacktest.New(h.loop, 2*time.Minute)
	opts = append([]Option{
		WithIndicator(h.indicator),
		WithVisibilityListener(h.vis),
		WithProgressListener(h.progress),
	}, opts...)
	h.c = New(h.loop, h.surface, opts...)
	if err := h.c.SetPlayer(h.player); err != nil {
		panic(err)
	}
	h.c.Attach()
	return h
}

// advance moves the clock forward one frame at a time, running due tasks.
func (h *harness) advance(d time.Duration) {
	h.loop.RunPending()
	for d > 0 {
		step := min(d, frameInterval)
		h.clock.Advance(step)
		h.loop.RunPending()
		d -= step
	}
}

// shown brings the overlay fully on screen.
func (h *harness) shown() {
	h.c.Show()
	h.advance(h.c.fadeDuration + frameInterval)
}
