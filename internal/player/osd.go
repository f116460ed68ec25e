package player

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/overlay"
	"github.com/depeter/couchosd/internal/timeline"
)

// OSD coordinate space. mpv scales it to the window.
const (
	osdWidth  = 1920
	osdHeight = 1080
)

// ASS color format: &HAABBGGRR (alpha, blue, green, red; reversed from RGB)
const (
	assWhite   = "&HFFFFFF&"
	assBlack   = "&H000000&"
	assPrimary = "&HDCA400&" // #00A4DC
	assMarker  = "&H00D7FF&" // #FFD700
	assPlayed  = "&H808080&"
	assLive    = "&H3030E0&" // #E03030
	assShadow  = "&H000000&"

	assFont = `\fnSegoe UI,Liberation Sans,sans-serif`
)

// Seek bar layout.
const (
	barX = 200
	barW = 1520
	barY = 975
	barH = 6
	barR = 3

	buttonY = 900
	panelH  = 420
)

// Overlay layers used on mpv's OSD.
const (
	layerControls = 1
)

// buttons lists the transport row, left to right.
var buttons = []struct {
	control overlay.Control
	x       int
	icon    string
}{
	{overlay.ControlPrevious, 760, "⏮"},
	{overlay.ControlRewind, 860, "⏪"},
	{overlay.ControlPlayPause, 960, "▶"},
	{overlay.ControlFastForward, 1060, "⏩"},
	{overlay.ControlNext, 1160, "⏭"},
	{overlay.ControlStartOver, 1560, "↺"},
}

// OverlaySink displays rendered ASS. *MPV is one.
type OverlaySink interface {
	SetOverlay(id int, ass string) error
}

// Panel is the content of the carousel.
type Panel interface {
	Title() string
	Lines() []string
	// Cursor is the highlighted line.
	Cursor() int
}

type marker struct {
	pos    time.Duration
	played bool
}

// OSD draws the overlay with ASS on mpv's OSD layer. It implements overlay.Surface and
// overlay.Indicator: calls only record state, and Flush pushes one frame to the sink.
type OSD struct {
	sink  OverlaySink
	log   *zap.Logger
	panel Panel

	visible  bool
	alpha    float64
	controls map[overlay.Control]overlay.ControlState
	playing  bool
	posText  string
	durText  string
	live     bool
	onEdge   bool
	carousel float64
	focus    overlay.Control

	duration time.Duration
	position time.Duration
	buffered time.Duration
	markers  []marker

	dirty bool
	last  string
}

// NewOSD returns an OSD drawing into sink. panel may be nil.
func NewOSD(sink OverlaySink, panel Panel, log *zap.Logger) *OSD {
	if log == nil {
		log = zap.NewNop()
	}
	return &OSD{
		sink:     sink,
		log:      log,
		panel:    panel,
		alpha:    1,
		controls: map[overlay.Control]overlay.ControlState{},
		focus:    overlay.ControlPlayPause,
		duration: timeline.TimeUnset,
	}
}

func (o *OSD) SetVisible(visible bool) { o.visible = visible; o.dirty = true }
func (o *OSD) SetAlpha(alpha float64)  { o.alpha = alpha; o.dirty = true }
func (o *OSD) SetPlaying(playing bool) { o.playing = playing; o.dirty = true }
func (o *OSD) SetCarousel(off float64) { o.carousel = off; o.dirty = true }
func (o *OSD) Focus(c overlay.Control) { o.focus = c; o.dirty = true }

func (o *OSD) SetControl(c overlay.Control, st overlay.ControlState) {
	o.controls[c] = st
	o.dirty = true
}

func (o *OSD) SetPositionText(text string) { o.posText = text; o.dirty = true }
func (o *OSD) SetDurationText(text string) { o.durText = text; o.dirty = true }

func (o *OSD) SetLive(shown, onEdge bool) {
	o.live, o.onEdge = shown, onEdge
	o.dirty = true
}

func (o *OSD) SetDuration(d time.Duration)           { o.duration = d; o.dirty = true }
func (o *OSD) SetPosition(pos time.Duration)         { o.position = pos; o.dirty = true }
func (o *OSD) SetBufferedPosition(pos time.Duration) { o.buffered = pos; o.dirty = true }

func (o *OSD) SetMarkers(positions []time.Duration, played []bool, count int) {
	o.markers = o.markers[:0]
	for i := 0; i < count && i < len(positions) && i < len(played); i++ {
		o.markers = append(o.markers, marker{pos: positions[i], played: played[i]})
	}
	o.dirty = true
}

// PreferredUpdateDelay is the media time one pixel of the bar covers.
func (o *OSD) PreferredUpdateDelay() time.Duration {
	if o.duration <= 0 {
		return 0
	}
	return o.duration / barW
}

// Invalidate forces the next Flush to redraw, e.g. after the panel content changed.
func (o *OSD) Invalidate() { o.dirty = true }

// Flush sends the current frame to the sink if anything changed since the last one.
func (o *OSD) Flush() {
	if !o.dirty {
		return
	}
	o.dirty = false
	ass := o.Render()
	if ass == o.last {
		return
	}
	if err := o.sink.SetOverlay(layerControls, ass); err != nil {
		o.log.Debug("osd overlay update failed", zap.Error(err))
		return
	}
	o.last = ass
}

// Render builds the ASS events for the current state. It is empty while hidden.
func (o *OSD) Render() string {
	if !o.visible || o.alpha <= 0 {
		return ""
	}
	var b strings.Builder

	// backdrop
	fmt.Fprintf(&b, "{\\an7\\pos(0,%d)\\p1\\bord0\\shad0\\1c%s\\1a%s}m 0 0 l %d 0 l %d 240 l 0 240{\\p0}\n",
		osdHeight-240, assBlack, o.assAlpha(0.6), osdWidth, osdWidth)

	o.renderBar(&b)
	o.renderButtons(&b)
	o.renderTimes(&b)
	if o.live {
		color := assPlayed
		if o.onEdge {
			color = assLive
		}
		fmt.Fprintf(&b, "{\\an6\\pos(1860,%d)\\bord0\\shad1\\3c%s\\fs26\\1c%s\\1a%s%s\\b1}● LIVE{\\r}\n",
			buttonY, assShadow, color, o.controlAlpha(overlay.ControlLive), assFont)
	}
	if o.carousel > 0 && o.panel != nil {
		o.renderPanel(&b)
	}
	return b.String()
}

func (o *OSD) renderBar(b *strings.Builder) {
	bar := o.state(overlay.ControlSeekBar)
	if !bar.Visible {
		return
	}
	alpha := o.assAlpha(bar.Alpha)

	fmt.Fprintf(b, "{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a%s}%s{\\p0}\n",
		barX, barY-barH/2, assWhite, o.assAlpha(0.3*bar.Alpha), assRoundRect(0, 0, barW, barH, barR))

	if o.duration <= 0 {
		return
	}
	if bw := o.barOffset(o.buffered); bw > 0 {
		fmt.Fprintf(b, "{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a%s}%s{\\p0}\n",
			barX, barY-barH/2, assWhite, o.assAlpha(0.5*bar.Alpha), assRoundRect(0, 0, max(bw, barR*2), barH, barR))
	}
	fill := o.barOffset(o.position)
	if fill > 0 {
		fmt.Fprintf(b, "{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a%s}%s{\\p0}\n",
			barX, barY-barH/2, assPrimary, alpha, assRoundRect(0, 0, max(fill, barR*2), barH, barR))
	}
	for _, m := range o.markers {
		color := assMarker
		if m.played {
			color = assPlayed
		}
		fmt.Fprintf(b, "{\\an7\\pos(%d,%d)\\p1\\bord0\\shad0\\1c%s\\1a%s}m 0 0 l 4 0 l 4 %d l 0 %d{\\p0}\n",
			barX+o.barOffset(m.pos)-2, barY-barH/2, color, alpha, barH, barH)
	}

	dotR := 10
	if o.focus == overlay.ControlSeekBar {
		dotR = 14
	}
	fmt.Fprintf(b, "{\\an5\\pos(%d,%d)\\p1\\bord0\\shad2\\3c%s\\1c%s\\1a%s}%s{\\p0}\n",
		barX+fill, barY, assShadow, assWhite, alpha, assCircle(0, 0, dotR))
}

// barOffset maps a position onto the bar, in pixels from its left edge.
func (o *OSD) barOffset(pos time.Duration) int {
	if o.duration <= 0 || pos <= 0 {
		return 0
	}
	frac := math.Min(float64(pos)/float64(o.duration), 1)
	return int(frac * barW)
}

func (o *OSD) renderButtons(b *strings.Builder) {
	for _, btn := range buttons {
		st := o.state(btn.control)
		if !st.Visible {
			continue
		}
		icon := btn.icon
		if btn.control == overlay.ControlPlayPause && o.playing {
			icon = "❚❚"
		}
		color := assWhite
		if o.focus == btn.control && st.Enabled {
			color = assPrimary
		}
		fmt.Fprintf(b, "{\\an5\\pos(%d,%d)\\bord0\\shad1\\3c%s\\fs48\\1c%s\\1a%s\\fnSegoe UI Symbol,Noto Sans Symbols2,sans-serif}%s{\\r}\n",
			btn.x, buttonY, assShadow, color, o.controlAlpha(btn.control), icon)
	}
}

func (o *OSD) renderTimes(b *strings.Builder) {
	if !o.state(overlay.ControlTimes).Visible {
		return
	}
	alpha := o.controlAlpha(overlay.ControlTimes)
	fmt.Fprintf(b, "{\\an4\\pos(60,%d)\\bord0\\shad1\\3c%s\\fs28\\1c%s\\1a%s%s\\b1}%s{\\r}\n",
		barY, assShadow, assWhite, alpha, assFont, o.posText)
	fmt.Fprintf(b, "{\\an6\\pos(1860,%d)\\bord0\\shad1\\3c%s\\fs28\\1c%s\\1a%s%s}%s{\\r}\n",
		barY, assShadow, assWhite, alpha, assFont, o.durText)
}

// renderPanel draws the carousel, sliding it up from below the screen by the offset.
func (o *OSD) renderPanel(b *strings.Builder) {
	top := osdHeight - int(o.carousel*panelH)
	fmt.Fprintf(b, "{\\an7\\pos(0,%d)\\p1\\bord0\\shad0\\1c%s\\1a%s}m 0 0 l %d 0 l %d %d l 0 %d{\\p0}\n",
		top, assBlack, o.assAlpha(0.85), osdWidth, osdWidth, panelH, panelH)
	fmt.Fprintf(b, "{\\an7\\pos(120,%d)\\bord0\\shad0\\fs30\\1c%s\\1a%s%s\\b1}%s{\\r}\n",
		top+30, assPrimary, o.assAlpha(1), assFont, o.panel.Title())

	cursor := o.panel.Cursor()
	for i, line := range o.panel.Lines() {
		y := top + 90 + i*40
		if y > osdHeight {
			break
		}
		color, prefix := assWhite, "   "
		if i == cursor && o.focus == overlay.ControlCarousel {
			color, prefix = assPrimary, "▸ "
		}
		fmt.Fprintf(b, "{\\an7\\pos(120,%d)\\bord0\\shad1\\3c%s\\fs26\\1c%s\\1a%s%s}%s%s{\\r}\n",
			y, assShadow, color, o.assAlpha(1), assFont, prefix, assEscape(line))
	}
}

// state is how c was last reported. Controls never reported are drawn plainly.
func (o *OSD) state(c overlay.Control) overlay.ControlState {
	if st, ok := o.controls[c]; ok {
		return st
	}
	return overlay.ControlState{Visible: true, Enabled: true, Alpha: 1}
}

// controlAlpha is the ASS alpha tag of a control, combined with the overlay fade.
func (o *OSD) controlAlpha(c overlay.Control) string {
	return o.assAlpha(o.state(c).Alpha)
}

// assAlpha converts an opacity to an ASS alpha tag, which counts transparency.
func (o *OSD) assAlpha(opacity float64) string {
	a := math.Max(0, math.Min(1, opacity*o.alpha))
	return fmt.Sprintf("&H%02X&", 255-int(math.Round(a*255)))
}

// assEscape keeps text from being read as override blocks or line breaks.
func assEscape(s string) string {
	return strings.NewReplacer("{", "\\{", "}", "\\}", "\\", "\\\u2060", "\n", " ").Replace(s)
}

// assRoundRect generates an ASS vector drawing for a rounded rectangle.
// Coordinates are relative to the \pos anchor.
func assRoundRect(x, y, w, h, r int) string {
	r = min(r, h/2, w/2)
	// m = moveto, l = lineto, b = cubic bezier; clockwise from the top-left
	return fmt.Sprintf(
		"m %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d l %d %d b %d %d %d %d %d %d",
		x+r, y,
		x+w-r, y,
		x+w, y, x+w, y, x+w, y+r,
		x+w, y+h-r,
		x+w, y+h, x+w, y+h, x+w-r, y+h,
		x+r, y+h,
		x, y+h, x, y+h, x, y+h-r,
		x, y+r,
		x, y, x, y, x+r, y,
	)
}

// assCircle approximates a circle with four cubic bezier segments.
func assCircle(cx, cy, r int) string {
	k := r * 55 / 100
	return fmt.Sprintf(
		"m %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d b %d %d %d %d %d %d",
		cx, cy-r,
		cx+k, cy-r, cx+r, cy-k, cx+r, cy,
		cx+r, cy+k, cx+k, cy+r, cx, cy+r,
		cx-k, cy+r, cx-r, cy+k, cx-r, cy,
		cx-r, cy-k, cx-k, cy-r, cx, cy-r,
	)
}

var (
	_ overlay.Surface   = (*OSD)(nil)
	_ overlay.Indicator = (*OSD)(nil)
)
