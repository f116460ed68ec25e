package player

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-mpv"
	"go.uber.org/zap"
)

// TrackType distinguishes subtitle vs audio tracks.
type TrackType int

const (
	TrackSub TrackType = iota
	TrackAudio
)

func (t TrackType) mpvName() string {
	if t == TrackAudio {
		return "audio"
	}
	return "sub"
}

// Track holds metadata about an mpv track.
type Track struct {
	ID       int
	Type     TrackType
	Title    string
	Lang     string
	Codec    string
	Selected bool
	Default  bool
	Forced   bool
	External bool
}

// DisplayName returns a human-readable label for the track.
func (t Track) DisplayName() string {
	name := t.Title
	if name == "" {
		name = langName(t.Lang)
	} else if lang := langName(t.Lang); lang != "" && lang != t.Title {
		name = t.Title + " - " + lang
	}
	if name == "" {
		name = fmt.Sprintf("Track %d", t.ID)
	}
	parts := []string{name}
	if t.Codec != "" {
		parts = append(parts, "["+t.Codec+"]")
	}

	var flags []string
	if t.Default {
		flags = append(flags, "default")
	}
	if t.Forced {
		flags = append(flags, "forced")
	}
	if t.External {
		flags = append(flags, "external")
	}
	if len(flags) > 0 {
		parts = append(parts, "("+strings.Join(flags, ", ")+")")
	}
	return strings.Join(parts, " ")
}

// Tracks lists the audio and subtitle tracks of the current entry.
func (p *MPV) Tracks() []Track {
	n, err := p.m.GetProperty("track-list/count", mpv.FormatInt64)
	if err != nil {
		return nil
	}
	count, _ := n.(int64)
	var out []Track
	for i := 0; i < int(count); i++ {
		prefix := fmt.Sprintf("track-list/%d/", i)
		var t Track
		switch p.propString(prefix + "type") {
		case "audio":
			t.Type = TrackAudio
		case "sub":
			t.Type = TrackSub
		default:
			continue
		}
		if id, err := p.m.GetProperty(prefix+"id", mpv.FormatInt64); err == nil {
			v, _ := id.(int64)
			t.ID = int(v)
		}
		t.Title = p.propString(prefix + "title")
		t.Lang = p.propString(prefix + "lang")
		t.Codec = p.propString(prefix + "codec")
		t.Selected = p.propFlag(prefix + "selected")
		t.Default = p.propFlag(prefix + "default")
		t.Forced = p.propFlag(prefix + "forced")
		t.External = p.propFlag(prefix + "external")
		out = append(out, t)
	}
	return out
}

func (p *MPV) propString(name string) string {
	v, err := p.m.GetProperty(name, mpv.FormatString)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (p *MPV) propFlag(name string) bool {
	v, err := p.m.GetProperty(name, mpv.FormatFlag)
	if err != nil {
		return false
	}
	return flag(v)
}

// SelectTrack switches the audio or subtitle track. Subtitle id 0 turns subtitles off.
func (p *MPV) SelectTrack(tt TrackType, id int) error {
	value := fmt.Sprintf("%d", id)
	if id == 0 {
		value = "no"
	}
	prop := "aid"
	if tt == TrackSub {
		prop = "sid"
	}
	if err := p.m.SetPropertyString(prop, value); err != nil {
		return fmt.Errorf("select %s track %s: %w", tt.mpvName(), value, err)
	}
	return nil
}

// TrackSource lists and selects tracks. *MPV is one.
type TrackSource interface {
	Tracks() []Track
	SelectTrack(tt TrackType, id int) error
}

// TrackPanel is the carousel content: a list of tracks of one type, navigated with a
// cursor. Subtitle lists end with an "Off" entry.
type TrackPanel struct {
	src    TrackSource
	log    *zap.Logger
	kind   TrackType
	tracks []Track
	cursor int
}

func NewTrackPanel(src TrackSource, log *zap.Logger) *TrackPanel {
	if log == nil {
		log = zap.NewNop()
	}
	return &TrackPanel{src: src, log: log}
}

// Open loads the tracks of tt and puts the cursor on the selected one.
func (t *TrackPanel) Open(tt TrackType) {
	t.kind = tt
	t.tracks = t.tracks[:0]
	for _, tr := range t.src.Tracks() {
		if tr.Type == tt {
			t.tracks = append(t.tracks, tr)
		}
	}
	t.cursor = t.active()
}

// Kind is the track type listed.
func (t *TrackPanel) Kind() TrackType { return t.kind }

// Switch flips between audio and subtitle tracks.
func (t *TrackPanel) Switch() {
	if t.kind == TrackSub {
		t.Open(TrackAudio)
	} else {
		t.Open(TrackSub)
	}
}

// active is the line of the selected track.
func (t *TrackPanel) active() int {
	for i, tr := range t.tracks {
		if tr.Selected {
			return i
		}
	}
	if t.kind == TrackSub {
		return len(t.tracks)
	}
	return 0
}

func (t *TrackPanel) size() int {
	if t.kind == TrackSub {
		return len(t.tracks) + 1
	}
	return len(t.tracks)
}

func (t *TrackPanel) Title() string {
	if t.kind == TrackAudio {
		return "Audio Tracks"
	}
	return "Subtitle Tracks"
}

func (t *TrackPanel) Cursor() int { return t.cursor }

func (t *TrackPanel) Lines() []string {
	lines := make([]string, 0, t.size())
	active := t.active()
	for i := 0; i < t.size(); i++ {
		label := "Off"
		if i < len(t.tracks) {
			label = t.tracks[i].DisplayName()
		}
		if i == active {
			label = "✓ " + label
		}
		lines = append(lines, label)
	}
	return lines
}

// Move shifts the cursor by delta lines, staying inside the list.
func (t *TrackPanel) Move(delta int) {
	t.cursor = max(0, min(t.cursor+delta, t.size()-1))
}

// Select applies the track under the cursor.
func (t *TrackPanel) Select() {
	if t.size() == 0 {
		return
	}
	id := 0
	if t.cursor < len(t.tracks) {
		id = t.tracks[t.cursor].ID
	}
	if err := t.src.SelectTrack(t.kind, id); err != nil {
		t.log.Warn("track selection failed", zap.Error(err))
		return
	}
	for i := range t.tracks {
		t.tracks[i].Selected = i == t.cursor
	}
}

// langName converts ISO 639-2 language codes to human-readable names.
func langName(code string) string {
	if code == "" {
		return ""
	}
	if name, ok := languages[code]; ok {
		return name
	}
	return code
}

var languages = map[string]string{
	"eng": "English",
	"fre": "French",
	"fra": "French",
	"spa": "Spanish",
	"ger": "German",
	"deu": "German",
	"ita": "Italian",
	"por": "Portuguese",
	"rus": "Russian",
	"jpn": "Japanese",
	"kor": "Korean",
	"chi": "Chinese",
	"zho": "Chinese",
	"ara": "Arabic",
	"hin": "Hindi",
	"tur": "Turkish",
	"pol": "Polish",
	"dut": "Dutch",
	"nld": "Dutch",
	"swe": "Swedish",
	"nor": "Norwegian",
	"dan": "Danish",
	"fin": "Finnish",
	"ces": "Czech",
	"cze": "Czech",
	"gre": "Greek",
	"ell": "Greek",
	"heb": "Hebrew",
	"und": "Unknown",
}

var _ Panel = (*TrackPanel)(nil)
