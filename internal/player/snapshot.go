package player

import (
	"maps"
	"math"
	"slices"
	"time"

	"github.com/depeter/couchosd/internal/playback"
	"github.com/depeter/couchosd/internal/timeline"
)

// change is a set of listener notifications a property update calls for.
type change uint8

const (
	changeState change = 1 << iota
	changeTimeline
	changeDiscontinuity
)

// snapshot is the last known mpv state, as reported by property changes.
type snapshot struct {
	position      time.Duration
	duration      time.Duration // TimeUnset until mpv knows it
	cacheTime     time.Duration
	speed         float64
	paused        bool
	seekable      bool
	playlistPos   int
	playlistCount int
	eof           bool
	idle          bool
	buffering     bool
	chapterCount  int
	chapters      []time.Duration

	// durations remembers the length of playlist entries seen so far.
	durations map[int]time.Duration
}

func newSnapshot() snapshot {
	return snapshot{
		duration:    timeline.TimeUnset,
		speed:       1,
		idle:        true,
		playlistPos: -1,
		durations:   map[int]time.Duration{},
	}
}

func (s snapshot) clone() snapshot {
	s.chapters = slices.Clone(s.chapters)
	s.durations = maps.Clone(s.durations)
	return s
}

func seconds(v float64) time.Duration {
	return time.Duration(math.Round(v * float64(time.Second)))
}

// apply folds one property change into s. data is nil when the property is unavailable.
func (s *snapshot) apply(name string, data any) change {
	switch name {
	case "time-pos":
		if v, ok := data.(float64); ok {
			s.position = seconds(v)
		} else {
			s.position = 0
		}
		return 0
	case "demuxer-cache-time":
		if v, ok := data.(float64); ok {
			s.cacheTime = seconds(v)
		} else {
			s.cacheTime = 0
		}
		return 0
	case "duration":
		s.duration = timeline.TimeUnset
		if v, ok := data.(float64); ok && v > 0 {
			s.duration = seconds(v)
			if s.playlistPos >= 0 {
				s.durations[s.playlistPos] = s.duration
			}
		}
		return changeTimeline
	case "speed":
		if v, ok := data.(float64); ok {
			s.speed = v
		}
		return 0
	case "pause":
		s.paused = flag(data)
		return changeState
	case "seekable":
		s.seekable = flag(data)
		return changeTimeline
	case "playlist-pos":
		s.playlistPos = int(integer(data, -1))
		// the new entry's duration is reported separately
		s.duration = timeline.TimeUnset
		if d, ok := s.durations[s.playlistPos]; ok {
			s.duration = d
		}
		return changeTimeline | changeDiscontinuity
	case "playlist-count":
		s.playlistCount = int(integer(data, 0))
		return changeTimeline
	case "eof-reached":
		s.eof = flag(data)
		return changeState
	case "idle-active":
		s.idle = flag(data)
		return changeState
	case "paused-for-cache":
		s.buffering = flag(data)
		return changeState
	case "chapters":
		s.chapterCount = int(integer(data, 0))
		return changeTimeline
	}
	return 0
}

func flag(data any) bool {
	switch v := data.(type) {
	case bool:
		return v
	case int:
		return v == 1
	}
	return false
}

func integer(data any, def int64) int64 {
	switch v := data.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return def
}

func (s snapshot) state() playback.State {
	switch {
	case s.idle || s.playlistPos < 0:
		return playback.StateIdle
	case s.eof:
		return playback.StateEnded
	case s.buffering:
		return playback.StateBuffering
	}
	return playback.StateReady
}

// dynamic reports whether the current entry looks live: loaded, but without a duration.
func (s snapshot) dynamic() bool {
	return s.playlistPos >= 0 && s.duration == timeline.TimeUnset
}

// timeline describes the playlist as segments. Entries not played yet have an unknown
// duration; chapters of the current entry become its ad-break markers.
func (s snapshot) timeline() timeline.Timeline {
	n := max(s.playlistCount, s.playlistPos+1)
	segs := make([]timeline.Segment, n)
	for i := range segs {
		d, ok := s.durations[i]
		if !ok {
			d = timeline.TimeUnset
		}
		segs[i] = timeline.Segment{Duration: d, Seekable: true}
	}
	if s.playlistPos < 0 || s.playlistPos >= n {
		return timeline.Timeline{Segments: segs}
	}

	cur := &segs[s.playlistPos]
	cur.Duration = s.duration
	cur.Seekable = s.seekable
	cur.Dynamic = s.dynamic()
	if len(s.chapters) > 0 {
		breaks := make([]timeline.AdBreak, 0, len(s.chapters))
		for _, c := range s.chapters {
			breaks = append(breaks, timeline.AdBreak{Position: c, Played: c <= s.position})
		}
		cur.SubPeriods = []timeline.SubPeriod{{Duration: s.duration, AdBreaks: breaks}}
	}
	return timeline.Timeline{Segments: segs}
}
