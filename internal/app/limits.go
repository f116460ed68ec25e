package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/playback"
)

// seekLimits vetoes forward seeks past the preview limit of on-demand items, and past
// the buffered edge of live ones. A vetoed seek in a live entry lands on its live edge.
type seekLimits struct {
	player  playback.Player
	preview time.Duration // zero: no preview limit
	log     *zap.Logger
}

func (s *seekLimits) AllowSeeking(pos time.Duration) bool {
	if playback.CurrentSegmentDynamic(s.player) {
		return pos <= s.player.BufferedPosition()
	}
	return s.preview <= 0 || pos <= s.preview
}

func (s *seekLimits) OnBlockedSeeking() {
	s.log.Info("seek blocked", zap.Duration("position", s.player.Position()), zap.Duration("preview", s.preview))
}

// joinPoint is where the viewer joined a live stream. Without start-over rights they
// cannot seek back past it.
type joinPoint struct {
	pos    time.Duration
	marked bool
	log    *zap.Logger
}

// mark records pos unless a join point is already known.
func (j *joinPoint) mark(pos time.Duration) {
	if !j.marked {
		j.pos, j.marked = pos, true
	}
}

func (j *joinPoint) reset() { j.pos, j.marked = 0, false }

func (j *joinPoint) StartOverPosition() time.Duration { return j.pos }

func (j *joinPoint) OnStartOver() {
	j.log.Info("start over", zap.Duration("position", j.pos))
}
