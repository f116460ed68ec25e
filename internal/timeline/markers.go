package timeline

import (
	"errors"
	"slices"
	"time"
)

// ErrMarkerLengthMismatch is returned when marker positions and played flags differ in
// length.
var ErrMarkerLengthMismatch = errors.New("marker positions and played flags differ in length")

// MarkerSet holds the markers drawn on the indicator as two parallel buffers with a
// separate used length. Buffers grow by doubling and are reused across rebuilds.
// Markers discovered in the timeline come first; extra markers are appended after them.
type MarkerSet struct {
	positions  []time.Duration
	played     []bool
	discovered int

	extraPositions []time.Duration
	extraPlayed    []bool
}

// Reset forgets the discovered markers. Capacity and extra markers are kept.
func (m *MarkerSet) Reset() {
	m.discovered = 0
}

// Append adds one discovered marker.
func (m *MarkerSet) Append(position time.Duration, played bool) {
	m.grow(m.discovered + 1)
	m.positions[m.discovered] = position
	m.played[m.discovered] = played
	m.discovered++
}

// SetExtra replaces the externally supplied markers. Positions are absolute on the
// flattened axis. A nil positions slice clears them.
func (m *MarkerSet) SetExtra(positions []time.Duration, played []bool) error {
	if positions == nil {
		m.extraPositions, m.extraPlayed = nil, nil
		return nil
	}
	if len(positions) != len(played) {
		return ErrMarkerLengthMismatch
	}
	m.extraPositions = slices.Clone(positions)
	m.extraPlayed = slices.Clone(played)
	return nil
}

// Merge copies the extra markers after the discovered ones and returns the buffers with
// the number of used entries. The returned slices alias internal storage and are valid
// until the next call that mutates the set.
func (m *MarkerSet) Merge() (positions []time.Duration, played []bool, count int) {
	count = m.discovered + len(m.extraPositions)
	m.grow(count)
	copy(m.positions[m.discovered:], m.extraPositions)
	copy(m.played[m.discovered:], m.extraPlayed)
	return m.positions, m.played, count
}

// Discovered returns the number of markers found in the timeline.
func (m *MarkerSet) Discovered() int { return m.discovered }

// Extra returns the number of externally supplied markers.
func (m *MarkerSet) Extra() int { return len(m.extraPositions) }

// Cap returns the current buffer length.
func (m *MarkerSet) Cap() int { return len(m.positions) }

func (m *MarkerSet) grow(n int) {
	if n <= len(m.positions) {
		return
	}
	size := len(m.positions)
	if size == 0 {
		size = 1
	}
	for size < n {
		size *= 2
	}
	positions := make([]time.Duration, size)
	played := make([]bool, size)
	copy(positions, m.positions)
	copy(played, m.played)
	m.positions, m.played = positions, played
}
