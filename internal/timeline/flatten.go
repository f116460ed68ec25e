package timeline

import "time"

// Flattening is the result of laying segments end to end on one axis.
type Flattening struct {
	// Multi is set when every segment was flattened, not just the active one.
	Multi bool
	// Duration is the sum of the flattened segment durations. When DurationKnown is
	// false it is the partial sum accumulated before the first unknown duration.
	Duration      time.Duration
	DurationKnown bool
	// CurrentOffset is the flattened position where the active segment starts.
	CurrentOffset time.Duration
	// Discovered is the number of ad-break markers written to the MarkerSet.
	Discovered int
}

// CanFlattenAll reports whether t can be shown on a single multi-segment indicator:
// it must be small enough and every segment must have a known duration.
func CanFlattenAll(t Timeline) bool {
	if t.Len() > MaxSegmentsForMultiSegment {
		return false
	}
	for _, s := range t.Segments {
		if !s.DurationKnown() {
			return false
		}
	}
	return true
}

// Flatten lays the segments of t on one axis. With allowMulti and an eligible timeline
// all segments are included, otherwise only the segment at current. Ad breaks found along
// the way are written to markers (which is reset first); markers may be nil.
//
// An unknown duration stops flattening with the partial sum. That can only happen in
// single-segment mode, since multi mode requires every duration to be known.
func Flatten(t Timeline, current int, allowMulti bool, markers *MarkerSet) Flattening {
	if markers != nil {
		markers.Reset()
	}
	f := Flattening{DurationKnown: true}
	if t.IsEmpty() {
		f.DurationKnown = false
		return f
	}

	f.Multi = allowMulti && CanFlattenAll(t)
	first, last := current, current
	if f.Multi {
		first, last = 0, t.Len()-1
	} else if current < 0 || current >= t.Len() {
		f.DurationKnown = false
		return f
	}

	var acc time.Duration
	for i := first; i <= last; i++ {
		if i == current {
			f.CurrentOffset = acc
		}
		seg := t.Segments[i]
		if !seg.DurationKnown() {
			f.DurationKnown = false
			break
		}
		f.Discovered += collectAdBreaks(seg, acc, markers)
		acc += seg.Duration
	}
	f.Duration = acc
	return f
}

// collectAdBreaks appends the markers of seg, which starts at offset on the flattened
// axis, and returns how many were kept.
func collectAdBreaks(seg Segment, offset time.Duration, markers *MarkerSet) int {
	kept := 0
	for _, sp := range seg.SubPeriods {
		for _, ab := range sp.AdBreaks {
			pos := ab.Position
			switch pos {
			case TimeUnset:
				continue
			case TimeEndOfSource:
				// postrolls in sub-periods of unknown length have nowhere to go
				if sp.Duration == TimeUnset {
					continue
				}
				pos = sp.Duration
			}
			inSegment := pos + sp.PositionInSegment
			if inSegment < 0 || inSegment > seg.Duration {
				continue
			}
			if markers != nil {
				markers.Append(offset+inSegment, ab.Played)
			}
			kept++
		}
	}
	return kept
}
