package overlay

import (
	"fmt"
	"time"

	"github.com/depeter/couchosd/internal/timeline"
)

// FormatDuration renders d as m:ss or h:mm:ss. Unknown durations render as --:--.
func FormatDuration(d time.Duration) string {
	if d == timeline.TimeUnset {
		return "--:--"
	}
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
