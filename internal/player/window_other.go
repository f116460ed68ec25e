//go:build !linux && !windows

package player

// FocusedWindow is unsupported here; mpv opens its own window instead.
func FocusedWindow() (int64, error) { return 0, ErrNoWindow }
