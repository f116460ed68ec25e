package player

import "errors"

// ErrNoWindow is returned when no native window can host the video.
var ErrNoWindow = errors.New("no native window to embed into")
