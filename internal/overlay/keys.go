package overlay

// MediaKey is a transport key from a remote or keyboard.
type MediaKey int

const (
	KeyPlayPause MediaKey = iota + 1
	KeyPlay
	KeyPause
	KeyFastForward
	KeyRewind
	KeyNext
	KeyPrevious
)

// KeyEvent is a media key press or release. Repeat counts auto-repeats of a held key.
type KeyEvent struct {
	Key    MediaKey
	Down   bool
	Repeat int
}

func (k MediaKey) handled() bool {
	return k >= KeyPlayPause && k <= KeyPrevious
}

// DispatchMediaKeyEvent handles a media key and reports whether it was consumed. Fast
// forward and rewind act on every key-down including repeats; the others only on the
// first.
func (c *Controller) DispatchMediaKeyEvent(ev KeyEvent) bool {
	p := c.player
	if p == nil || !ev.Key.handled() {
		return false
	}
	if !ev.Down {
		return true
	}
	switch ev.Key {
	case KeyFastForward:
		c.arbiter.FastForward(p)
		return true
	case KeyRewind:
		c.arbiter.Rewind(p)
		return true
	}
	if ev.Repeat != 0 {
		return true
	}
	switch ev.Key {
	case KeyPlayPause:
		c.dispatcher.SetPlayWhenReady(p, !p.PlayWhenReady())
	case KeyPlay:
		c.dispatcher.SetPlayWhenReady(p, true)
	case KeyPause:
		c.dispatcher.SetPlayWhenReady(p, false)
	case KeyNext:
		c.next()
	case KeyPrevious:
		c.previous()
	}
	return true
}
