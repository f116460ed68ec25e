package app

import "github.com/depeter/couchosd/internal/overlay"

// Linux input event codes of remote control keys.
const (
	evKey = 0x01

	keyPause        = 119
	keyNextSong     = 163
	keyPlayPause    = 164
	keyPreviousSong = 165
	keyRewind       = 168
	keyBack         = 158
	keyPlay         = 207
	keyFastForward  = 208
)

var mediaKeys = map[uint16]overlay.MediaKey{
	keyPlayPause:    overlay.KeyPlayPause,
	keyPlay:         overlay.KeyPlay,
	keyPause:        overlay.KeyPause,
	keyFastForward:  overlay.KeyFastForward,
	keyRewind:       overlay.KeyRewind,
	keyNextSong:     overlay.KeyNext,
	keyPreviousSong: overlay.KeyPrevious,
}

// RemoteEvent is a key from a remote control: a media key, or Back.
type RemoteEvent struct {
	Key  overlay.KeyEvent
	Back bool
}

// remoteDecoder turns evdev key events into remote events, counting auto-repeats.
type remoteDecoder struct {
	repeats map[uint16]int
}

func newRemoteDecoder() *remoteDecoder {
	return &remoteDecoder{repeats: map[uint16]int{}}
}

// decode handles one event. value is 1 for press, 0 for release and 2 for repeat.
func (d *remoteDecoder) decode(typ, code uint16, value int32) (RemoteEvent, bool) {
	if typ != evKey {
		return RemoteEvent{}, false
	}
	if code == keyBack {
		return RemoteEvent{Back: true}, value == 1
	}
	key, ok := mediaKeys[code]
	if !ok {
		return RemoteEvent{}, false
	}
	switch value {
	case 0:
		delete(d.repeats, code)
		return RemoteEvent{Key: overlay.KeyEvent{Key: key}}, true
	case 1:
		d.repeats[code] = 0
		return RemoteEvent{Key: overlay.KeyEvent{Key: key, Down: true}}, true
	case 2:
		d.repeats[code]++
		return RemoteEvent{Key: overlay.KeyEvent{Key: key, Down: true, Repeat: d.repeats[code]}}, true
	}
	return RemoteEvent{}, false
}
