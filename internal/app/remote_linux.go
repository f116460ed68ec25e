//go:build linux

package app

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"unsafe"

	"go.uber.org/zap"
)

// inputEventSize is the size of a Linux input_event struct (timeval + u16 + u16 + s32).
var inputEventSize = int(unsafe.Sizeof(struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}{}))

// WatchRemote reads remote keys from every readable /dev/input/event* device until ctx
// is done. Devices that cannot be opened are skipped.
func WatchRemote(ctx context.Context, log *zap.Logger) <-chan RemoteEvent {
	out := make(chan RemoteEvent, 16)
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil || len(matches) == 0 {
		return out
	}
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			log.Debug("input device skipped", zap.String("device", path), zap.Error(err))
			continue
		}
		go func() {
			<-ctx.Done()
			f.Close()
		}()
		go readRemote(f, out, log)
	}
	return out
}

func readRemote(f *os.File, out chan<- RemoteEvent, log *zap.Logger) {
	defer f.Close()
	device := filepath.Base(f.Name())
	dec := newRemoteDecoder()
	buf := make([]byte, inputEventSize)
	for {
		if _, err := f.Read(buf); err != nil {
			return
		}
		// type at offset 16, code at 18, value at 20
		typ := binary.LittleEndian.Uint16(buf[16:18])
		code := binary.LittleEndian.Uint16(buf[18:20])
		value := int32(binary.LittleEndian.Uint32(buf[20:24]))

		ev, ok := dec.decode(typ, code, value)
		if !ok {
			continue
		}
		select {
		case out <- ev:
		default:
			log.Debug("remote key dropped", zap.String("device", device), zap.Uint16("code", code))
		}
	}
}
