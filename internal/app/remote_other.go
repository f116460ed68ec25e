//go:build !linux

package app

import (
	"context"

	"go.uber.org/zap"
)

// WatchRemote is a no-op on non-Linux platforms.
func WatchRemote(ctx context.Context, log *zap.Logger) <-chan RemoteEvent {
	return make(chan RemoteEvent)
}
