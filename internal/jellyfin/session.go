package jellyfin

import (
	"context"
	"fmt"
	"time"

	jellyfin "github.com/sj14/jellyfin-go/api"
)

// ReportPlaybackStart notifies the server that playback has started.
func (c *Client) ReportPlaybackStart(ctx context.Context, itemID string, pos time.Duration) error {
	body := *jellyfin.NewPlaybackStartInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(Ticks(pos))
	body.SetCanSeek(true)
	body.SetPlayMethod(jellyfin.PLAYMETHOD_DIRECT_PLAY)

	resp, err := c.api.PlaystateAPI.ReportPlaybackStart(ctx).PlaybackStartInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback start: %w (status: %s)", err, respStatus(resp))
	}
	return nil
}

// ReportPlaybackProgress sends a progress update to the server.
func (c *Client) ReportPlaybackProgress(ctx context.Context, itemID string, pos time.Duration, paused bool) error {
	body := *jellyfin.NewPlaybackProgressInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(Ticks(pos))
	body.SetIsPaused(paused)
	body.SetCanSeek(true)
	body.SetPlayMethod(jellyfin.PLAYMETHOD_DIRECT_PLAY)

	resp, err := c.api.PlaystateAPI.ReportPlaybackProgress(ctx).PlaybackProgressInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report progress: %w (status: %s)", err, respStatus(resp))
	}
	return nil
}

// ReportPlaybackStopped notifies the server that playback has stopped.
func (c *Client) ReportPlaybackStopped(ctx context.Context, itemID string, pos time.Duration) error {
	body := *jellyfin.NewPlaybackStopInfo()
	body.SetItemId(itemID)
	body.SetPositionTicks(Ticks(pos))

	resp, err := c.api.PlaystateAPI.ReportPlaybackStopped(ctx).PlaybackStopInfo(body).Execute()
	if err != nil {
		return fmt.Errorf("report playback stopped: %w (status: %s)", err, respStatus(resp))
	}
	return nil
}
