package jellyfin

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"
	jellyfin "github.com/sj14/jellyfin-go/api"
)

// MediaItem is the part of a Jellyfin item the player needs.
type MediaItem struct {
	ID                string
	Name              string
	Type              string // Movie, Episode, TvChannel, etc.
	Runtime           time.Duration
	SeriesID          string
	SeriesName        string
	SeasonID          string
	IndexNumber       int
	ParentIndexNumber int
	Resume            time.Duration
	Chapters          []time.Duration
}

// Live reports whether the item is a live channel or recording in progress.
func (m MediaItem) Live() bool {
	return m.Type == string(jellyfin.BASEITEMKIND_TV_CHANNEL) || m.Type == string(jellyfin.BASEITEMKIND_LIVE_TV_CHANNEL)
}

// Title is the name shown for the item, with its episode number when it has one.
func (m MediaItem) Title() string {
	if m.SeriesName != "" && m.IndexNumber > 0 {
		return fmt.Sprintf("%s S%02dE%02d - %s", m.SeriesName, m.ParentIndexNumber, m.IndexNumber, m.Name)
	}
	return m.Name
}

var itemFields = []jellyfin.ItemFields{jellyfin.ITEMFIELDS_CHAPTERS}

// GetItem returns a single item by ID, with its chapters.
func (c *Client) GetItem(ctx context.Context, itemID string) (*MediaItem, error) {
	result, resp, err := c.api.ItemsAPI.GetItems(ctx).
		UserId(c.userID).
		Ids([]string{itemID}).
		Fields(itemFields).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get item: %w (status: %s)", err, respStatus(resp))
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("get item %s: %w", itemID, ErrNotFound)
	}
	item := convertBaseItemDto(&result.Items[0])
	return &item, nil
}

// GetChapterMarkers returns the chapter start times of an item, in order.
func (c *Client) GetChapterMarkers(ctx context.Context, itemID string) ([]time.Duration, error) {
	item, err := c.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return item.Chapters, nil
}

// GetEpisodes returns the episodes of a season, in airing order.
func (c *Client) GetEpisodes(ctx context.Context, seriesID, seasonID string) ([]MediaItem, error) {
	result, resp, err := c.api.TvShowsAPI.GetEpisodes(ctx, seriesID).
		UserId(c.userID).
		SeasonId(seasonID).
		Fields(itemFields).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("get episodes: %w (status: %s)", err, respStatus(resp))
	}
	return convertItems(result.Items), nil
}

func convertItems(items []jellyfin.BaseItemDto) []MediaItem {
	return lo.Map(items, func(item jellyfin.BaseItemDto, _ int) MediaItem {
		return convertBaseItemDto(&item)
	})
}

func convertBaseItemDto(item *jellyfin.BaseItemDto) MediaItem {
	mi := MediaItem{
		ID:                item.GetId(),
		Name:              item.GetName(),
		Runtime:           FromTicks(item.GetRunTimeTicks()),
		SeriesID:          item.GetSeriesId(),
		SeriesName:        item.GetSeriesName(),
		SeasonID:          item.GetSeasonId(),
		IndexNumber:       int(item.GetIndexNumber()),
		ParentIndexNumber: int(item.GetParentIndexNumber()),
	}
	if item.Type != nil {
		mi.Type = string(*item.Type)
	}
	if item.UserData.IsSet() {
		if ud := item.UserData.Get(); ud != nil {
			mi.Resume = FromTicks(ud.GetPlaybackPositionTicks())
		}
	}
	for _, ch := range item.Chapters {
		mi.Chapters = append(mi.Chapters, FromTicks(ch.GetStartPositionTicks()))
	}
	slices.Sort(mi.Chapters)
	return mi
}
