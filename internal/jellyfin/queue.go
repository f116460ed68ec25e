package jellyfin

import (
	"context"
	"slices"
)

// Queue is the list of items played one after another, e.g. the episodes of a season.
// It backs the overlay's next and previous controls.
type Queue struct {
	items []MediaItem
	index int
	play  func(MediaItem)
}

// NewQueue starts at the item with currentID, or the first one. play is called with the
// item to switch to.
func NewQueue(items []MediaItem, currentID string, play func(MediaItem)) *Queue {
	q := &Queue{items: items, play: play}
	if i := slices.IndexFunc(items, func(m MediaItem) bool { return m.ID == currentID }); i >= 0 {
		q.index = i
	}
	return q
}

// LoadQueue queues the season item belongs to. Anything but an episode is queued alone.
func (c *Client) LoadQueue(ctx context.Context, item MediaItem, play func(MediaItem)) (*Queue, error) {
	if item.SeriesID == "" || item.SeasonID == "" {
		return NewQueue([]MediaItem{item}, item.ID, play), nil
	}
	episodes, err := c.GetEpisodes(ctx, item.SeriesID, item.SeasonID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(episodes, func(m MediaItem) bool { return m.ID == item.ID }) {
		episodes = []MediaItem{item}
	}
	return NewQueue(episodes, item.ID, play), nil
}

func (q *Queue) Current() MediaItem {
	if len(q.items) == 0 {
		return MediaItem{}
	}
	return q.items[q.index]
}

func (q *Queue) Len() int { return len(q.items) }

// Items returns a copy of the queued items.
func (q *Queue) Items() []MediaItem { return slices.Clone(q.items) }

func (q *Queue) HasNext() bool     { return q.index+1 < len(q.items) }
func (q *Queue) HasPrevious() bool { return q.index > 0 }

func (q *Queue) Next() {
	if q.HasNext() {
		q.index++
		q.play(q.items[q.index])
	}
}

func (q *Queue) Previous() {
	if q.HasPrevious() {
		q.index--
		q.play(q.items[q.index])
	}
}
