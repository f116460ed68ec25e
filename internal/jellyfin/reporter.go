package jellyfin

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/playback"
)

// ProgressInterval is the least time between two progress reports.
const ProgressInterval = 10 * time.Second

// Session receives playback reports. *Client is one.
type Session interface {
	ReportPlaybackStart(ctx context.Context, itemID string, pos time.Duration) error
	ReportPlaybackProgress(ctx context.Context, itemID string, pos time.Duration, paused bool) error
	ReportPlaybackStopped(ctx context.Context, itemID string, pos time.Duration) error
}

type reportKind int

const (
	reportStart reportKind = iota
	reportProgress
	reportStop
)

type report struct {
	kind   reportKind
	itemID string
	pos    time.Duration
	paused bool
}

// Reporter tells the server what is playing. It listens to the overlay's progress
// updates and the player's state, and sends from its own goroutine (see Run) so the
// looper never waits on the network.
//
// Start, Stop and the listener methods must be called from the looper.
type Reporter struct {
	session Session
	clock   clockwork.Clock
	log     *zap.Logger
	reports chan report

	mu     sync.Mutex
	closed bool

	itemID   string
	position time.Duration
	paused   bool
	lastSent time.Time
}

func NewReporter(session Session, clock clockwork.Clock, log *zap.Logger) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reporter{
		session: session,
		clock:   clock,
		log:     log,
		reports: make(chan report, 16),
	}
}

// Start reports a new item, stopping the previous one first.
func (r *Reporter) Start(itemID string, pos time.Duration) {
	if r.itemID != "" {
		r.Stop()
	}
	r.itemID = itemID
	r.position = pos
	r.lastSent = r.clock.Now()
	r.enqueue(report{kind: reportStart, itemID: itemID, pos: pos})
}

// Stop reports the current item stopped at its last known position.
func (r *Reporter) Stop() {
	if r.itemID == "" {
		return
	}
	r.enqueue(report{kind: reportStop, itemID: r.itemID, pos: r.position})
	r.itemID = ""
}

// StopAt reports the current item stopped at pos.
func (r *Reporter) StopAt(pos time.Duration) {
	if r.itemID == "" {
		return
	}
	r.position = pos
	r.Stop()
}

// Position is the last position seen for the current item.
func (r *Reporter) Position() time.Duration { return r.position }

func (r *Reporter) OnProgressUpdate(position, _ time.Duration) {
	r.position = position
	if r.itemID == "" || r.clock.Since(r.lastSent) < ProgressInterval {
		return
	}
	r.progress()
}

func (r *Reporter) OnStateChanged(playWhenReady bool, _ playback.State) {
	if paused := !playWhenReady; paused != r.paused {
		r.paused = paused
		if r.itemID != "" {
			r.progress()
		}
	}
}

func (r *Reporter) OnTimelineChanged()       {}
func (r *Reporter) OnPositionDiscontinuity() {}

func (r *Reporter) progress() {
	r.lastSent = r.clock.Now()
	r.enqueue(report{kind: reportProgress, itemID: r.itemID, pos: r.position, paused: r.paused})
}

func (r *Reporter) enqueue(rep report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.reports <- rep:
	default:
		r.log.Warn("playback report dropped", zap.String("item", rep.itemID), zap.Int("kind", int(rep.kind)))
	}
}

// Close stops accepting reports. Run returns once the queued ones are sent.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.closed = true
		close(r.reports)
	}
}

// Run sends queued reports until Close or ctx is done.
func (r *Reporter) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case rep, ok := <-r.reports:
			if !ok {
				return nil
			}
			r.send(ctx, rep)
		}
	}
}

func (r *Reporter) send(ctx context.Context, rep report) {
	var err error
	switch rep.kind {
	case reportStart:
		err = r.session.ReportPlaybackStart(ctx, rep.itemID, rep.pos)
	case reportProgress:
		err = r.session.ReportPlaybackProgress(ctx, rep.itemID, rep.pos, rep.paused)
	case reportStop:
		err = r.session.ReportPlaybackStopped(ctx, rep.itemID, rep.pos)
	}
	if err != nil {
		r.log.Warn("playback report failed", zap.String("item", rep.itemID), zap.Error(err))
	}
}

var _ playback.Listener = (*Reporter)(nil)
