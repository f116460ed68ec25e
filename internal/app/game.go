// Package app hosts playback in an ebiten window: mpv draws the video into it, and the
// game loop feeds input to the overlay and runs its looper.
package app

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/depeter/couchosd/internal/config"
)

// panelShare is the part of the screen height covered by the expanded carousel.
const panelShare = 420.0 / 1080.0

// Game implements ebiten.Game around one playback session.
type Game struct {
	cfg    *config.Config
	log    *zap.Logger
	keys   []binding
	remote <-chan RemoteEvent

	// start creates and starts the session. It runs on the first Update, once the
	// window exists for mpv to embed into.
	start   func() (*Session, error)
	session *Session

	Width, Height int
}

// NewGame builds the host. remote may be nil.
func NewGame(cfg *config.Config, start func() (*Session, error), remote <-chan RemoteEvent, log *zap.Logger) (*Game, error) {
	keys, err := bindKeys(cfg.Keybinds)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Game{
		cfg:    cfg,
		log:    log,
		keys:   keys,
		remote: remote,
		start:  start,
		Width:  cfg.UI.Width,
		Height: cfg.UI.Height,
	}, nil
}

func (g *Game) Update() error {
	if g.session == nil {
		s, err := g.start()
		if err != nil {
			return err
		}
		g.session = s
	}
	s := g.session

	for _, a := range pressedActions(g.keys) {
		if a == ActionFullscreen {
			ebiten.SetFullscreen(!ebiten.IsFullscreen())
			continue
		}
		s.Handle(a)
	}
	g.drainRemote()
	g.handleMouse()

	s.Tick()
	if s.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) drainRemote() {
	for {
		select {
		case ev, ok := <-g.remote:
			if !ok {
				g.remote = nil
				return
			}
			if ev.Back {
				g.session.Handle(ActionBack)
			} else {
				g.session.HandleKey(ev.Key)
			}
		default:
			return
		}
	}
}

func (g *Game) handleMouse() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		_, y := ebiten.CursorPosition()
		g.session.Touch(float64(y) >= float64(g.Height)*(1-panelShare))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButton3) {
		g.session.Handle(ActionBack)
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.session.Scroll(dy)
	}
}

// Draw does nothing: mpv owns the window surface via --wid and renders the overlay on
// its OSD.
func (g *Game) Draw(screen *ebiten.Image) {}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width, g.Height
}
