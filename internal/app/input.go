package app

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/depeter/couchosd/internal/config"
)

// Action is something a key can be bound to.
type Action int

const (
	ActionPlayPause Action = iota + 1
	ActionSeekForward
	ActionSeekBackward
	ActionNext
	ActionPrevious
	ActionCarouselUp
	ActionCarouselDown
	ActionStartOver
	ActionLive
	ActionInfo
	ActionStop
	ActionFullscreen

	// fixed keys
	ActionSelect
	ActionSwitchPanel
	ActionBack
)

// keyMap maps config key names to ebiten keys.
var keyMap = map[string]ebiten.Key{
	"space":     ebiten.KeySpace,
	"enter":     ebiten.KeyEnter,
	"return":    ebiten.KeyEnter,
	"tab":       ebiten.KeyTab,
	"escape":    ebiten.KeyEscape,
	"backspace": ebiten.KeyBackspace,
	"left":      ebiten.KeyArrowLeft,
	"right":     ebiten.KeyArrowRight,
	"up":        ebiten.KeyArrowUp,
	"down":      ebiten.KeyArrowDown,
	"pageup":    ebiten.KeyPageUp,
	"pagedown":  ebiten.KeyPageDown,
	"home":      ebiten.KeyHome,
	"end":       ebiten.KeyEnd,
	"f11":       ebiten.KeyF11,
}

func init() {
	for c := 'a'; c <= 'z'; c++ {
		keyMap[string(c)] = ebiten.KeyA + ebiten.Key(c-'a')
	}
	for c := '0'; c <= '9'; c++ {
		keyMap[string(c)] = ebiten.KeyDigit0 + ebiten.Key(c-'0')
	}
}

// parseKey converts a config key name to an ebiten.Key.
func parseKey(name string) (ebiten.Key, bool) {
	k, ok := keyMap[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// binding ties a key to an action.
type binding struct {
	key    ebiten.Key
	action Action
}

// bindKeys resolves the configured keybinds. Empty entries are left unbound; unknown key
// names are an error.
func bindKeys(kb config.KeybindConfig) ([]binding, error) {
	named := []struct {
		name   string
		key    string
		action Action
	}{
		{"play_pause", kb.PlayPause, ActionPlayPause},
		{"seek_forward", kb.SeekForward, ActionSeekForward},
		{"seek_backward", kb.SeekBackward, ActionSeekBackward},
		{"next", kb.Next, ActionNext},
		{"previous", kb.Previous, ActionPrevious},
		{"carousel_up", kb.CarouselUp, ActionCarouselUp},
		{"carousel_down", kb.CarouselDown, ActionCarouselDown},
		{"start_over", kb.StartOver, ActionStartOver},
		{"live", kb.Live, ActionLive},
		{"info", kb.Info, ActionInfo},
		{"stop", kb.Stop, ActionStop},
		{"fullscreen", kb.Fullscreen, ActionFullscreen},
	}
	out := []binding{
		{ebiten.KeyEnter, ActionSelect},
		{ebiten.KeyTab, ActionSwitchPanel},
		{ebiten.KeyEscape, ActionBack},
		{ebiten.KeyBackspace, ActionBack},
	}
	for _, n := range named {
		if n.key == "" {
			continue
		}
		k, ok := parseKey(n.key)
		if !ok {
			return nil, fmt.Errorf("keybind %s: unknown key %q", n.name, n.key)
		}
		out = append(out, binding{k, n.action})
	}
	return out, nil
}

// pressedActions returns the actions whose keys were pressed this tick. Alt+Enter is
// kept for fullscreen.
func pressedActions(bindings []binding) []Action {
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
	var out []Action
	for _, b := range bindings {
		if !inpututil.IsKeyJustPressed(b.key) {
			continue
		}
		if b.key == ebiten.KeyEnter && alt {
			out = append(out, ActionFullscreen)
			continue
		}
		out = append(out, b.action)
	}
	return out
}
