package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const appName = "couchosd"

type Config struct {
	Server    ServerConfig   `toml:"server"`
	Subtitles SubtitleConfig `toml:"subtitles"`
	Playback  PlaybackConfig `toml:"playback"`
	Overlay   OverlayConfig  `toml:"overlay"`
	UI        UIConfig       `toml:"ui"`
	Keybinds  KeybindConfig  `toml:"keybinds"`
	Log       LogConfig      `toml:"log"`
}

type ServerConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Token    string `toml:"token"`
	UserID   string `toml:"user_id"`
}

type SubtitleConfig struct {
	Font         string  `toml:"font"`
	FontSize     int     `toml:"font_size"`
	Color        string  `toml:"color"`
	BorderColor  string  `toml:"border_color"`
	BorderSize   float64 `toml:"border_size"`
	ShadowOffset float64 `toml:"shadow_offset"`
	Position     int     `toml:"position"`
	Delay        float64 `toml:"delay"`
	ASSOverride  string  `toml:"ass_override"`
}

type PlaybackConfig struct {
	HWAccel       string `toml:"hwdec"`
	AudioLanguage string `toml:"audio_language"`
	SubLanguage   string `toml:"sub_language"`
	Volume        int    `toml:"volume"`
	// StartOverRights lets viewers seek before the start-over position of live streams.
	StartOverRights bool `toml:"start_over_rights"`
	// PreviewLimitSec, when positive, blocks seeking past that point of on-demand items.
	PreviewLimitSec int `toml:"preview_limit_sec"`
}

// OverlayConfig holds the on-screen controls' timing. All values are milliseconds.
type OverlayConfig struct {
	ShowTimeoutMs       int  `toml:"show_timeout_ms"`
	CarouselTimeoutMs   int  `toml:"carousel_timeout_ms"`
	RewindMs            int  `toml:"rewind_ms"`
	FastForwardMs       int  `toml:"fast_forward_ms"`
	MinUpdateIntervalMs int  `toml:"min_update_interval_ms"`
	FadeMs              int  `toml:"fade_ms"`
	CarouselFadeMs      int  `toml:"carousel_fade_ms"`
	CarouselSlideMs     int  `toml:"carousel_slide_ms"`
	MultiSegment        bool `toml:"multi_segment"`
	ShowRemaining       bool `toml:"show_remaining"`
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

func (o OverlayConfig) ShowTimeout() time.Duration { return ms(o.ShowTimeoutMs) }
func (o OverlayConfig) CarouselTimeout() time.Duration { return ms(o.CarouselTimeoutMs) }
func (o OverlayConfig) Rewind() time.Duration { return ms(o.RewindMs) }
func (o OverlayConfig) FastForward() time.Duration { return ms(o.FastForwardMs) }
func (o OverlayConfig) MinUpdateInterval() time.Duration { return ms(o.MinUpdateIntervalMs) }
func (o OverlayConfig) Fade() time.Duration { return ms(o.FadeMs) }
func (o OverlayConfig) CarouselFade() time.Duration { return ms(o.CarouselFadeMs) }
func (o OverlayConfig) CarouselSlide() time.Duration { return ms(o.CarouselSlideMs) }

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
}

type KeybindConfig struct {
	PlayPause    string `toml:"play_pause"`
	SeekForward  string `toml:"seek_forward"`
	SeekBackward string `toml:"seek_backward"`
	Next         string `toml:"next"`
	Previous     string `toml:"previous"`
	CarouselUp   string `toml:"carousel_up"`
	CarouselDown string `toml:"carousel_down"`
	StartOver    string `toml:"start_over"`
	Live         string `toml:"live"`
	Info         string `toml:"info"`
	Stop         string `toml:"stop"`
	Fullscreen   string `toml:"fullscreen"`
}

type LogConfig struct {
	Level string `toml:"level"`
	// File is the JSON log destination. Empty logs to stderr.
	File string `toml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{},
		Subtitles: SubtitleConfig{
			Font:         "Liberation Sans",
			FontSize:     48,
			Color:        "#FFFFFF",
			BorderColor:  "#000000",
			BorderSize:   3,
			ShadowOffset: 2,
			Position:     95,
			ASSOverride:  "force",
		},
		Playback: PlaybackConfig{
			HWAccel:       "auto-safe",
			AudioLanguage: "eng",
			SubLanguage:   "eng",
			Volume:        100,
		},
		Overlay: OverlayConfig{
			ShowTimeoutMs:       3000,
			CarouselTimeoutMs:   5000,
			RewindMs:            30000,
			FastForwardMs:       30000,
			MinUpdateIntervalMs: 200,
			FadeMs:              350,
			CarouselFadeMs:      75,
			CarouselSlideMs:     250,
			MultiSegment:        true,
			ShowRemaining:       true,
		},
		UI: UIConfig{
			Width:  1920,
			Height: 1080,
		},
		Keybinds: KeybindConfig{
			PlayPause:    "Space",
			SeekForward:  "Right",
			SeekBackward: "Left",
			Next:         "N",
			Previous:     "P",
			CarouselUp:   "Up",
			CarouselDown: "Down",
			StartOver:    "R",
			Live:         "L",
			Info:         "I",
			Stop:         "Q",
			Fullscreen:   "F",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, appName)
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config from the default location. A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads the config at path over the defaults. A missing file yields the
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the default location.
func (c *Config) Save() error {
	return c.SaveFile(ConfigPath())
}

func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
