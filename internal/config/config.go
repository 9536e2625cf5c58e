package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/manip"
)

// Margins represents decoration extents around a client window.
type Margins struct {
	Top    int `yaml:"top" toml:"top"`
	Bottom int `yaml:"bottom" toml:"bottom"`
	Left   int `yaml:"left" toml:"left"`
	Right  int `yaml:"right" toml:"right"`
}

// Rect is a screen rectangle in configuration form.
type Rect struct {
	X      int `yaml:"x" toml:"x"`
	Y      int `yaml:"y" toml:"y"`
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// CompositorConfig tunes pointer hit regions and the composite tick.
type CompositorConfig struct {
	// ResizeMargin is the width in pixels of the resize band on each side
	// of a frame edge.
	ResizeMargin int `yaml:"resize_margin" toml:"resize_margin"`
	// TitleBarHeight is the height of the drag region at the top of a
	// decorated frame.
	TitleBarHeight int `yaml:"title_bar_height" toml:"title_bar_height"`
	// FrameIntervalMS is the composite tick period.
	FrameIntervalMS int `yaml:"frame_interval_ms" toml:"frame_interval_ms"`
	// Screen overrides the screen bounds reported by the display.
	Screen *Rect `yaml:"screen,omitempty" toml:"screen,omitempty"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level"`
	// Format is text or json.
	Format string `yaml:"format" toml:"format"`
}

type IPCConfig struct {
	// Socket overrides the default socket path.
	Socket string `yaml:"socket,omitempty" toml:"socket,omitempty"`
}

type X11Config struct {
	Display    string `yaml:"display,omitempty" toml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty" toml:"xauthority,omitempty"`
}

// HotkeysConfig maps stacking actions to X key sequences such as
// "Mod4-Up". An empty sequence leaves the action unbound.
type HotkeysConfig struct {
	Raise     string `yaml:"raise" toml:"raise"`
	Lower     string `yaml:"lower" toml:"lower"`
	Cycle     string `yaml:"cycle" toml:"cycle"`
	ToggleTop string `yaml:"toggle_top" toml:"toggle_top"`
}

// Config represents the stackwm configuration.
type Config struct {
	Compositor CompositorConfig `yaml:"compositor" toml:"compositor"`
	// Decoration is the frame margin given to adopted X11 windows.
	Decoration Margins       `yaml:"decoration" toml:"decoration"`
	Logging    LoggingConfig `yaml:"logging" toml:"logging"`
	IPC        IPCConfig     `yaml:"ipc" toml:"ipc"`
	X11        X11Config     `yaml:"x11" toml:"x11"`
	Hotkeys    HotkeysConfig `yaml:"hotkeys" toml:"hotkeys"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Compositor: CompositorConfig{
			ResizeMargin:    6,
			TitleBarHeight:  24,
			FrameIntervalMS: 16,
		},
		Decoration: Margins{Top: 24, Bottom: 2, Left: 2, Right: 2},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Hotkeys: HotkeysConfig{
			Raise:     "Mod4-Up",
			Lower:     "Mod4-Down",
			Cycle:     "Mod1-Tab",
			ToggleTop: "Mod4-t",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Compositor.ResizeMargin < 0 {
		return &ValidationError{Path: "compositor.resize_margin", Err: fmt.Errorf("resize_margin must be >= 0")}
	}
	if c.Compositor.TitleBarHeight < 0 {
		return &ValidationError{Path: "compositor.title_bar_height", Err: fmt.Errorf("title_bar_height must be >= 0")}
	}
	if c.Compositor.FrameIntervalMS <= 0 {
		return &ValidationError{Path: "compositor.frame_interval_ms", Err: fmt.Errorf("frame_interval_ms must be > 0")}
	}
	if s := c.Compositor.Screen; s != nil && (s.Width <= 0 || s.Height <= 0) {
		return &ValidationError{Path: "compositor.screen", Err: fmt.Errorf("screen width and height must be > 0")}
	}
	d := c.Decoration
	if d.Top < 0 || d.Bottom < 0 || d.Left < 0 || d.Right < 0 {
		return &ValidationError{Path: "decoration", Err: fmt.Errorf("decoration values must be >= 0")}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: text, json")}
	}
	seen := make(map[string]string)
	for _, hk := range []struct{ name, keys string }{
		{"raise", c.Hotkeys.Raise},
		{"lower", c.Hotkeys.Lower},
		{"cycle", c.Hotkeys.Cycle},
		{"toggle_top", c.Hotkeys.ToggleTop},
	} {
		keys := strings.TrimSpace(hk.keys)
		if keys == "" {
			continue
		}
		if other, ok := seen[keys]; ok {
			return &ValidationError{Path: "hotkeys." + hk.name, Err: fmt.Errorf("%q is already bound to %s", keys, other)}
		}
		seen[keys] = hk.name
	}
	return nil
}

// FrameInterval returns the composite tick as a duration.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Compositor.FrameIntervalMS) * time.Millisecond
}

// Params returns the pointer hit-region sizes.
func (c *Config) Params() manip.Params {
	return manip.Params{
		ResizeMargin:   c.Compositor.ResizeMargin,
		TitleBarHeight: c.Compositor.TitleBarHeight,
	}
}

// DecorationMargins returns the decoration margins in screen geometry form.
func (c *Config) DecorationMargins() geom.Margins {
	d := c.Decoration
	return geom.Margins{Top: d.Top, Bottom: d.Bottom, Left: d.Left, Right: d.Right}
}

// ScreenOverride returns the configured screen bounds, if any.
func (c *Config) ScreenOverride() (geom.Rect, bool) {
	s := c.Compositor.Screen
	if s == nil {
		return geom.Rect{}, false
	}
	return geom.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}, true
}

// SlogLevel maps logging.level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Save writes the configuration as YAML to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
