package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at a dotted config path and the
// source that set it.
//
// Supported paths:
//
//	compositor.resize_margin
//	compositor.title_bar_height
//	compositor.frame_interval_ms
//	compositor.screen
//	decoration.<top|bottom|left|right>
//	logging.level
//	logging.format
//	ipc.socket
//	x11.display
//	x11.xauthority
//	hotkeys.<raise|lower|cycle|toggle_top>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	section, key, _ := strings.Cut(path, ".")
	switch section {
	case "compositor":
		switch key {
		case "resize_margin":
			return cfg.Compositor.ResizeMargin, nil
		case "title_bar_height":
			return cfg.Compositor.TitleBarHeight, nil
		case "frame_interval_ms":
			return cfg.Compositor.FrameIntervalMS, nil
		case "screen":
			if cfg.Compositor.Screen == nil {
				return nil, nil
			}
			return *cfg.Compositor.Screen, nil
		}
	case "decoration":
		switch key {
		case "top":
			return cfg.Decoration.Top, nil
		case "bottom":
			return cfg.Decoration.Bottom, nil
		case "left":
			return cfg.Decoration.Left, nil
		case "right":
			return cfg.Decoration.Right, nil
		case "":
			return cfg.Decoration, nil
		}
	case "logging":
		switch key {
		case "level":
			return cfg.Logging.Level, nil
		case "format":
			return cfg.Logging.Format, nil
		}
	case "ipc":
		if key == "socket" {
			return cfg.IPC.Socket, nil
		}
	case "x11":
		switch key {
		case "display":
			return cfg.X11.Display, nil
		case "xauthority":
			return cfg.X11.XAuthority, nil
		}
	case "hotkeys":
		switch key {
		case "raise":
			return cfg.Hotkeys.Raise, nil
		case "lower":
			return cfg.Hotkeys.Lower, nil
		case "cycle":
			return cfg.Hotkeys.Cycle, nil
		case "toggle_top":
			return cfg.Hotkeys.ToggleTop, nil
		}
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}
