package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/config"
)

// Executor runs fn on the compositor's loop.
type Executor interface {
	Do(ctx context.Context, fn func(c *compositor.Compositor) error) error
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	exec   Executor
	logger *slog.Logger
}

var initOnce sync.Once

// NewHandler creates a hotkey handler that grabs keys on root.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, exec Executor, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	initOnce.Do(func() {
		keybind.Initialize(xu)
		configureIgnoreMods(xu)
	})
	return &Handler{xu: xu, root: root, exec: exec, logger: logger}
}

// Bindings returns the configured sequences keyed by action. Unbound
// actions are left out.
func Bindings(cfg config.HotkeysConfig) map[Action]string {
	out := make(map[Action]string, 4)
	for a, keys := range map[Action]string{
		ActionRaise:     cfg.Raise,
		ActionLower:     cfg.Lower,
		ActionCycle:     cfg.Cycle,
		ActionToggleTop: cfg.ToggleTop,
	} {
		if keys = strings.TrimSpace(keys); keys != "" {
			out[a] = keys
		}
	}
	return out
}

// RegisterAll binds every action in bindings. It stops at the first
// sequence the server refuses.
func (h *Handler) RegisterAll(bindings map[Action]string) error {
	for a, keys := range bindings {
		if err := h.Register(keys, a); err != nil {
			return err
		}
	}
	return nil
}

// Register binds keySequence to a.
func (h *Handler) Register(keySequence string, a Action) error {
	err := h.RegisterFunc(keySequence, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err := h.exec.Do(ctx, func(c *compositor.Compositor) error {
			_, err := Apply(c, a)
			return err
		})
		if err != nil {
			h.logger.Warn("hotkey action failed", "action", string(a), "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to bind %s to %q: %w", a, keySequence, err)
	}
	h.logger.Debug("hotkey bound", "action", string(a), "keys", keySequence)
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	xevent.IgnoreMods = ignoreMasks(base)
}

// ignoreMasks returns every combination of the base masks, including 0.
func ignoreMasks(base []uint16) []uint16 {
	out := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
