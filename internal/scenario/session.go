package scenario

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/input"
	"github.com/1broseidon/stackwm/internal/manip"
	"github.com/1broseidon/stackwm/internal/stack"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Options configure a headless session.
type Options struct {
	// Params are the hit-region sizes used when the scenario sets none.
	Params   manip.Params
	Renderer compositor.Renderer
	Logger   *slog.Logger
}

// Session is a compositor populated from a scenario.
type Session struct {
	comp     *compositor.Compositor
	ids      map[string]wintree.NodeID
	names    map[wintree.NodeID]string
	surfaces map[string]*wintree.Surface

	dismissed []string
}

// NewSession creates the scenario's windows on a fresh compositor. Steps
// are not applied.
func NewSession(sc *Scenario, opts Options) (*Session, error) {
	params := opts.Params
	if sc.Params != nil {
		params = manip.Params{ResizeMargin: sc.Params.ResizeMargin, TitleBarHeight: sc.Params.TitleBarHeight}
	}
	s := &Session{
		comp: compositor.New(compositor.Config{
			Renderer: opts.Renderer,
			Screen:   sc.Screen,
			Params:   params,
			Logger:   opts.Logger,
		}),
		ids:      make(map[string]wintree.NodeID),
		names:    make(map[wintree.NodeID]string),
		surfaces: make(map[string]*wintree.Surface),
	}

	for _, spec := range sc.Windows {
		zone, err := stack.ParseZone(spec.Zone)
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", spec.Name, err)
		}
		parent := wintree.None
		if spec.Parent != "" {
			if parent, err = s.lookup(spec.Parent); err != nil {
				return nil, fmt.Errorf("window %q: %w", spec.Name, err)
			}
		}
		var win wintree.Window
		if !spec.Container {
			surf, err := s.surface(spec)
			if err != nil {
				return nil, err
			}
			win = surf
		}
		id := s.comp.AddWindow(win, parent, zone)
		s.ids[spec.Name] = id
		s.names[id] = spec.Name
	}
	return s, nil
}

func (s *Session) surface(spec WindowSpec) (*wintree.Surface, error) {
	flags, err := parseFlags(spec.Flags)
	if err != nil {
		return nil, fmt.Errorf("window %q: %w", spec.Name, err)
	}
	title := spec.Title
	if title == "" {
		title = spec.Name
	}
	surf := &wintree.Surface{
		Name:        title,
		Rect:        spec.Geometry,
		Margins:     spec.Margins,
		Min:         spec.Min,
		Max:         spec.Max,
		WindowFlags: flags,
		Blocked:     spec.Blocked,
	}
	name := spec.Name
	surf.OnDismiss = func() {
		s.dismissed = append(s.dismissed, name)
		if id, ok := s.ids[name]; ok && s.comp.Tree().Alive(id) {
			s.comp.Destroy(id)
		}
	}
	s.surfaces[spec.Name] = surf
	return surf, nil
}

// Compositor returns the session's compositor.
func (s *Session) Compositor() *compositor.Compositor { return s.comp }

// ID returns the node id of a declared window.
func (s *Session) ID(name string) (wintree.NodeID, bool) {
	id, ok := s.ids[name]
	return id, ok
}

func (s *Session) lookup(name string) (wintree.NodeID, error) {
	id, ok := s.ids[name]
	if !ok || !s.comp.Tree().Alive(id) {
		return wintree.None, fmt.Errorf("%w: %q", ErrUnknownWindow, name)
	}
	return id, nil
}

// Apply runs steps in order, stopping at the first failure.
func (s *Session) Apply(steps []Step) error {
	for i, st := range steps {
		if err := s.apply(st); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func (s *Session) apply(st Step) error {
	c := s.comp
	switch {
	case st.Pointer != nil:
		ev, err := pointerEvent(st.Pointer)
		if err != nil {
			return err
		}
		c.HandlePointer(ev)
	case st.Raise != "":
		id, err := s.lookup(st.Raise)
		if err != nil {
			return err
		}
		c.Raise(id)
	case st.Lower != "":
		id, err := s.lookup(st.Lower)
		if err != nil {
			return err
		}
		c.Lower(id)
	case st.Zone != nil:
		id, err := s.lookup(st.Zone.Window)
		if err != nil {
			return err
		}
		zone, err := stack.ParseZone(st.Zone.Zone)
		if err != nil {
			return err
		}
		c.SetZone(id, zone)
	case st.Activate != "":
		id, err := s.lookup(st.Activate)
		if err != nil {
			return err
		}
		c.Activate(id)
	case st.Focus != nil:
		id, err := s.lookup(st.Focus.Window)
		if err != nil {
			return err
		}
		c.FocusChanged(id, st.Focus.Focused)
	case st.Destroy != "":
		id, err := s.lookup(st.Destroy)
		if err != nil {
			return err
		}
		c.Destroy(id)
	case st.Reparent != nil:
		id, err := s.lookup(st.Reparent.Window)
		if err != nil {
			return err
		}
		parent := wintree.None
		if st.Reparent.Parent != "" {
			if parent, err = s.lookup(st.Reparent.Parent); err != nil {
				return err
			}
		}
		zone, err := stack.ParseZone(st.Reparent.Zone)
		if err != nil {
			return err
		}
		c.Reparent(id, parent, zone)
	case st.Composite:
		c.Composite()
	default:
		return ErrInvalidStep
	}
	return nil
}

func pointerEvent(p *PointerStep) (input.PointerEvent, error) {
	kind, err := input.ParseKind(p.Kind)
	if err != nil {
		return input.PointerEvent{}, err
	}
	var buttons input.Buttons
	for _, name := range p.Buttons {
		b, err := input.ParseButton(name)
		if err != nil {
			return input.PointerEvent{}, err
		}
		buttons |= b
	}
	id := p.ID
	if id == 0 {
		id = 1
	}
	return input.PointerEvent{
		PointerID: id,
		Kind:      kind,
		Point:     geom.Point{X: p.X, Y: p.Y},
		Buttons:   buttons,
	}, nil
}

func parseFlags(names []string) (wintree.Flags, error) {
	var f wintree.Flags
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "popup":
			f |= wintree.FlagPopup
		case "tool":
			f |= wintree.FlagTool
		case "no-activate", "no_activate":
			f |= wintree.FlagNoActivate
		default:
			return 0, fmt.Errorf("unknown window flag %q", name)
		}
	}
	return f, nil
}
