package scenario

import (
	"github.com/1broseidon/stackwm/internal/geom"
)

// WindowState is one window in a Snapshot.
type WindowState struct {
	Name     string    `json:"name" yaml:"name"`
	ID       uint32    `json:"id" yaml:"id"`
	Parent   string    `json:"parent,omitempty" yaml:"parent,omitempty"`
	Title    string    `json:"title" yaml:"title"`
	Geometry geom.Rect `json:"geometry" yaml:"geometry"`
	Zone     string    `json:"zone" yaml:"zone"`
	Paint    int       `json:"paint" yaml:"paint"`
	Active   bool      `json:"active" yaml:"active"`
	Events   []string  `json:"events,omitempty" yaml:"events,omitempty"`
}

// Snapshot is the observable state of a session.
type Snapshot struct {
	// Windows are listed top to bottom in hit-test order.
	Windows   []WindowState `json:"windows" yaml:"windows"`
	Focused   string        `json:"focused,omitempty" yaml:"focused,omitempty"`
	Gesture   string        `json:"gesture" yaml:"gesture"`
	Draws     int           `json:"draws" yaml:"draws"`
	Dismissed []string      `json:"dismissed,omitempty" yaml:"dismissed,omitempty"`
}

// Names returns the window names in snapshot order.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.Windows))
	for i, w := range s.Windows {
		names[i] = w.Name
	}
	return names
}

// Window returns the state of the named window.
func (s *Snapshot) Window(name string) (WindowState, bool) {
	for _, w := range s.Windows {
		if w.Name == name {
			return w, true
		}
	}
	return WindowState{}, false
}

// Snapshot captures the current state of the session.
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		Gesture:   s.comp.Phase().String(),
		Draws:     s.comp.Draws(),
		Dismissed: append([]string(nil), s.dismissed...),
	}
	if focused := s.comp.Tree().Focused(s.comp.Root()); focused != 0 {
		snap.Focused = s.names[focused]
	}
	for _, info := range s.comp.Windows() {
		name := s.names[info.ID]
		ws := WindowState{
			Name:     name,
			ID:       uint32(info.ID),
			Parent:   s.names[info.Parent],
			Title:    info.Title,
			Geometry: info.Geometry,
			Zone:     info.Zone,
			Paint:    info.Paint,
			Active:   info.Active,
		}
		if surf, ok := s.surfaces[name]; ok {
			for _, ev := range surf.Events {
				ws.Events = append(ws.Events, ev.String())
			}
		}
		snap.Windows = append(snap.Windows, ws)
	}
	return snap
}

// Run builds a session from sc, applies every step and returns the final
// snapshot.
func Run(sc *Scenario, opts Options) (*Snapshot, error) {
	s, err := NewSession(sc, opts)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(sc.Steps); err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}
