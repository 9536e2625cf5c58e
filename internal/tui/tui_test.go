package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/wintree"
)

type fakeClient struct {
	windows []compositor.WindowInfo
	calls   []string
	err     error
}

func (f *fakeClient) ListWindows() ([]compositor.WindowInfo, error) {
	return f.windows, f.err
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{Status: compositor.Status{Windows: len(f.windows), Gesture: "idle"}, Running: true}, nil
}

func (f *fakeClient) record(verb string, id uint32) (*compositor.WindowInfo, error) {
	f.calls = append(f.calls, verb)
	for _, w := range f.windows {
		if uint32(w.ID) == id {
			return &w, nil
		}
	}
	return nil, errors.New("unknown window")
}

func (f *fakeClient) Raise(id uint32) (*compositor.WindowInfo, error)    { return f.record("raise", id) }
func (f *fakeClient) Lower(id uint32) (*compositor.WindowInfo, error)    { return f.record("lower", id) }
func (f *fakeClient) Activate(id uint32) (*compositor.WindowInfo, error) { return f.record("activate", id) }
func (f *fakeClient) SetZone(id uint32, zone string) (*compositor.WindowInfo, error) {
	return f.record("zone:"+zone, id)
}

func testWindows() []compositor.WindowInfo {
	return []compositor.WindowInfo{
		{ID: 2, Title: "term", Zone: "top", Paint: 2, Depth: 1, Frame: geom.Rect{X: 50, Y: 50, Width: 50, Height: 50}},
		{ID: 1, Title: "editor", Zone: "regular", Paint: 1, Depth: 1, Active: true, Frame: geom.Rect{Width: 100, Height: 100}},
	}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, client *fakeClient) model {
	t.Helper()
	m := newModel(client, time.Second)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	next, _ = next.Update(fetch(client)())
	return next.(model)
}

func TestKeysDriveClient(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"r", "raise"},
		{"l", "lower"},
		{"a", "activate"},
		{"t", "zone:regular"},
		{"b", "zone:bottom"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			client := &fakeClient{windows: testWindows()}
			m := loaded(t, client)
			_, cmd := m.Update(key(tt.key))
			if cmd == nil {
				t.Fatalf("key %q produced no command", tt.key)
			}
			msg, ok := cmd().(actionMsg)
			if !ok {
				t.Fatalf("command returned %T, want actionMsg", msg)
			}
			if msg.err != nil {
				t.Fatalf("action error: %v", msg.err)
			}
			if len(client.calls) != 1 || client.calls[0] != tt.want {
				t.Fatalf("calls = %v, want [%s]", client.calls, tt.want)
			}
		})
	}
}

func TestSelectionSurvivesRefresh(t *testing.T) {
	client := &fakeClient{windows: testWindows()}
	m := loaded(t, client)
	m.list.Select(1)

	client.windows = []compositor.WindowInfo{client.windows[1], client.windows[0]}
	next, _ := m.Update(fetch(client)())
	got, ok := next.(model).selected()
	if !ok || got.ID != 1 {
		t.Fatalf("selected = %d, %v; want 1", got.ID, ok)
	}
}

func TestDisconnectedStatus(t *testing.T) {
	client := &fakeClient{err: errors.New("no compositor running")}
	m := loaded(t, client)
	if m.connected {
		t.Fatalf("expected disconnected model")
	}
	if view := m.View(); !strings.Contains(view, "no compositor running") {
		t.Fatalf("view does not show error:\n%s", view)
	}
	if _, cmd := m.Update(key("r")); cmd != nil {
		t.Fatalf("raise without a selection should be a no-op")
	}
}

func TestActionMessageSetsStatus(t *testing.T) {
	client := &fakeClient{windows: testWindows()}
	m := loaded(t, client)
	info := client.windows[0]
	next, _ := m.Update(actionMsg{verb: "raised", info: &info})
	if got := next.(model).statusText; got != "raised 2" {
		t.Fatalf("statusText = %q", got)
	}
}

func TestStackMapPaintsTopWindowLast(t *testing.T) {
	screen := geom.Rect{Width: 100, Height: 100}
	lines := renderStackMap(testWindows(), screen, wintree.None, 12, 12)
	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12", len(lines))
	}
	canvas := make([][]rune, len(lines))
	for i, l := range lines {
		canvas[i] = []rune(l)
		if len(canvas[i]) != 12 {
			t.Fatalf("line %d has %d cells, want 12", i, len(canvas[i]))
		}
	}
	checks := []struct {
		x, y int
		want rune
	}{
		{0, 0, '╔'},
		{1, 1, '┌'},
		{6, 6, '┌'},
		{10, 10, '┘'},
		{5, 5, '1'},
		{8, 8, '2'},
	}
	for _, c := range checks {
		if got := canvas[c.y][c.x]; got != c.want {
			t.Errorf("cell (%d,%d) = %q, want %q", c.x, c.y, got, c.want)
		}
	}

	lines = renderStackMap(testWindows(), screen, 2, 12, 12)
	if got := []rune(lines[6])[6]; got != '┏' {
		t.Fatalf("selected corner = %q, want heavy", got)
	}
}

func TestStackMapWithoutScreen(t *testing.T) {
	lines := renderStackMap(testWindows(), geom.Rect{}, wintree.None, 12, 12)
	if got := []rune(lines[1])[1]; got != '┌' {
		t.Fatalf("bounding box corner = %q", got)
	}
	if lines := renderStackMap(nil, geom.Rect{}, wintree.None, 3, 2); len(lines) != 2 {
		t.Fatalf("tiny canvas lines = %d", len(lines))
	}
}
