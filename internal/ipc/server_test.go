package ipc

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/stack"
	"github.com/1broseidon/stackwm/internal/wintree"
)

type session struct {
	client *Client
	ids    map[string]wintree.NodeID
}

func startSession(t *testing.T) *session {
	t.Helper()

	comp := compositor.New(compositor.Config{})
	ids := make(map[string]wintree.NodeID)
	for i, name := range []string{"editor", "browser", "panel"} {
		zone := stack.ZoneRegular
		if name == "panel" {
			zone = stack.ZoneTop
		}
		s := &wintree.Surface{Name: name, Rect: geom.Rect{X: i * 50, Y: i * 50, Width: 100, Height: 100}}
		ids[name] = comp.AddWindow(s, wintree.None, zone)
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := compositor.NewLoop(comp, compositor.LoopConfig{FrameInterval: 5 * time.Millisecond})
	done := make(chan struct{})
	go func() {
		defer close(done)
		loop.Run(ctx)
	}()

	socket := filepath.Join(t.TempDir(), "stackwm.sock")
	srv, err := NewServer(ServerConfig{SocketPath: socket, Executor: loop})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		srv.Stop()
		cancel()
		<-done
	})

	return &session{client: NewClient(socket), ids: ids}
}

func TestListWindowsTopToBottom(t *testing.T) {
	s := startSession(t)

	windows, err := s.client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	var titles []string
	for _, w := range windows {
		titles = append(titles, w.Title)
	}
	want := []string{"panel", "browser", "editor"}
	if len(titles) != len(want) {
		t.Fatalf("titles = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("titles = %v, want %v", titles, want)
		}
	}
}

func TestRaiseLowerAndZone(t *testing.T) {
	s := startSession(t)
	editor := uint32(s.ids["editor"])

	info, err := s.client.Raise(editor)
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}
	if info.Paint != 2 {
		t.Fatalf("paint after raise = %d, want 2 (below the top-zone panel)", info.Paint)
	}

	info, err = s.client.SetZone(editor, "top")
	if err != nil {
		t.Fatalf("SetZone: %v", err)
	}
	if info.Zone != "top" {
		t.Fatalf("zone = %q, want top", info.Zone)
	}

	info, err = s.client.Lower(editor)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if info.Zone != "top" || info.Paint != 2 {
		t.Fatalf("after lower = %+v, want bottom of top zone", info)
	}
}

func TestActivateAndStatus(t *testing.T) {
	s := startSession(t)
	editor := uint32(s.ids["editor"])

	info, err := s.client.Activate(editor)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !info.Active {
		t.Fatalf("window not active after Activate")
	}

	status, err := s.client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.Running || status.Windows != 3 {
		t.Fatalf("status = %+v", status)
	}
	if uint32(status.Focused) != editor {
		t.Fatalf("focused = %d, want %d", status.Focused, editor)
	}
	if status.ID == "" {
		t.Fatalf("status has no compositor id")
	}
}

func TestErrors(t *testing.T) {
	s := startSession(t)

	if _, err := s.client.Raise(999); !errors.Is(err, ErrUnknownWindow) {
		t.Fatalf("Raise(999) error = %v, want ErrUnknownWindow", err)
	}
	if _, err := s.client.SetZone(uint32(s.ids["editor"]), "sideways"); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("SetZone(sideways) error = %v, want ErrBadRequest", err)
	}
	if _, err := s.client.sendRequest(&Request{Command: "EXPLODE"}); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("unknown command error = %v, want ErrBadRequest", err)
	}
}

func TestClientWithoutServer(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	if err := c.Ping(); err == nil {
		t.Fatalf("expected connection error")
	}
}
