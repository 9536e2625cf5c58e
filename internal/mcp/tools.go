package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/stack"
)

func summarize(info compositor.WindowInfo) WindowSummary {
	return WindowSummary{
		ID:       uint32(info.ID),
		Parent:   uint32(info.Parent),
		Title:    info.Title,
		Geometry: info.Geometry,
		Zone:     info.Zone,
		Paint:    info.Paint,
		Active:   info.Active,
	}
}

// toolError rewrites IPC errors into messages an agent can act on.
func toolError(tool string, id uint32, err error) error {
	if errors.Is(err, ipc.ErrUnknownWindow) {
		return fmt.Errorf("%s: no window with id %d; call list_windows for valid ids", tool, id)
	}
	return fmt.Errorf("%s: %w", tool, err)
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	var filter string
	if args.Zone != "" {
		zone, err := stack.ParseZone(args.Zone)
		if err != nil {
			return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
		}
		filter = zone.String()
	}

	windows, err := s.ctl.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}
	out := ListWindowsOutput{Windows: make([]WindowSummary, 0, len(windows))}
	for _, w := range windows {
		if filter != "" && w.Zone != filter {
			continue
		}
		out.Windows = append(out.Windows, summarize(w))
	}
	s.logger.Debug("mcp list_windows", "count", len(out.Windows))
	return nil, out, nil
}

func (s *Server) windowTool(tool string, id uint32, op func(uint32) (*compositor.WindowInfo, error)) (*mcpsdk.CallToolResult, WindowOutput, error) {
	info, err := op(id)
	if err != nil {
		return nil, WindowOutput{}, toolError(tool, id, err)
	}
	s.logger.Debug("mcp "+tool, "id", id)
	return nil, WindowOutput{Window: summarize(*info)}, nil
}

func (s *Server) handleRaiseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("raise_window", args.ID, s.ctl.Raise)
}

func (s *Server) handleLowerWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("lower_window", args.ID, s.ctl.Lower)
}

func (s *Server) handleActivateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("activate_window", args.ID, s.ctl.Activate)
}

func (s *Server) handleSetWindowZone(_ context.Context, _ *mcpsdk.CallToolRequest, args SetZoneInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if _, err := stack.ParseZone(args.Zone); err != nil || args.Zone == "" {
		return nil, WindowOutput{}, fmt.Errorf("set_window_zone: zone must be one of: bottom, regular, top")
	}
	return s.windowTool("set_window_zone", args.ID, func(id uint32) (*compositor.WindowInfo, error) {
		return s.ctl.SetZone(id, args.Zone)
	})
}
