// Package mcp exposes window stacking controls as MCP tools. Every tool is
// a thin call into a running session's IPC socket.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/ipc"
)

const (
	ServerName    = "stackwm"
	ServerVersion = "0.1.0"
)

// Controller is the subset of ipc.Client the tools need.
type Controller interface {
	ListWindows() ([]compositor.WindowInfo, error)
	Raise(id uint32) (*compositor.WindowInfo, error)
	Lower(id uint32) (*compositor.WindowInfo, error)
	SetZone(id uint32, zone string) (*compositor.WindowInfo, error)
	Activate(id uint32) (*compositor.WindowInfo, error)
}

var _ Controller = (*ipc.Client)(nil)

// Server is the MCP server for stackwm.
type Server struct {
	mcpServer *mcpsdk.Server
	ctl       Controller
	logger    *slog.Logger
}

// NewServer creates a new MCP server that drives ctl.
func NewServer(ctl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		ctl:    ctl,
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List managed windows from top to bottom with their geometry, stacking zone, paint index and activation state.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "raise_window",
		Description: "Bring a window to the top of its stacking zone. Parent groups are raised too.",
	}, s.handleRaiseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "lower_window",
		Description: "Send a window to the bottom of its stacking zone. Parent groups are lowered too.",
	}, s.handleLowerWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_window_zone",
		Description: "Move a window into the bottom, regular or top stacking zone. Windows in the top zone always stay above regular ones.",
	}, s.handleSetWindowZone)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Activate a window and make it the focused window of its parents.",
	}, s.handleActivateWindow)
}
