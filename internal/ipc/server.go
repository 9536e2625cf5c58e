package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/stack"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Executor runs fn with exclusive access to a compositor. compositor.Loop
// implements it.
type Executor interface {
	Do(ctx context.Context, fn func(c *compositor.Compositor) error) error
}

var _ Executor = (*compositor.Loop)(nil)

// ServerConfig holds configuration for a Server.
type ServerConfig struct {
	SocketPath string
	Executor   Executor
	// Timeout bounds each request, including the wait for the loop.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	exec         Executor
	timeout      time.Duration
	logger       *slog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.SocketPath == "" {
		return nil, fmt.Errorf("socket path is required")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Remove existing socket if present
	os.Remove(cfg.SocketPath)

	return &Server{
		socketPath: cfg.SocketPath,
		exec:       cfg.Executor,
		timeout:    timeout,
		logger:     logger,
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			stopping := s.shuttingDown
			s.shutdownMu.Unlock()
			if stopping || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "error", err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}
}

// handleConnection reads one newline-terminated request and writes one
// response.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "error", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.writeResponse(conn, badRequest(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.writeResponse(conn, s.handleCommand(ctx, req))
}

func (s *Server) writeResponse(conn net.Conn, resp *Response) {
	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "error", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	s.logger.Debug("IPC command", "command", req.Command)
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandListWindows:
		return s.handleListWindows(ctx)
	case CommandRaise:
		return s.handleWindowCommand(ctx, req.Payload, (*compositor.Compositor).Raise)
	case CommandLower:
		return s.handleWindowCommand(ctx, req.Payload, (*compositor.Compositor).Lower)
	case CommandActivate:
		return s.handleWindowCommand(ctx, req.Payload, (*compositor.Compositor).Activate)
	case CommandSetZone:
		return s.handleSetZone(ctx, req.Payload)
	default:
		return badRequest(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	var status StatusData
	err := s.exec.Do(ctx, func(c *compositor.Compositor) error {
		status.Status = c.Status()
		return nil
	})
	if err != nil {
		return errorResponse(err)
	}
	status.UptimeSeconds = int64(time.Since(s.startTime).Seconds())
	status.Running = true

	resp, _ := NewOKResponse(status)
	return resp
}

func (s *Server) handleListWindows(ctx context.Context) *Response {
	var data WindowsData
	err := s.exec.Do(ctx, func(c *compositor.Compositor) error {
		data.Windows = c.Windows()
		return nil
	})
	if err != nil {
		return errorResponse(err)
	}
	if data.Windows == nil {
		data.Windows = []compositor.WindowInfo{}
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func (s *Server) handleWindowCommand(ctx context.Context, payload json.RawMessage, op func(*compositor.Compositor, wintree.NodeID)) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return badRequest(fmt.Sprintf("Invalid window payload: %v", err))
	}
	return s.applyToWindow(ctx, req.ID, func(c *compositor.Compositor, id wintree.NodeID) {
		op(c, id)
	})
}

func (s *Server) handleSetZone(ctx context.Context, payload json.RawMessage) *Response {
	var req ZonePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return badRequest(fmt.Sprintf("Invalid zone payload: %v", err))
	}
	zone, err := stack.ParseZone(req.Zone)
	if err != nil {
		return badRequest(err.Error())
	}
	return s.applyToWindow(ctx, req.ID, func(c *compositor.Compositor, id wintree.NodeID) {
		c.SetZone(id, zone)
	})
}

// applyToWindow runs op on the loop if id names a managed window and
// returns the window state afterwards.
func (s *Server) applyToWindow(ctx context.Context, raw uint32, op func(*compositor.Compositor, wintree.NodeID)) *Response {
	id := wintree.NodeID(raw)
	var data WindowData
	err := s.exec.Do(ctx, func(c *compositor.Compositor) error {
		if !c.Manages(id) {
			return fmt.Errorf("%w: %d", ErrUnknownWindow, raw)
		}
		op(c, id)
		data.Window, _ = c.Lookup(id)
		return nil
	})
	if err != nil {
		return errorResponse(err)
	}
	resp, _ := NewOKResponse(data)
	return resp
}

func errorResponse(err error) *Response {
	resp := NewErrorResponse(err.Error())
	if errors.Is(err, ErrUnknownWindow) {
		resp.Code = CodeUnknownWindow
	}
	return resp
}

func badRequest(msg string) *Response {
	resp := NewErrorResponse(msg)
	resp.Code = CodeBadRequest
	return resp
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
	os.Remove(s.socketPath)
}
