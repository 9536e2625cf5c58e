package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/stackwm/internal/compositor"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandRaise       CommandType = "RAISE"
	CommandLower       CommandType = "LOWER"
	CommandSetZone     CommandType = "SET_ZONE"
	CommandActivate    CommandType = "ACTIVATE"
)

// Error codes carried in Response.Code so clients can match sentinels.
const (
	CodeUnknownWindow = "UNKNOWN_WINDOW"
	CodeBadRequest    = "BAD_REQUEST"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	compositor.Status
	UptimeSeconds int64 `json:"uptime_seconds"`
	Running       bool  `json:"running"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []compositor.WindowInfo `json:"windows"`
}

// WindowPayload names the target of RAISE, LOWER and ACTIVATE.
type WindowPayload struct {
	ID uint32 `json:"id"`
}

// ZonePayload is the payload for SET_ZONE.
type ZonePayload struct {
	ID   uint32 `json:"id"`
	Zone string `json:"zone"`
}

// WindowData is returned by commands that act on one window; it holds the
// window state after the command ran.
type WindowData struct {
	Window compositor.WindowInfo `json:"window"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
