package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/stackwm/internal/compositor"
)

// Client handles IPC communication with a running stackwm session
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client for the socket at socketPath.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to stackwm: %w (is a session running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		switch resp.Code {
		case CodeUnknownWindow:
			return nil, fmt.Errorf("%w (%s)", ErrUnknownWindow, resp.Error)
		case CodeBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrBadRequest, resp.Error)
		}
		return nil, fmt.Errorf("stackwm error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) windowRequest(cmd CommandType, payload any) (*compositor.WindowInfo, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
	}
	resp, err := c.sendRequest(&Request{Command: cmd, Payload: data})
	if err != nil {
		return nil, err
	}
	var out WindowData
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse window data: %w", err)
	}
	return &out.Window, nil
}

// GetStatus retrieves session status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// ListWindows retrieves every managed window, top to bottom.
func (c *Client) ListWindows() ([]compositor.WindowInfo, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListWindows})
	if err != nil {
		return nil, err
	}

	var data WindowsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse windows data: %w", err)
	}
	return data.Windows, nil
}

// Raise brings a window to the top of its zone.
func (c *Client) Raise(id uint32) (*compositor.WindowInfo, error) {
	return c.windowRequest(CommandRaise, WindowPayload{ID: id})
}

// Lower sends a window to the bottom of its zone.
func (c *Client) Lower(id uint32) (*compositor.WindowInfo, error) {
	return c.windowRequest(CommandLower, WindowPayload{ID: id})
}

// SetZone moves a window into zone ("bottom", "regular" or "top").
func (c *Client) SetZone(id uint32, zone string) (*compositor.WindowInfo, error) {
	return c.windowRequest(CommandSetZone, ZonePayload{ID: id, Zone: zone})
}

// Activate makes a window the active chain.
func (c *Client) Activate(id uint32) (*compositor.WindowInfo, error) {
	return c.windowRequest(CommandActivate, WindowPayload{ID: id})
}

// Ping checks if the session is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
