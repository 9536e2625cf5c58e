package mcp

import "github.com/1broseidon/stackwm/internal/geom"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Zone string `json:"zone,omitempty" jsonschema:"Only list windows in this zone (bottom, regular, top)"`
}

// WindowSummary describes one managed window.
type WindowSummary struct {
	ID       uint32    `json:"id"`
	Parent   uint32    `json:"parent"`
	Title    string    `json:"title"`
	Geometry geom.Rect `json:"geometry"`
	Zone     string    `json:"zone"`
	Paint    int       `json:"paint"`
	Active   bool      `json:"active"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowSummary `json:"windows"`
}

// WindowInput names the target of raise_window, lower_window and
// activate_window.
type WindowInput struct {
	ID uint32 `json:"id" jsonschema:"required,Window id as reported by list_windows"`
}

// SetZoneInput is the input for the set_window_zone tool.
type SetZoneInput struct {
	ID   uint32 `json:"id" jsonschema:"required,Window id as reported by list_windows"`
	Zone string `json:"zone" jsonschema:"required,Target zone: bottom, regular or top"`
}

// WindowOutput is the state of a window after a tool acted on it.
type WindowOutput struct {
	Window WindowSummary `json:"window"`
}
