package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/stackwm/internal/geom"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds geom.Rect
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: outputName,
			Bounds: geom.Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
		})
	}

	return monitors, nil
}

// Screen returns the bounds gestures are clamped to: the monitor under
// the pointer, else the first monitor, else the root window.
func (c *Connection) Screen() (geom.Rect, error) {
	monitors, err := c.GetMonitors()
	if err == nil && len(monitors) > 0 {
		if mon := findMonitorForPointer(c, monitors); mon != nil {
			return mon.Bounds, nil
		}
		return monitors[0].Bounds, nil
	}

	root, rerr := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if rerr != nil {
		if err != nil {
			return geom.Rect{}, err
		}
		return geom.Rect{}, fmt.Errorf("failed to get root geometry: %w", rerr)
	}
	return geom.Rect{Width: int(root.Width), Height: int(root.Height)}, nil
}

func findMonitorForPointer(c *Connection, monitors []Monitor) *Monitor {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}
	return monitorAt(monitors, geom.Point{X: int(pointer.RootX), Y: int(pointer.RootY)})
}

func monitorAt(monitors []Monitor, pt geom.Point) *Monitor {
	for i := range monitors {
		if monitors[i].Bounds.Contains(pt) {
			return &monitors[i]
		}
	}
	return nil
}
