package tui

import (
	"fmt"
	"strings"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/wintree"
)

type frameGlyphs struct {
	h, v, tl, tr, bl, br rune
}

var (
	lightFrame = frameGlyphs{'─', '│', '┌', '┐', '└', '┘'}
	heavyFrame = frameGlyphs{'━', '┃', '┏', '┓', '┗', '┛'}
)

// renderStackMap draws the frames of windows scaled onto a width x height
// character canvas. windows is in listing order, top first; frames are
// painted bottom first so higher windows hide the ones beneath. The
// selected window gets a heavy border.
func renderStackMap(windows []compositor.WindowInfo, screen geom.Rect, selected wintree.NodeID, width, height int) []string {
	if width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}
	if screen.Empty() {
		screen = boundingBox(windows)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	if !screen.Empty() {
		for i := len(windows) - 1; i >= 0; i-- {
			w := windows[i]
			glyphs := lightFrame
			if w.ID == selected {
				glyphs = heavyFrame
			}
			drawFrame(canvas, scaleRect(w.Frame, screen, width, height), fmt.Sprintf("%d", w.ID), glyphs)
		}
	}
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

// canvasRect is an inclusive rectangle of canvas cells.
type canvasRect struct {
	x1, y1, x2, y2 int
}

// scaleRect maps r from screen coordinates onto the canvas interior,
// leaving a one-cell border.
func scaleRect(r, screen geom.Rect, width, height int) canvasRect {
	iw, ih := width-2, height-2
	c := canvasRect{
		x1: 1 + (r.X-screen.X)*iw/screen.Width,
		y1: 1 + (r.Y-screen.Y)*ih/screen.Height,
		x2: (r.Right() - screen.X) * iw / screen.Width,
		y2: (r.Bottom() - screen.Y) * ih / screen.Height,
	}
	c.x1, c.y1 = max(c.x1, 1), max(c.y1, 1)
	c.x2, c.y2 = min(c.x2, width-2), min(c.y2, height-2)
	return c
}

func drawFrame(canvas [][]rune, c canvasRect, label string, g frameGlyphs) {
	// Need at least 2x2 for a frame
	if c.x2 <= c.x1 || c.y2 <= c.y1 {
		return
	}
	for y := c.y1 + 1; y < c.y2; y++ {
		for x := c.x1 + 1; x < c.x2; x++ {
			canvas[y][x] = ' '
		}
	}
	for x := c.x1; x <= c.x2; x++ {
		canvas[c.y1][x] = g.h
		canvas[c.y2][x] = g.h
	}
	for y := c.y1; y <= c.y2; y++ {
		canvas[y][c.x1] = g.v
		canvas[y][c.x2] = g.v
	}
	canvas[c.y1][c.x1] = g.tl
	canvas[c.y1][c.x2] = g.tr
	canvas[c.y2][c.x1] = g.bl
	canvas[c.y2][c.x2] = g.br

	centerY := (c.y1 + c.y2) / 2
	centerX := (c.x1 + c.x2) / 2
	if centerY > c.y1 && centerY < c.y2 {
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > c.x1 && startX+i < c.x2 {
				canvas[centerY][startX+i] = r
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := range width {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := range height {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

// boundingBox returns the smallest rectangle holding every frame.
func boundingBox(windows []compositor.WindowInfo) geom.Rect {
	if len(windows) == 0 {
		return geom.Rect{}
	}
	x1, y1 := windows[0].Frame.X, windows[0].Frame.Y
	x2, y2 := windows[0].Frame.Right(), windows[0].Frame.Bottom()
	for _, w := range windows[1:] {
		x1, y1 = min(x1, w.Frame.X), min(y1, w.Frame.Y)
		x2, y2 = max(x2, w.Frame.Right()), max(y2, w.Frame.Bottom())
	}
	return geom.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func emptyCanvas(width, height int) []string {
	lines := make([]string, max(height, 0))
	empty := strings.Repeat(" ", max(width, 0))
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
