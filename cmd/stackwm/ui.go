package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/scenario"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleActive = lipgloss.NewStyle().Padding(0, 1).Foreground(colorGreen)
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
)

var windowHeaders = []string{"ID", "ZONE", "PAINT", "ACTIVE", "GEOMETRY", "TITLE"}

// isTTY reports whether w is an interactive terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func windowRows(windows []compositor.WindowInfo) [][]string {
	rows := make([][]string, 0, len(windows))
	for _, w := range windows {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(w.ID), 10),
			w.Zone,
			strconv.Itoa(w.Paint),
			yesNo(w.Active),
			w.Geometry.String(),
			indent(w.Depth) + w.Title,
		})
	}
	return rows
}

func snapshotRows(snap *scenario.Snapshot) [][]string {
	rows := make([][]string, 0, len(snap.Windows))
	for _, w := range snap.Windows {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(w.ID), 10),
			w.Zone,
			strconv.Itoa(w.Paint),
			yesNo(w.Active),
			w.Geometry.String(),
			w.Name,
		})
	}
	return rows
}

// printTable writes rows as a styled table on a terminal and as
// tab-separated text otherwise. Rows whose ACTIVE column is "yes" are
// highlighted.
func printTable(w io.Writer, headers []string, rows [][]string) {
	if !isTTY(w) {
		fmt.Fprintln(w, joinTabs(headers))
		for _, r := range rows {
			fmt.Fprintln(w, joinTabs(r))
		}
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if row >= 0 && row < len(rows) && len(rows[row]) > 3 && rows[row][3] == "yes" {
				return styleActive
			}
			return styleCell
		})
	fmt.Fprintln(w, t.Render())
}

func printWindow(w io.Writer, verb string, info *compositor.WindowInfo) {
	line := fmt.Sprintf("%s window %d (%s): zone %s, paint %d", verb, info.ID, info.Title, info.Zone, info.Paint)
	if isTTY(w) {
		line = styleTitle.Render(verb) + styleDim.Render(fmt.Sprintf(" window %d (%s): zone %s, paint %d", info.ID, info.Title, info.Zone, info.Paint))
	}
	fmt.Fprintln(w, line)
}

func joinTabs(cells []string) string { return strings.Join(cells, "\t") }

// indent nests child windows under their parent in listings.
func indent(depth int) string {
	if depth <= 1 {
		return ""
	}
	return strings.Repeat("  ", depth-1)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
