package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/geom"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/wintree"
)

// Client is the subset of the IPC client the inspector drives.
type Client interface {
	ListWindows() ([]compositor.WindowInfo, error)
	GetStatus() (*ipc.StatusData, error)
	Raise(id uint32) (*compositor.WindowInfo, error)
	Lower(id uint32) (*compositor.WindowInfo, error)
	SetZone(id uint32, zone string) (*compositor.WindowInfo, error)
	Activate(id uint32) (*compositor.WindowInfo, error)
}

// windowItem implements list.Item for one managed window.
type windowItem struct {
	info compositor.WindowInfo
}

func (i windowItem) Title() string {
	prefix := "  "
	if i.info.Active {
		prefix = "* "
	}
	indent := ""
	for range max(i.info.Depth-1, 0) {
		indent += "  "
	}
	title := i.info.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%s%s%d %s", prefix, indent, i.info.ID, title)
}

func (i windowItem) Description() string {
	return fmt.Sprintf("%s  paint %d  %v", i.info.Zone, i.info.Paint, i.info.Geometry)
}

func (i windowItem) FilterValue() string { return i.info.Title }

// snapshotMsg carries the result of polling the compositor.
type snapshotMsg struct {
	windows []compositor.WindowInfo
	status  *ipc.StatusData
	err     error
}

// actionMsg is sent after a stacking request completes.
type actionMsg struct {
	verb string
	info *compositor.WindowInfo
	err  error
}

type tickMsg struct{}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

type model struct {
	client  Client
	refresh time.Duration
	list    list.Model

	windows   []compositor.WindowInfo
	status    *ipc.StatusData
	connected bool
	lastError string

	statusText string

	width  int
	height int
}

func newModel(client Client, refresh time.Duration) model {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Stack"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return model{client: client, refresh: refresh, list: l}
}

func fetch(client Client) tea.Cmd {
	return func() tea.Msg {
		windows, err := client.ListWindows()
		if err != nil {
			return snapshotMsg{err: err}
		}
		status, err := client.GetStatus()
		return snapshotMsg{windows: windows, status: status, err: err}
	}
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(time.Time) tea.Msg { return tickMsg{} })
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(fetch(m.client), m.tick())
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.listWidth(), m.contentHeight())
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			m.connected = false
			m.lastError = msg.err.Error()
			return m, nil
		}
		m.connected = true
		m.lastError = ""
		m.status = msg.status
		return m, m.setWindows(msg.windows)

	case tickMsg:
		return m, tea.Batch(fetch(m.client), m.tick())

	case actionMsg:
		if msg.err != nil {
			m.statusText = fmt.Sprintf("%s failed: %v", msg.verb, msg.err)
		} else {
			m.statusText = fmt.Sprintf("%s %d", msg.verb, msg.info.ID)
		}
		return m, tea.Batch(fetch(m.client), tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		}))

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "g":
			return m, fetch(m.client)
		case "r":
			return m, m.act("raised", m.client.Raise)
		case "l":
			return m, m.act("lowered", m.client.Lower)
		case "a", "enter":
			return m, m.act("activated", m.client.Activate)
		case "t":
			return m, m.toggleZone("top")
		case "b":
			return m, m.toggleZone("bottom")
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// setWindows replaces the list items, keeping the selection on the same
// window when it still exists.
func (m *model) setWindows(windows []compositor.WindowInfo) tea.Cmd {
	prev, hadPrev := m.selected()
	m.windows = windows
	items := make([]list.Item, len(windows))
	for i, w := range windows {
		items[i] = windowItem{info: w}
	}
	cmd := m.list.SetItems(items)
	if hadPrev {
		for i, w := range windows {
			if w.ID == prev.ID {
				m.list.Select(i)
				break
			}
		}
	}
	return cmd
}

func (m model) selected() (compositor.WindowInfo, bool) {
	item, ok := m.list.SelectedItem().(windowItem)
	if !ok {
		return compositor.WindowInfo{}, false
	}
	return item.info, true
}

func (m model) act(verb string, fn func(uint32) (*compositor.WindowInfo, error)) tea.Cmd {
	w, ok := m.selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		info, err := fn(uint32(w.ID))
		return actionMsg{verb: verb, info: info, err: err}
	}
}

// toggleZone moves the selected window into zone, or back to the regular
// zone when it is already there.
func (m model) toggleZone(zone string) tea.Cmd {
	w, ok := m.selected()
	if !ok {
		return nil
	}
	if w.Zone == zone {
		zone = "regular"
	}
	return m.act("moved to "+zone, func(id uint32) (*compositor.WindowInfo, error) {
		return m.client.SetZone(id, zone)
	})
}

func (m model) listWidth() int {
	return min(max(m.width*2/5, 20), 60)
}

// contentHeight returns the height available between the status and help
// bars.
func (m model) contentHeight() int {
	return max(m.height-2, 1)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	statusBar := renderStatusBar(m.connected, m.status, m.lastError, m.width)
	helpBar := renderHelpBar(m.statusText, m.width)

	height := max(m.height-lipgloss.Height(statusBar)-lipgloss.Height(helpBar), 1)
	mapWidth := max(m.width-m.listWidth()-1, 1)

	selected := wintree.None
	if w, ok := m.selected(); ok {
		selected = w.ID
	}
	stackMap := lipgloss.JoinVertical(lipgloss.Left, renderStackMap(m.windows, m.screen(), selected, mapWidth, height)...)

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.listWidth()).Height(height).Render(m.list.View()),
		" ",
		stackMap,
	)
	return lipgloss.JoinVertical(lipgloss.Left, statusBar, content, helpBar)
}

func (m model) screen() geom.Rect {
	if m.status != nil {
		return m.status.Screen
	}
	return geom.Rect{}
}
