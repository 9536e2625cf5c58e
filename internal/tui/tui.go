// Package tui is an interactive window inspector that talks to a running
// compositor over IPC.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// DefaultRefresh is how often the window list is polled.
const DefaultRefresh = time.Second

// Options holds configuration for Run.
type Options struct {
	Refresh time.Duration
}

// Run starts the inspector and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, client Client, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	p := tea.NewProgram(newModel(client, opts.Refresh), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
