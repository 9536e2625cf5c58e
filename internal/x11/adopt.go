package x11

import (
	"fmt"
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/stackwm/internal/geom"
)

// Adopt returns a Client for every mapped, managed child of the root, in
// the server's bottom-to-top stacking order. Windows with a modal
// transient are marked blocked.
func Adopt(conn *Connection, decoration geom.Margins, logger *slog.Logger) ([]*Client, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tree, err := xproto.QueryTree(conn.XUtil.Conn(), conn.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query root window tree: %w", err)
	}

	var clients []*Client
	byWindow := make(map[xproto.Window]*Client)
	for _, win := range tree.Children {
		c, ok := newClient(conn, win, decoration, logger)
		if !ok {
			continue
		}
		clients = append(clients, c)
		byWindow[win] = c
	}
	for _, c := range clients {
		if !c.modal || c.transientFor == 0 {
			continue
		}
		if parent, ok := byWindow[c.transientFor]; ok {
			parent.blocked = true
		}
	}
	logger.Info("adopted clients", "count", len(clients), "children", len(tree.Children))
	return clients, nil
}
