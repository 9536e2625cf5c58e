package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/spf13/cobra"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/hotkeys"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/wintree"
	"github.com/1broseidon/stackwm/internal/x11"
)

func newRunCmd(a *app) *cobra.Command {
	var display string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage the windows of an X display",
		Long: `Adopt the mapped windows of an X display and run the compositor against
it. Presses in a window's title band move it, presses on its edges resize
it, and the stacking order is pushed back to the server after each change.
Configured hotkeys restack the focused window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runX11(cmd.Context(), display)
		},
	}
	cmd.Flags().StringVar(&display, "display", "", "X display to connect to (default $DISPLAY)")
	return cmd
}

func (a *app) runX11(ctx context.Context, display string) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	logger := a.log()
	if display == "" {
		display = cfg.X11.Display
	}

	conn, err := x11.NewConnection(display, cfg.X11.XAuthority)
	if err != nil {
		return err
	}
	defer conn.Close()

	screen, ok := cfg.ScreenOverride()
	if !ok {
		if screen, err = conn.Screen(); err != nil {
			return fmt.Errorf("failed to determine screen bounds: %w", err)
		}
	}
	clients, err := x11.Adopt(conn, cfg.DecorationMargins(), logger)
	if err != nil {
		return err
	}

	comp := compositor.New(compositor.Config{
		Renderer: x11.NewRestacker(conn, logger),
		Screen:   screen,
		Params:   cfg.Params(),
		Logger:   logger,
	})
	loop := compositor.NewLoop(comp, compositor.LoopConfig{
		FrameInterval: cfg.FrameInterval(),
		Logger:        logger,
	})
	registry := x11.NewRegistry()
	var source *x11.Input
	source = x11.NewInput(conn, x11.InputConfig{
		Registry:   registry,
		Decoration: cfg.DecorationMargins(),
		OnMapped: func(client *x11.Client) {
			loop.Post(func() {
				if _, ok := registry.Node(client.Window()); ok {
					return
				}
				registry.Manage(comp, client)
				source.Track(client.Window())
				comp.RequestUpdate()
			})
		},
		OnGone: func(win xproto.Window, id wintree.NodeID) {
			loop.Post(func() {
				if node, ok := registry.Node(win); !ok || node != id {
					return
				}
				registry.Forget(win)
				if comp.Tree().Alive(id) {
					comp.Destroy(id)
				}
			})
		},
		Logger: logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopErr := make(chan error, 1)
	go func() { loopErr <- loop.Run(ctx) }()

	err = loop.Do(ctx, func(c *compositor.Compositor) error {
		for win := range registry.ManageAll(c, clients) {
			source.Track(win)
		}
		c.RequestUpdate()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to adopt windows: %w", err)
	}

	keys := hotkeys.NewHandler(conn.XUtil, conn.Root, loop, logger)
	if err := keys.RegisterAll(hotkeys.Bindings(cfg.Hotkeys)); err != nil {
		logger.Warn("hotkeys unavailable", "error", err)
	}

	server, err := a.startIPC(loop)
	if err != nil {
		return err
	}
	defer server.Stop()

	logger.Info("stackwm running", "display", display, "screen", screen.String(), "windows", len(clients), "socket", server.SocketPath())
	runErr := source.Run(ctx, loop)
	cancel()
	<-loopErr
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

// startIPC starts the socket server in front of loop.
func (a *app) startIPC(loop *compositor.Loop) (*ipc.Server, error) {
	path, err := a.socketPath()
	if err != nil {
		return nil, err
	}
	server, err := ipc.NewServer(ipc.ServerConfig{
		SocketPath: path,
		Executor:   loop,
		Logger:     a.log(),
	})
	if err != nil {
		return nil, err
	}
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("failed to start IPC server: %w", err)
	}
	return server, nil
}
