package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/scenario"
)

func newReplayCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Replay a scenario headlessly and print the final stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.replay(args[0])
			if err != nil {
				return err
			}
			return printSnapshot(a, snap, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve FILE",
		Short: "Replay a scenario and keep it running behind the IPC socket",
		Long: `Replay a scenario headlessly, then serve the resulting compositor on the
IPC socket until interrupted. The windows, raise, lower, zone, activate and
status commands and the MCP server work against it as they would against
an X session.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context(), args[0])
		},
	}
}

func (a *app) scenarioOptions() (scenario.Options, error) {
	cfg, err := a.config()
	if err != nil {
		return scenario.Options{}, err
	}
	return scenario.Options{Params: cfg.Params(), Logger: a.log()}, nil
}

func (a *app) replay(path string) (*scenario.Snapshot, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	opts, err := a.scenarioOptions()
	if err != nil {
		return nil, err
	}
	return scenario.Run(sc, opts)
}

func (a *app) serve(ctx context.Context, path string) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	opts, err := a.scenarioOptions()
	if err != nil {
		return err
	}
	sess, err := scenario.NewSession(sc, opts)
	if err != nil {
		return err
	}
	if err := sess.Apply(sc.Steps); err != nil {
		return err
	}

	cfg, _ := a.config()
	loop := compositor.NewLoop(sess.Compositor(), compositor.LoopConfig{
		FrameInterval: cfg.FrameInterval(),
		Logger:        a.log(),
	})
	server, err := a.startIPC(loop)
	if err != nil {
		return err
	}
	defer server.Stop()

	a.log().Info("serving scenario", "file", path, "windows", len(sc.Windows), "socket", server.SocketPath())
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printSnapshot(a *app, snap *scenario.Snapshot, output string) error {
	switch output {
	case "json":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		fmt.Fprintln(a.stdout, string(data))
	case "yaml":
		data, err := yaml.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		fmt.Fprint(a.stdout, string(data))
	case "table", "":
		printTable(a.stdout, windowHeaders, snapshotRows(snap))
		fmt.Fprintf(a.stdout, "focused: %s  gesture: %s  draws: %d\n", orNone(snap.Focused), snap.Gesture, snap.Draws)
		if len(snap.Dismissed) > 0 {
			fmt.Fprintf(a.stdout, "dismissed: %v\n", snap.Dismissed)
		}
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
