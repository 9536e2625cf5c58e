package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/stackwm/internal/compositor"
	"github.com/1broseidon/stackwm/internal/ipc"
)

func parseNodeID(arg string) (uint32, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid window id %q", arg)
	}
	return uint32(id), nil
}

func newWindowsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "windows",
		Short: "List windows top to bottom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			windows, err := client.ListWindows()
			if err != nil {
				return err
			}
			printTable(a.stdout, windowHeaders, windowRows(windows))
			return nil
		},
	}
}

// windowCmd builds a command that applies one IPC operation to a window.
func windowCmd(a *app, use, short, verb string, op func(*ipc.Client, uint32) (*compositor.WindowInfo, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNodeID(args[0])
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			info, err := op(client, id)
			if err != nil {
				return err
			}
			printWindow(a.stdout, verb, info)
			return nil
		},
	}
}

func newRaiseCmd(a *app) *cobra.Command {
	return windowCmd(a, "raise", "Raise a window to the top of its zone", "raised", (*ipc.Client).Raise)
}

func newLowerCmd(a *app) *cobra.Command {
	return windowCmd(a, "lower", "Lower a window to the bottom of its zone", "lowered", (*ipc.Client).Lower)
}

func newActivateCmd(a *app) *cobra.Command {
	return windowCmd(a, "activate", "Activate a window", "activated", (*ipc.Client).Activate)
}

func newZoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "zone ID ZONE",
		Short: "Move a window to the bottom, regular or top zone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseNodeID(args[0])
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			info, err := client.SetZone(id, args[1])
			if err != nil {
				return err
			}
			printWindow(a.stdout, "moved", info)
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show compositor status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			status, err := client.GetStatus()
			if err != nil {
				return err
			}
			uptime := time.Duration(status.UptimeSeconds) * time.Second
			fmt.Fprintf(a.stdout, "compositor: %s\n", status.ID)
			fmt.Fprintf(a.stdout, "uptime:     %s\n", uptime)
			fmt.Fprintf(a.stdout, "screen:     %s\n", status.Screen)
			fmt.Fprintf(a.stdout, "windows:    %d\n", status.Windows)
			fmt.Fprintf(a.stdout, "focused:    %d\n", status.Focused)
			fmt.Fprintf(a.stdout, "gesture:    %s\n", status.Gesture)
			fmt.Fprintf(a.stdout, "draws:      %d\n", status.Draws)
			return nil
		},
	}
}
