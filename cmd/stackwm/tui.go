package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/1broseidon/stackwm/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	var refresh time.Duration
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Inspect and restack windows interactively",
		Long: `Open a live view of a running stackwm. The left pane lists windows top to
bottom and the right pane maps their frames onto the screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), client, tui.Options{Refresh: refresh})
		},
	}
	cmd.Flags().DurationVar(&refresh, "refresh", tui.DefaultRefresh, "how often to poll the compositor")
	return cmd
}
