package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/1broseidon/stackwm/internal/mcp"
)

func newMCPCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol server",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdio. Tools act on a running stackwm through
the IPC socket, so start "stackwm run" or "stackwm serve FILE" first.

Example:
  claude mcp add stackwm -- stackwm mcp serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}
			server := mcp.NewServer(client, a.log())
			if err := server.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	})
	return cmd
}
