package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/stackwm/internal/config"
	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/runtimepath"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool

	stdout io.Writer
	stderr io.Writer

	loaded *config.LoadResult
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}

	root := &cobra.Command{
		Use:           "stackwm",
		Short:         "stackwm stacks, raises and drags windows",
		Long:          `stackwm is a stacking window compositor core. It runs against an X server or replays scripted sessions headlessly, and exposes its window stack over a unix socket and MCP.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.stdout = cmd.OutOrStdout()
			a.stderr = cmd.ErrOrStderr()
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("stackwm %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default ~/.config/stackwm/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newReplayCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newWindowsCmd(a))
	root.AddCommand(newRaiseCmd(a))
	root.AddCommand(newLowerCmd(a))
	root.AddCommand(newZoneCmd(a))
	root.AddCommand(newActivateCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newMCPCmd(a))
	root.AddCommand(newTUICmd(a))
	return root
}

// load reads the config file once.
func (a *app) load() (*config.LoadResult, error) {
	if a.loaded != nil {
		return a.loaded, nil
	}
	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	a.loaded = res
	return res, nil
}

func (a *app) config() (*config.Config, error) {
	res, err := a.load()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// log returns the process logger, configured from the logging section.
func (a *app) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	level := charmlog.InfoLevel
	json := false
	if cfg, err := a.config(); err == nil {
		level = charmlog.Level(cfg.SlogLevel())
		json = cfg.Logging.Format == "json"
	}
	if a.verbose {
		level = charmlog.DebugLevel
	}
	a.logger = slog.New(newLogger(a.stderr, level, json))
	return a.logger
}

func (a *app) socketPath() (string, error) {
	override := ""
	if cfg, err := a.config(); err == nil {
		override = cfg.IPC.Socket
	}
	return runtimepath.SocketPath(override)
}

func (a *app) client() (*ipc.Client, error) {
	path, err := a.socketPath()
	if err != nil {
		return nil, err
	}
	return ipc.NewClient(path), nil
}
