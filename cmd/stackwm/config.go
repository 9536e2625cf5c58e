package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/stackwm/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(newConfigValidateCmd(a))
	cmd.AddCommand(newConfigPrintCmd(a))
	cmd.AddCommand(newConfigExplainCmd(a))
	return cmd
}

func newConfigValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load()
			if err != nil {
				return err
			}
			if res.File == "" {
				fmt.Fprintln(a.stdout, "config: ok (defaults, no file)")
				return nil
			}
			fmt.Fprintf(a.stdout, "config: ok (%s)\n", res.File)
			return nil
		},
	}
}

func newConfigPrintCmd(a *app) *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if !defaults {
				var err error
				if cfg, err = a.config(); err != nil {
					return err
				}
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Fprint(a.stdout, string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print built-in defaults, ignoring the config file")
	return cmd
}

func newConfigExplainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explain PATH",
		Short: "Show a config value and where it was set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load()
			if err != nil {
				return err
			}
			value, src, err := config.Explain(res, args[0])
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(value)
			if err != nil {
				return fmt.Errorf("failed to encode value: %w", err)
			}
			fmt.Fprintf(a.stdout, "path: %s\n", args[0])
			fmt.Fprintf(a.stdout, "source: %s\n", formatSource(src))
			fmt.Fprintf(a.stdout, "value:\n%s", string(out))
			return nil
		},
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}
