// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woozymasta/cbx/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand(ctx))

	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print effective settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if ctx.exists {
				fmt.Fprintf(out, "# %s\n", ctx.path)
			} else {
				fmt.Fprintf(out, "# %s (missing, defaults in use)\n", ctx.path)
			}

			settings := *ctx.settings
			if !showSecrets {
				settings = ctx.settings.Redacted()
			}

			return settings.Encode(out)
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "secrets", false, "Print credentials unmasked")
	return cmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a default configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := settingsPath(ctx)
			if err != nil {
				return err
			}

			if overwrite {
				if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("remove config: %w", err)
				}
			}

			if err := config.Init(target); err != nil {
				if errors.Is(err, fs.ErrExist) {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "set <key> <value>",
		Short:       "Update one setting in the configuration file",
		Example:     "  cbx config set output.format cb7\n  cbx config set services.order '[\"Comicvine\", \"Metron\"]'",
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := settingsPath(ctx)
			if err != nil {
				return err
			}

			settings, _, _, err := config.LoadFile(target)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			if err := settings.Set(args[0], args[1]); err != nil {
				return err
			}

			if err := settings.Save(target); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s in %s\n", args[0], target)
			return nil
		},
	}
}

func newConfigPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the configuration file path",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := settingsPath(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}
}

// settingsPath resolves --config or the default location.
func settingsPath(ctx *commandContext) (string, error) {
	target := ctx.configPath()
	if strings.TrimSpace(target) == "" {
		var err error
		if target, err = config.DefaultPath(); err != nil {
			return "", err
		}
	}

	return config.ExpandPath(target)
}
