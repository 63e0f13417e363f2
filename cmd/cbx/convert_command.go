// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/woozymasta/cbx"
	"github.com/woozymasta/cbx/comic"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "convert <path>...",
		Short: "Repack archives into another container format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := targetKind(ctx, formatFlag)
			if err != nil {
				return err
			}

			paths, err := ctx.collect(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return ctx.eachComic(paths, func(book *comic.Comic) error {
				from := book.Path()
				if book.Kind() == kind {
					fmt.Fprintf(out, "%s: already %s\n", from, kind)
					return nil
				}

				if err := book.Convert(kind); err != nil {
					return err
				}

				fmt.Fprintf(out, "%s -> %s\n", from, book.Path())
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Target format (cbz, cbt, cb7); defaults to output.format")
	return cmd
}

// targetKind parses raw, falling back to the configured output format.
func targetKind(ctx *commandContext, raw string) (cbx.Kind, error) {
	if strings.TrimSpace(raw) == "" {
		return ctx.settings.OutputKind()
	}

	kind, ok := cbx.ParseKind(raw)
	if !ok {
		return "", fmt.Errorf("unknown format %q", raw)
	}

	return kind, nil
}
