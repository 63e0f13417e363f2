// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woozymasta/cbx/comic"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean <path>...",
		Short: "Remove entries that are neither images nor sidecars",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ctx.collect(args)
			if err != nil {
				return err
			}

			var rows [][]string
			err = ctx.eachComic(paths, func(book *comic.Comic) error {
				var removed []string
				var err error
				if dryRun {
					removed, err = book.Extras()
				} else {
					removed, err = book.Clean()
				}
				if err != nil {
					return err
				}

				for _, name := range removed {
					rows = append(rows, []string{book.Path(), name})
				}
				return nil
			})

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "Nothing to remove")
			} else {
				fmt.Fprintln(out, renderTable([]string{"Archive", "Removed"}, rows, nil))
			}

			return err
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "List extras without removing them")
	return cmd
}
