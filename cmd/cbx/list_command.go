// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/woozymasta/cbx/comic"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <path>...",
		Short: "List comic archives with page and sidecar counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ctx.collect(args)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(paths))
			err = ctx.eachComic(paths, func(book *comic.Comic) error {
				images, err := book.Images()
				if err != nil {
					return err
				}
				extras, err := book.Extras()
				if err != nil {
					return err
				}

				rows = append(rows, []string{
					book.Path(),
					book.Kind().String(),
					strconv.Itoa(len(images)),
					strconv.Itoa(len(extras)),
					yesNo(book.MetronInfo() != nil),
					yesNo(book.ComicInfo() != nil),
				})
				return nil
			})

			if len(rows) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Archive", "Format", "Pages", "Extras", "MetronInfo", "ComicInfo"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
				))
			}

			return err
		},
	}
}
