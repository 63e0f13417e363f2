// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/woozymasta/cbx/comic"
	"github.com/woozymasta/cbx/metadata"
	"github.com/woozymasta/cbx/service"
)

type renameOptions struct {
	output string
	dryRun bool
	fetch  bool
	force  bool
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var opts renameOptions

	cmd := &cobra.Command{
		Use:   "rename <path>...",
		Short: "Apply metadata, clean, convert and rename archives by template",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ctx.collect(args)
			if err != nil {
				return err
			}

			if strings.TrimSpace(opts.output) == "" {
				opts.output = ctx.settings.Output.Folder
			}

			var rows [][]string
			err = ctx.eachComic(paths, func(book *comic.Comic) error {
				actions, err := processComic(cmd.Context(), ctx, book, opts)
				for _, action := range actions {
					rows = append(rows, []string{book.Path(), action[0], action[1]})
				}
				return err
			})

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "Nothing to do")
			} else {
				fmt.Fprintln(out, renderTable([]string{"Archive", "Action", "Detail"}, rows, nil))
			}

			return err
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output folder; defaults to output.folder")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Print the plan without changing anything")
	cmd.Flags().BoolVar(&opts.fetch, "fetch", true, "Refresh stale metadata from configured services")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Refetch metadata even when it is not stale")
	return cmd
}

// processComic builds and applies the plan for one archive. It returns the
// planned actions as (action, detail) pairs.
func processComic(runCtx context.Context, ctx *commandContext, book *comic.Comic, opts renameOptions) ([][2]string, error) {
	settings := ctx.settings
	metron, comicInfo := book.MetronInfo(), book.ComicInfo()

	if opts.fetch && (opts.force || book.NeedsRefresh(time.Now(), settings.RefreshPolicy())) {
		fetchedMetron, fetchedComic, err := fetchMetadata(runCtx, ctx, book)
		switch {
		case err == nil:
			metron, comicInfo = fetchedMetron, fetchedComic
		case errors.Is(err, context.Canceled):
			return nil, err
		case errors.Is(err, service.ErrNoServices):
			ctx.logger.Debug("no external services configured", slog.String("path", book.Path()))
		default:
			ctx.logger.Info("keeping local metadata", slog.String("path", book.Path()), slog.Any("reason", err))
		}
	}

	if !settings.Output.Metadata.MetronInfo.Create {
		metron = nil
	}
	if !settings.Output.Metadata.ComicInfo.Create {
		comicInfo = nil
	}

	if comicInfo != nil && settings.Output.Metadata.ComicInfo.HandlePages {
		pages, err := book.BuildPages(comic.DecodeProber{})
		if err != nil {
			return nil, err
		}

		withPages := *comicInfo
		withPages.Pages = pages
		comicInfo = &withPages
	}

	plan, err := comic.BuildPlan(book, metron, comicInfo, settings.PlanOptions(ctx.logger))
	if err != nil {
		return nil, err
	}

	actions := describePlan(plan)

	kind, err := settings.OutputKind()
	if err != nil {
		return actions, err
	}
	if book.Kind() != kind {
		actions = append(actions, [2]string{"convert", kind.String()})
	}
	if plan.Naming != "" {
		actions = append(actions, [2]string{"move", plan.Naming + kind.Extension()})
	}

	if opts.dryRun {
		return actions, nil
	}

	if err := plan.Apply(); err != nil {
		return actions, err
	}
	if err := book.Convert(kind); err != nil {
		return actions, err
	}
	if plan.Naming != "" {
		if _, _, err := book.MoveTo(plan.Naming, opts.output); err != nil {
			return actions, err
		}
	}

	return actions, nil
}

// fetchMetadata queries configured services for book.
func fetchMetadata(runCtx context.Context, ctx *commandContext, book *comic.Comic) (*metadata.MetronInfo, *metadata.ComicInfo, error) {
	order := ctx.settings.ServiceOrder()
	if len(order) == 0 {
		return nil, nil, service.ErrNoServices
	}

	chain := service.NewChain(order, ctx.fetchers, ctx.logger)
	query := service.QueryFromMetadata(book.MetronInfo(), book.ComicInfo(), book.Path())

	metron, comicInfo, err := chain.Fetch(runCtx, query)
	if err != nil {
		return nil, nil, err
	}

	if metron != nil {
		now := time.Now().UTC().Truncate(time.Second)
		metron.LastModified = &now
	}

	return metron, comicInfo, nil
}

func describePlan(plan *comic.Plan) [][2]string {
	var actions [][2]string
	if plan.WriteMetron {
		actions = append(actions, sidecarAction(plan.MetronInfo != nil, metadata.MetronInfoFilename))
	}
	if plan.WriteComic {
		actions = append(actions, sidecarAction(plan.ComicInfo != nil, metadata.ComicInfoFilename))
	}
	for _, name := range plan.RemoveExtras {
		actions = append(actions, [2]string{"remove", name})
	}
	for _, rename := range plan.RenameImages {
		actions = append(actions, [2]string{"rename", rename.From + " -> " + rename.To})
	}

	return actions
}

func sidecarAction(write bool, name string) [2]string {
	if write {
		return [2]string{"write", name}
	}

	return [2]string{"remove", name}
}
