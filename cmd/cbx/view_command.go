// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/woozymasta/cbx/comic"
	"github.com/woozymasta/cbx/metadata"
)

func newViewCommand(ctx *commandContext) *cobra.Command {
	var showPages bool

	cmd := &cobra.Command{
		Use:   "view <archive>",
		Short: "Show archive details and metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := ctx.open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = book.Close() }()

			images, err := book.Images()
			if err != nil {
				return err
			}
			extras, err := book.Extras()
			if err != nil {
				return err
			}

			settings := ctx.settings
			caps := book.Archive().Format().Capabilities
			fields := [][2]string{
				{"Path", book.Path()},
				{"Format", book.Kind().String()},
				{"Readable", yesNo(caps.Readable)},
				{"Writeable", yesNo(caps.Writeable)},
				{"Editable", yesNo(caps.Editable)},
				{"Pages", strconv.Itoa(len(images))},
				{"Extras", strings.Join(extras, ", ")},
			}
			fields = append(fields, metronFields(book.MetronInfo())...)
			fields = append(fields, comicInfoFields(book.ComicInfo())...)
			fields = append(fields,
				[2]string{"Naming", book.Filename(settings.Output.Naming.Templates, settings.NamingOptions(ctx.logger))},
				[2]string{"Needs refresh", yesNo(book.NeedsRefresh(time.Now(), settings.RefreshPolicy()))},
			)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderFields(fields))

			if showPages && book.ComicInfo() != nil && len(book.ComicInfo().Pages) > 0 {
				fmt.Fprintln(out, renderPages(book.ComicInfo().Pages))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&showPages, "pages", false, "Print the ComicInfo page list")
	return cmd
}

func metronFields(info *metadata.MetronInfo) [][2]string {
	if info == nil {
		return [][2]string{{"MetronInfo", "absent"}}
	}

	fields := [][2]string{
		{"Series", info.Series.Name},
		{"Volume", optionalNumber(info.Series.Volume)},
		{"Format", info.SeriesFormat()},
		{"Number", info.Number},
	}
	if info.Publisher != nil {
		fields = append(fields, [2]string{"Publisher", info.Publisher.Name})
	}
	if id := info.PrimaryID(); id != nil {
		fields = append(fields, [2]string{"ID", string(id.Source) + ":" + id.Value})
	}
	if info.LastModified != nil {
		fields = append(fields, [2]string{"Last modified", info.LastModified.Format(time.RFC3339)})
	}

	return fields
}

func comicInfoFields(info *metadata.ComicInfo) [][2]string {
	if info == nil {
		return [][2]string{{"ComicInfo", "absent"}}
	}

	fields := [][2]string{
		{"CI Series", info.Series},
		{"CI Number", info.Number},
		{"CI Publisher", info.Publisher},
	}
	if date := info.CoverDate(); date != nil {
		fields = append(fields, [2]string{"CI Cover date", date.String()})
	}

	return fields
}

func renderPages(pages []metadata.Page) string {
	rows := make([][]string, 0, len(pages))
	for _, page := range pages {
		rows = append(rows, []string{
			strconv.Itoa(page.Image),
			string(page.PageType()),
			fmt.Sprintf("%dx%d", page.ImageWidth, page.ImageHeight),
			strconv.FormatInt(page.ImageSize, 10),
			yesNo(page.DoublePage),
		})
	}

	return renderTable(
		[]string{"Image", "Type", "Size", "Bytes", "Double"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight},
	)
}

func optionalNumber(value int) string {
	if value == 0 {
		return ""
	}

	return strconv.Itoa(value)
}
