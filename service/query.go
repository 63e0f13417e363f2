// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package service

import (
	"path/filepath"
	"strings"

	"github.com/woozymasta/cbx/metadata"
)

// Query describes the issue to look up.
type Query struct {
	// SeriesIDs are known series ids per catalog.
	SeriesIDs map[metadata.InformationSource]string
	// IssueIDs are known issue ids per catalog.
	IssueIDs map[metadata.InformationSource]string
	// Filename is the archive base name without extension, used in messages
	// and as the last search hint.
	Filename string
	// Series is the series name to search for.
	Series string
	// Number is the issue number.
	Number string
	// Volume is the series volume.
	Volume int
	// Year is the series start year.
	Year int
}

// Empty reports whether the query carries no search hint besides Filename.
func (q Query) Empty() bool {
	return q.Series == "" && q.Number == "" && len(q.SeriesIDs) == 0 && len(q.IssueIDs) == 0
}

// QueryFromMetadata builds a query from existing sidecars, preferring
// MetronInfo. Both records may be nil.
func QueryFromMetadata(metron *metadata.MetronInfo, comicInfo *metadata.ComicInfo, path string) Query {
	q := Query{
		Filename: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	if metron != nil {
		q.Series = metron.Series.Name
		q.Volume = metron.Series.Volume
		q.Year = metron.Series.StartYear
		q.Number = metron.Number

		for _, id := range metron.IDs {
			if id.Value == "" {
				continue
			}
			if q.IssueIDs == nil {
				q.IssueIDs = make(map[metadata.InformationSource]string)
			}
			q.IssueIDs[id.Source] = id.Value
		}

		if primary := metron.PrimaryID(); primary != nil && metron.Series.ID != "" {
			q.SeriesIDs = map[metadata.InformationSource]string{primary.Source: metron.Series.ID}
		}

		return q
	}

	if comicInfo != nil {
		q.Series = comicInfo.Series
		q.Number = comicInfo.Number
		switch {
		case comicInfo.Volume > 1900:
			q.Year = comicInfo.Volume
		case comicInfo.Volume > 0:
			q.Volume = comicInfo.Volume
		}
		if q.Year == 0 {
			q.Year = comicInfo.Year
		}
	}

	return q
}
