// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package metadata

import (
	"github.com/woozymasta/cbx/naming"
)

// volumeYearCutoff separates ComicInfo Volume used as a number from Volume
// used as the series start year.
const volumeYearCutoff = 1900

// none resolves a known token that the record type has no data for.
func none[T any](T) any { return nil }

// comicInfoFields is the naming table of ComicInfo.
var comicInfoFields = naming.Table[*ComicInfo]{
	"cover-date":       func(c *ComicInfo) any { return c.CoverDate() },
	"cover-day":        func(c *ComicInfo) any { return optionalInt(c.Day) },
	"cover-month":      func(c *ComicInfo) any { return optionalInt(c.Month) },
	"cover-year":       func(c *ComicInfo) any { return optionalInt(c.Year) },
	"format":           func(c *ComicInfo) any { return c.Format },
	"id":               none[*ComicInfo],
	"imprint":          func(c *ComicInfo) any { return c.Imprint },
	"isbn":             none[*ComicInfo],
	"issue-count":      func(c *ComicInfo) any { return optionalInt(c.Count) },
	"lang":             func(c *ComicInfo) any { return c.LanguageISO },
	"number":           func(c *ComicInfo) any { return c.Number },
	"publisher-id":     none[*ComicInfo],
	"publisher-name":   func(c *ComicInfo) any { return c.Publisher },
	"series-id":        none[*ComicInfo],
	"series-name":      func(c *ComicInfo) any { return c.Series },
	"series-sort-name": none[*ComicInfo],
	"series-year": func(c *ComicInfo) any {
		if c.Volume > volumeYearCutoff {
			return c.Volume
		}
		return nil
	},
	"store-date":  none[*ComicInfo],
	"store-day":   none[*ComicInfo],
	"store-month": none[*ComicInfo],
	"store-year":  none[*ComicInfo],
	"title":       func(c *ComicInfo) any { return c.Title },
	"upc":         none[*ComicInfo],
	"volume": func(c *ComicInfo) any {
		if c.Volume > 0 && c.Volume < volumeYearCutoff {
			return c.Volume
		}
		return nil
	},
}

// metronInfoFields is the naming table of MetronInfo.
var metronInfoFields = naming.Table[*MetronInfo]{
	"cover-date":  func(m *MetronInfo) any { return m.CoverDate },
	"cover-day":   func(m *MetronInfo) any { return datePart(m.CoverDate, dateDay) },
	"cover-month": func(m *MetronInfo) any { return datePart(m.CoverDate, dateMonth) },
	"cover-year":  func(m *MetronInfo) any { return datePart(m.CoverDate, dateYear) },
	"format":      func(m *MetronInfo) any { return string(m.Series.Format) },
	"id": func(m *MetronInfo) any {
		if id := m.PrimaryID(); id != nil {
			return id.Value
		}
		return nil
	},
	"imprint": func(m *MetronInfo) any {
		if m.Publisher != nil && m.Publisher.Imprint != nil {
			return m.Publisher.Imprint.Value
		}
		return nil
	},
	"isbn": func(m *MetronInfo) any {
		if m.GTIN != nil {
			return m.GTIN.ISBN
		}
		return nil
	},
	"issue-count": func(m *MetronInfo) any { return optionalInt(m.Series.IssueCount) },
	"lang":        func(m *MetronInfo) any { return m.Series.Lang },
	"number":      func(m *MetronInfo) any { return m.Number },
	"publisher-id": func(m *MetronInfo) any {
		if m.Publisher != nil {
			return m.Publisher.ID
		}
		return nil
	},
	"publisher-name": func(m *MetronInfo) any {
		if m.Publisher != nil {
			return m.Publisher.Name
		}
		return nil
	},
	"series-id":        func(m *MetronInfo) any { return m.Series.ID },
	"series-name":      func(m *MetronInfo) any { return m.Series.Name },
	"series-sort-name": func(m *MetronInfo) any { return m.Series.SortName },
	"series-volume":    func(m *MetronInfo) any { return optionalInt(m.Series.Volume) },
	"series-year":      func(m *MetronInfo) any { return optionalInt(m.Series.StartYear) },
	"store-date":       func(m *MetronInfo) any { return m.StoreDate },
	"store-day":        func(m *MetronInfo) any { return datePart(m.StoreDate, dateDay) },
	"store-month":      func(m *MetronInfo) any { return datePart(m.StoreDate, dateMonth) },
	"store-year":       func(m *MetronInfo) any { return datePart(m.StoreDate, dateYear) },
	"title":            func(m *MetronInfo) any { return m.CollectionTitle },
	"upc": func(m *MetronInfo) any {
		if m.GTIN != nil {
			return m.GTIN.UPC
		}
		return nil
	},
	"volume": func(m *MetronInfo) any { return optionalInt(m.Series.Volume) },
}

// ComicInfoTokens returns the naming keys ComicInfo resolves.
func ComicInfoTokens() []string {
	return comicInfoFields.Keys()
}

// MetronInfoTokens returns the naming keys MetronInfo resolves.
func MetronInfoTokens() []string {
	return metronInfoFields.Keys()
}

// optionalInt maps the zero value to nil.
func optionalInt(v int) any {
	if v == 0 {
		return nil
	}

	return v
}

type datePartKind uint8

const (
	dateYear datePartKind = iota
	dateMonth
	dateDay
)

// datePart extracts one component of d; nil dates yield nil.
func datePart(d *Date, part datePartKind) any {
	if d == nil {
		return nil
	}

	switch part {
	case dateYear:
		return d.Year()
	case dateMonth:
		return int(d.Month())
	default:
		return d.Day()
	}
}
