// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package metadata

import (
	"encoding/csv"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
)

// SplitList parses a ComicInfo comma list. Quoted items may contain commas.
// Items are trimmed, deduplicated and returned in natural order.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, strings.Count(value, ",")+1)
	for _, item := range splitFields(value) {
		item = strings.TrimSpace(strings.ReplaceAll(item, `"`, ""))
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}

		seen[item] = struct{}{}
		out = append(out, item)
	}

	slices.SortFunc(out, compareNatural)
	return out
}

// splitFields splits value on commas outside double quotes.
func splitFields(value string) []string {
	r := csv.NewReader(strings.NewReader(strings.ReplaceAll(value, "\n", " ")))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	fields, err := r.Read()
	if err != nil {
		return strings.Split(value, ",")
	}

	return fields
}

// JoinList renders items as a ComicInfo comma list.
// Items containing a comma are quoted.
func JoinList(items []string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if strings.Contains(item, ",") {
			item = `"` + item + `"`
		}
		parts = append(parts, item)
	}

	return strings.Join(parts, ",")
}

// compareNatural orders strings by natural.Less.
func compareNatural(a string, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	default:
		return 0
	}
}

// Date is a calendar date encoded as 2006-01-02.
type Date struct {
	time.Time
}

// NewDate returns the UTC date y-m-d.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DatePtr returns a pointer to NewDate(year, month, day).
func DatePtr(year int, month time.Month, day int) *Date {
	d := NewDate(year, month, day)
	return &d
}

// String formats the date as 2006-01-02.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}

	d.Time = t
	return nil
}
