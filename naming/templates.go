// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package naming

import (
	"strings"

	"golang.org/x/text/cases"
)

// Templates holds a default template and per-format overrides.
// Format keys are matched case-insensitively ignoring spaces, "-" and "_",
// so "Trade Paperback", "trade-paperback" and "trade_paperback" are equal.
type Templates struct {
	// Formats maps series format to its template.
	Formats map[string]string `toml:"formats,omitempty" json:"formats,omitempty"`
	// Default is used when the format has no override.
	Default string `toml:"default" json:"default"`
}

// FormatKey normalizes a series format name for template lookup.
func FormatKey(format string) string {
	key := cases.Fold().String(strings.TrimSpace(format))
	return strings.NewReplacer(" ", "", "-", "", "_", "").Replace(key)
}

// Select returns the template for format, falling back to Default.
func (t Templates) Select(format string) string {
	if key := FormatKey(format); key != "" {
		for name, template := range t.Formats {
			if FormatKey(name) == key && strings.TrimSpace(template) != "" {
				return template
			}
		}
	}

	return t.Default
}

// All returns Default followed by every non-empty override.
func (t Templates) All() []string {
	out := []string{t.Default}
	for _, template := range t.Formats {
		if strings.TrimSpace(template) != "" {
			out = append(out, template)
		}
	}

	return out
}

// Source is one candidate record for Generate.
type Source struct {
	// Record resolves tokens; nil sources are skipped.
	Record Resolver
	// Format selects the template override.
	Format string
	// Templates available for this record type.
	Templates Templates
}

// Generate evaluates sources in order and returns the first non-empty name.
func Generate(opts Options, sources ...Source) string {
	for _, source := range sources {
		if isNil(source.Record) {
			continue
		}

		template := source.Templates.Select(source.Format)
		if strings.TrimSpace(template) == "" {
			continue
		}

		if name := Evaluate(source.Record, template, opts); name != "" {
			return name
		}
	}

	return ""
}

// seriesPrefix is shared by all default templates.
const seriesPrefix = "{publisher-name}/{series-name}-v{volume}/{series-name}-v{volume}"

// DefaultTemplates returns the built-in template set. Both MetronInfo and
// ComicInfo records resolve every key it uses.
func DefaultTemplates() Templates {
	return Templates{
		Default: seriesPrefix + "_#{number:3}",
		Formats: map[string]string{
			"annual":          seriesPrefix + "_Annual_#{number:2}",
			"digital_chapter": seriesPrefix + "_Chapter_#{number:3}",
			"graphic_novel":   seriesPrefix + "_#{number:2}_GN",
			"hardcover":       seriesPrefix + "_#{number:2}_HC",
			"omnibus":         seriesPrefix + "_#{number:2}_OB",
			"trade_paperback": seriesPrefix + "_#{number:2}_TPB",
		},
	}
}
