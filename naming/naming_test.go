// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package naming

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// issue is a minimal record used to exercise tables.
type issue struct {
	Publisher string
	Series    string
	Format    string
	Number    string
	Volume    int
	Cover     *time.Time
}

// issueTable is the accessor table for issue.
var issueTable = Table[*issue]{
	"publisher-name": func(i *issue) any { return i.Publisher },
	"series-name":    func(i *issue) any { return i.Series },
	"volume":         func(i *issue) any { return i.Volume },
	"number":         func(i *issue) any { return i.Number },
	"format":         func(i *issue) any { return i.Format },
	"cover-date":     func(i *issue) any { return i.Cover },
	"isbn":           func(*issue) any { return nil },
}

// quietOptions returns options with a logger capturing output in buf.
func quietOptions(buf *bytes.Buffer) Options {
	return Options{
		Separator: "-",
		Logger:    slog.New(slog.NewTextHandler(buf, nil)),
	}
}

func TestEvaluateTradePaperbackExample(t *testing.T) {
	t.Parallel()

	templates := Templates{
		Default: "{publisher-name}/{series-name}-v{volume}/{series-name}-v{volume}_#{number:03}",
		Formats: map[string]string{
			"trade_paperback": "{publisher-name}/{series-name}-v{volume}/{series-name}-v{volume}_TPB_#{number:03}",
		},
	}
	record := &issue{
		Publisher: "Example Publisher",
		Series:    "Example Series",
		Volume:    1,
		Number:    "2",
		Format:    "Trade-Paperback",
	}

	var buf bytes.Buffer
	got := Generate(quietOptions(&buf), Source{
		Record:    issueTable.Bind(record),
		Format:    record.Format,
		Templates: templates,
	})

	assert.Equal(t, "Example-Publisher/Example-Series-v1/Example-Series-v1_TPB_#002", got)
	assert.Empty(t, buf.String())
}

func TestEvaluateUnknownToken(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	got := Evaluate(issueTable.Bind(&issue{}), "{unknown-token}", quietOptions(&buf))

	assert.Equal(t, "unknown-token", got)
	assert.Contains(t, buf.String(), "unknown naming token")
	assert.Contains(t, buf.String(), "unknown-token")
}

func TestEvaluateValues(t *testing.T) {
	t.Parallel()

	cover := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	record := &issue{
		Publisher: "Marvel: Comics, Inc.",
		Series:    "Spider-Man 2099",
		Volume:    3,
		Number:    "1.5",
		Cover:     &cover,
	}
	r := issueTable.Bind(record)

	testCases := []struct {
		name     string
		template string
		want     string
	}{
		{name: "sanitized punctuation", template: "{publisher-name}", want: "Marvel-Comics-Inc"},
		{name: "separator in value", template: "{series-name}", want: "Spider-Man-2099"},
		{name: "int padding", template: "v{volume:4}", want: "v0003"},
		{name: "non-digit number not padded", template: "#{number:3}", want: "#15"},
		{name: "nil value", template: "[{isbn}]", want: "[]"},
		{name: "date value", template: "{cover-date}", want: "2024-03-09"},
		{name: "leading slash stripped", template: "/{volume}/x", want: "3/x"},
		{name: "literal slashes kept", template: "a/b_{volume}", want: "a/b_3"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			assert.Equal(t, tc.want, Evaluate(r, tc.template, quietOptions(&buf)))
		})
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"Example Publisher",
		"  lots   of\tspace ",
		"Spider-Man: Into the Spider-Verse",
		"Batman & Robin!",
		"émigré ünïcödé",
		"a--b__c..d",
	}

	for _, sep := range []string{"-", "_", ".", " "} {
		for _, in := range inputs {
			once := Sanitize(in, sep)
			assert.Equal(t, once, Sanitize(once, sep), "sep=%q in=%q", sep, in)
			assert.NotContains(t, once, "/")
		}
	}

	assert.Equal(t, "", Sanitize("", "-"))
	assert.Equal(t, "", SanitizeValue(nil, "-"))
	assert.Equal(t, "", SanitizeValue((*time.Time)(nil), "-"))
	assert.Equal(t, "Batman-&-Robin!", Sanitize("Batman & Robin!", "-"))
	assert.Equal(t, "Example_Series", Sanitize("Example Series", "_"))
	assert.Equal(t, "7", SanitizeValue(7, "-"))
}

func TestTemplatesSelect(t *testing.T) {
	t.Parallel()

	templates := DefaultTemplates()

	assert.Equal(t, templates.Formats["annual"], templates.Select("Annual"))
	assert.Equal(t, templates.Formats["trade_paperback"], templates.Select("Trade Paperback"))
	assert.Equal(t, templates.Formats["digital_chapter"], templates.Select("digital-chapter"))
	assert.Equal(t, templates.Default, templates.Select("Single Issue"))
	assert.Equal(t, templates.Default, templates.Select(""))
}

func TestGenerateFallsBack(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	opts := quietOptions(&buf)
	comic := &issue{Publisher: "Pub", Series: "Series", Volume: 2, Number: "7"}

	got := Generate(opts,
		Source{Record: nil, Templates: DefaultTemplates()},
		Source{Record: issueTable.Bind(comic), Templates: DefaultTemplates()},
	)
	assert.Equal(t, "Pub/Series-v2/Series-v2_#007", got)

	assert.Empty(t, Generate(opts, Source{Record: issueTable.Bind(comic), Templates: Templates{}}))
}

func TestTokensAndUnknown(t *testing.T) {
	t.Parallel()

	template := "{publisher-name}/{series-name}_{missing}_#{number:3}"
	require.Equal(t, []string{"publisher-name", "series-name", "missing", "number"}, Tokens(template))
	assert.Equal(t, []string{"missing"}, UnknownTokens(issueTable.Bind(&issue{}), template))
	assert.Equal(t, []string{"cover-date", "format", "isbn", "number", "publisher-name", "series-name", "volume"}, issueTable.Keys())
}
