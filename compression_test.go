// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"archive/zip"
	"strings"
	"testing"

	"github.com/woozymasta/pathrules"
)

// includeRules builds include rules from raw patterns for concise test setup.
func includeRules(patterns ...string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{
			Action:  pathrules.ActionInclude,
			Pattern: pattern,
		})
	}

	return rules
}

func TestCompressMatcherMatch(t *testing.T) {
	t.Parallel()

	matcher, err := newCompressMatcher(includeRules(
		"*.xml",
		"notes/",
	), pathrules.MatcherOptions{
		CaseInsensitive: true,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	cases := []struct {
		name string
		path string
		want bool
	}{
		{name: "extension rule", path: "ComicInfo.XML", want: true},
		{name: "windows separators", path: `extra\MetronInfo.xml`, want: true},
		{name: "dir-only rule", path: "notes/readme.txt", want: true},
		{name: "no match", path: "pages/001.jpg", want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := matcher.Match(tc.path)
			if got != tc.want {
				t.Fatalf("Match(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestDefaultZipCompressRules(t *testing.T) {
	t.Parallel()

	var opts ZipOptions
	opts.applyDefaults()

	matcher, err := newCompressMatcher(opts.Compress, opts.CompressMatcherOptions)
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	if got := matcher.method("ComicInfo.xml"); got != zip.Deflate {
		t.Fatalf("ComicInfo.xml method=%d, want Deflate", got)
	}

	for _, name := range []string{"001.jpg", "pages/002.PNG", "003.webp", "004.jxl"} {
		if got := matcher.method(name); got != zip.Store {
			t.Fatalf("%s method=%d, want Store", name, got)
		}
	}
}

func TestNilCompressMatcherStores(t *testing.T) {
	t.Parallel()

	matcher, err := newCompressMatcher(nil, pathrules.MatcherOptions{})
	if err != nil {
		t.Fatalf("new matcher: %v", err)
	}

	if matcher != nil {
		t.Fatal("expected nil matcher for empty rules")
	}

	if got := matcher.method("ComicInfo.xml"); got != zip.Store {
		t.Fatalf("nil matcher method=%d, want Store", got)
	}
}
