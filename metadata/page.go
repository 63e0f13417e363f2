// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package metadata

import (
	"cmp"
	"slices"
)

// Page describes one image of a ComicInfo document.
// Pages are ordered and compared by Image.
type Page struct {
	Bookmark    string   `xml:"Bookmark,attr,omitempty"`
	DoublePage  bool     `xml:"DoublePage,attr,omitempty"`
	Image       int      `xml:"Image,attr"`
	ImageHeight int      `xml:"ImageHeight,attr,omitempty"`
	ImageSize   int64    `xml:"ImageSize,attr,omitempty"`
	ImageWidth  int      `xml:"ImageWidth,attr,omitempty"`
	Key         string   `xml:"Key,attr,omitempty"`
	Type        PageType `xml:"Type,attr,omitempty"`
}

// PageType returns Type, or PageStory when unset.
func (p Page) PageType() PageType {
	if p.Type == "" {
		return PageStory
	}

	return p.Type
}

// NewPage builds the page at index from image dimensions and size.
// An existing page keeps its type and bookmark; otherwise index 0 is the
// front cover, the final page of a multi-page book the back cover and
// everything else story.
func NewPage(index int, final bool, width int, height int, size int64, existing *Page) Page {
	page := Page{
		Image:       index,
		ImageWidth:  width,
		ImageHeight: height,
		ImageSize:   size,
		DoublePage:  width >= height,
	}

	switch {
	case existing != nil:
		page.Type = existing.PageType()
		page.Bookmark = existing.Bookmark
		page.Key = existing.Key
	case index == 0:
		page.Type = PageFrontCover
	case final:
		page.Type = PageBackCover
	default:
		page.Type = PageStory
	}

	return page
}

// UniquePages drops pages repeating an earlier Image index and sorts the
// rest by index. The input is not modified.
func UniquePages(pages []Page) []Page {
	if len(pages) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(pages))
	out := make([]Page, 0, len(pages))
	for _, page := range pages {
		if _, ok := seen[page.Image]; ok {
			continue
		}

		seen[page.Image] = struct{}{}
		out = append(out, page)
	}

	slices.SortStableFunc(out, func(a, b Page) int {
		return cmp.Compare(a.Image, b.Image)
	})
	return out
}

// PageAt returns the page with index image or nil.
func PageAt(pages []Page, image int) *Page {
	for i := range pages {
		if pages[i].Image == image {
			return &pages[i]
		}
	}

	return nil
}
