// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniquePages(t *testing.T) {
	t.Parallel()

	in := []Page{
		{Image: 2, Type: PageStory},
		{Image: 0, Type: PageFrontCover},
		{Image: 2, Type: PageDeleted},
		{Image: 1},
	}

	out := UniquePages(in)
	require.Len(t, out, 3)
	assert.Equal(t, 0, out[0].Image)
	assert.Equal(t, 1, out[1].Image)
	assert.Equal(t, 2, out[2].Image)
	assert.Equal(t, PageStory, out[2].Type, "first page with an index wins")
	assert.Equal(t, PageDeleted, in[2].Type, "input untouched")
	assert.Nil(t, UniquePages(nil))
}

func TestNewPageTypePrecedence(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		index    int
		final    bool
		existing *Page
		want     PageType
	}{
		{name: "first is front cover", index: 0, final: false, want: PageFrontCover},
		{name: "single page is front cover", index: 0, final: true, want: PageFrontCover},
		{name: "last is back cover", index: 4, final: true, want: PageBackCover},
		{name: "middle is story", index: 2, final: false, want: PageStory},
		{name: "existing wins over cover", index: 0, existing: &Page{Type: PageInnerCover}, want: PageInnerCover},
		{name: "existing wins over back", index: 4, final: true, existing: &Page{Type: PageAdvertisement}, want: PageAdvertisement},
		{name: "existing without type is story", index: 0, existing: &Page{}, want: PageStory},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			page := NewPage(tc.index, tc.final, 10, 20, 5, tc.existing)
			assert.Equal(t, tc.want, page.Type)
			assert.Equal(t, tc.index, page.Image)
		})
	}
}

func TestNewPageDimensions(t *testing.T) {
	t.Parallel()

	wide := NewPage(1, false, 300, 200, 1024, &Page{Bookmark: "Chapter 1"})
	assert.True(t, wide.DoublePage)
	assert.Equal(t, int64(1024), wide.ImageSize)
	assert.Equal(t, "Chapter 1", wide.Bookmark)

	square := NewPage(1, false, 200, 200, 0, nil)
	assert.True(t, square.DoublePage)

	tall := NewPage(1, false, 100, 200, 0, nil)
	assert.False(t, tall.DoublePage)

	pages := []Page{{Image: 3}, {Image: 7}}
	require.NotNil(t, PageAt(pages, 7))
	assert.Nil(t, PageAt(pages, 1))
}
