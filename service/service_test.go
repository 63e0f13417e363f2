// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/cbx/metadata"
)

// recorder returns a fetcher that logs its name and replies with the given values.
func recorder(calls *[]Name, name Name, metron *metadata.MetronInfo, comicInfo *metadata.ComicInfo, err error) Fetcher {
	return FetcherFunc(func(context.Context, Query) (*metadata.MetronInfo, *metadata.ComicInfo, error) {
		*calls = append(*calls, name)
		return metron, comicInfo, err
	})
}

func TestChainStopsAtFirstResult(t *testing.T) {
	t.Parallel()

	var calls []Name
	want := &metadata.ComicInfo{Series: "Found"}
	chain := NewChain([]Name{Metron, Marvel, Comicvine}, map[Name]Fetcher{
		Metron:    recorder(&calls, Metron, nil, nil, errors.New("down")),
		Marvel:    recorder(&calls, Marvel, nil, nil, nil),
		Comicvine: recorder(&calls, Comicvine, nil, want, nil),
	}, nil)

	metron, comicInfo, err := chain.Fetch(context.Background(), Query{Series: "x"})
	require.NoError(t, err)
	assert.Nil(t, metron)
	assert.Same(t, want, comicInfo)
	assert.Equal(t, []Name{Metron, Marvel, Comicvine}, calls)
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var calls []Name
	chain := NewChain([]Name{Comicvine, Metron}, map[Name]Fetcher{
		Metron:    recorder(&calls, Metron, &metadata.MetronInfo{}, nil, nil),
		Comicvine: recorder(&calls, Comicvine, &metadata.MetronInfo{}, nil, nil),
	}, nil)

	_, _, err := chain.Fetch(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []Name{Comicvine}, calls)
}

func TestChainErrors(t *testing.T) {
	t.Parallel()

	var calls []Name

	_, _, err := NewChain(DefaultOrder, nil, nil).Fetch(context.Background(), Query{})
	require.ErrorIs(t, err, ErrNoServices)

	down := errors.New("down")
	_, _, err = NewChain(DefaultOrder, map[Name]Fetcher{
		Metron: recorder(&calls, Metron, nil, nil, down),
	}, nil).Fetch(context.Background(), Query{})
	require.ErrorIs(t, err, down)

	_, _, err = NewChain(DefaultOrder, map[Name]Fetcher{
		Metron: recorder(&calls, Metron, nil, nil, down),
		Marvel: recorder(&calls, Marvel, nil, nil, nil),
	}, nil).Fetch(context.Background(), Query{})
	require.ErrorIs(t, err, ErrNoResult)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = NewChain(DefaultOrder, map[Name]Fetcher{
		Metron: recorder(&calls, Metron, &metadata.MetronInfo{}, nil, nil),
	}, nil).Fetch(ctx, Query{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseName(t *testing.T) {
	t.Parallel()

	name, err := ParseName(" comicvine ")
	require.NoError(t, err)
	assert.Equal(t, Comicvine, name)

	_, err = ParseName("gcd")
	require.Error(t, err)
}

func TestQueryFromMetadata(t *testing.T) {
	t.Parallel()

	metron := &metadata.MetronInfo{
		IDs: []metadata.ID{
			{Source: metadata.SourceComicVine, Value: "4000-1"},
			{Source: metadata.SourceMetron, Primary: true, Value: "77"},
		},
		Series: metadata.Series{ID: "12", Name: "Example Series", Volume: 2, StartYear: 2020},
		Number: "5",
	}

	q := QueryFromMetadata(metron, &metadata.ComicInfo{Series: "Ignored"}, "/lib/Example.cbz")
	assert.Equal(t, "Example", q.Filename)
	assert.Equal(t, "Example Series", q.Series)
	assert.Equal(t, 2, q.Volume)
	assert.Equal(t, 2020, q.Year)
	assert.Equal(t, "5", q.Number)
	assert.Equal(t, "77", q.IssueIDs[metadata.SourceMetron])
	assert.Equal(t, "4000-1", q.IssueIDs[metadata.SourceComicVine])
	assert.Equal(t, map[metadata.InformationSource]string{metadata.SourceMetron: "12"}, q.SeriesIDs)

	ci := QueryFromMetadata(nil, &metadata.ComicInfo{Series: "Old", Number: "1", Volume: 1987}, "Old.cbr")
	assert.Equal(t, 1987, ci.Year)
	assert.Zero(t, ci.Volume)
	assert.False(t, ci.Empty())

	ci = QueryFromMetadata(nil, &metadata.ComicInfo{Series: "New", Volume: 3, Year: 2001}, "New.cbr")
	assert.Equal(t, 3, ci.Volume)
	assert.Equal(t, 2001, ci.Year)

	empty := QueryFromMetadata(nil, nil, "Unknown.cbz")
	assert.True(t, empty.Empty())
	assert.Equal(t, "Unknown", empty.Filename)
}
