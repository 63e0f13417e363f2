// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

/*
Package service queries external comic catalogs for issue metadata.

Catalog clients implement Fetcher. A Chain asks them in a configured order
and returns the first non-empty answer:

	chain := service.NewChain([]service.Name{service.Metron, service.Comicvine}, fetchers, nil)
	metron, comicInfo, err := chain.Fetch(ctx, service.QueryFromMetadata(c.MetronInfo(), c.ComicInfo(), c.Path()))
*/
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/woozymasta/cbx/metadata"
)

var (
	// ErrNoServices means the chain has no usable fetcher.
	ErrNoServices = errors.New("no metadata services configured")
	// ErrNoResult means no service returned metadata.
	ErrNoResult = errors.New("no service returned metadata")
)

// Name identifies a catalog service.
type Name string

// Known services.
const (
	Metron    Name = "Metron"
	Marvel    Name = "Marvel"
	Comicvine Name = "Comicvine"
)

// DefaultOrder is the default lookup order.
var DefaultOrder = []Name{Metron, Marvel, Comicvine}

// ParseName matches raw case-insensitively against known services.
func ParseName(raw string) (Name, error) {
	for _, name := range DefaultOrder {
		if strings.EqualFold(strings.TrimSpace(raw), string(name)) {
			return name, nil
		}
	}

	return "", fmt.Errorf("unknown service %q", raw)
}

// Fetcher looks up one issue in a catalog. Either result may be nil.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*metadata.MetronInfo, *metadata.ComicInfo, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, q Query) (*metadata.MetronInfo, *metadata.ComicInfo, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, q Query) (*metadata.MetronInfo, *metadata.ComicInfo, error) {
	return f(ctx, q)
}

// Chain asks fetchers in order and stops at the first non-empty result.
type Chain struct {
	fetchers map[Name]Fetcher
	logger   *slog.Logger
	order    []Name
}

// NewChain builds a chain over fetchers in order. Names in order without a
// fetcher are skipped. A nil logger uses slog.Default.
func NewChain(order []Name, fetchers map[Name]Fetcher, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}

	return &Chain{
		fetchers: fetchers,
		logger:   logger,
		order:    order,
	}
}

// Fetch implements Fetcher. Service errors are logged and the next service
// is tried; when every service fails the errors are joined. Calls are not
// retried.
func (c *Chain) Fetch(ctx context.Context, q Query) (*metadata.MetronInfo, *metadata.ComicInfo, error) {
	var (
		errs []error
		used int
	)

	for _, name := range c.order {
		fetcher, ok := c.fetchers[name]
		if !ok || fetcher == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		used++
		metron, comicInfo, err := fetcher.Fetch(ctx, q)
		if err != nil {
			c.logger.Warn("service fetch failed", slog.String("service", string(name)), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if metron == nil && comicInfo == nil {
			c.logger.Debug("service returned nothing", slog.String("service", string(name)))
			continue
		}

		c.logger.Info("fetched metadata", slog.String("service", string(name)), slog.String("series", q.Series), slog.String("number", q.Number))
		return metron, comicInfo, nil
	}

	if used == 0 {
		return nil, nil, ErrNoServices
	}
	if len(errs) == used {
		return nil, nil, errors.Join(errs...)
	}

	return nil, nil, ErrNoResult
}
