// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package config

import (
	"log/slog"
	"time"

	"github.com/woozymasta/cbx"
	"github.com/woozymasta/cbx/comic"
	"github.com/woozymasta/cbx/naming"
	"github.com/woozymasta/cbx/service"
)

// RefreshPolicy returns the staleness policy for comic.NeedsRefresh.
func (s *Settings) RefreshPolicy() comic.RefreshPolicy {
	return comic.RefreshPolicy{
		StaleAfter:  time.Duration(s.Processing.StaleAfterDays) * 24 * time.Hour,
		MissingDate: s.Processing.MissingDate.AsTime(time.UTC),
	}
}

// NamingOptions returns template evaluation options.
func (s *Settings) NamingOptions(logger *slog.Logger) naming.Options {
	return naming.Options{
		Logger:    logger,
		Separator: s.Output.Naming.Separator,
	}
}

// ComicOptions returns options for comic.Open.
func (s *Settings) ComicOptions(registry *cbx.Registry, logger *slog.Logger) comic.Options {
	return comic.Options{
		Registry:        registry,
		Logger:          logger,
		ImageExtensions: s.ImageExtensions,
	}
}

// PlanOptions returns options for comic.BuildPlan.
func (s *Settings) PlanOptions(logger *slog.Logger) comic.PlanOptions {
	return comic.PlanOptions{
		Templates:  s.Output.Naming.Templates,
		Naming:     s.NamingOptions(logger),
		SkipClean:  s.Processing.SkipClean,
		SkipRename: s.Processing.SkipRename,
	}
}

// ServiceOrder returns configured services that have credentials, in order.
func (s *Settings) ServiceOrder() []service.Name {
	out := make([]service.Name, 0, len(s.Services.Order))
	for _, raw := range s.Services.Order {
		name, err := service.ParseName(raw)
		if err != nil || !s.Services.Configured(name) {
			continue
		}
		out = append(out, name)
	}

	return out
}

// Configured reports whether credentials for name are present.
func (s Services) Configured(name service.Name) bool {
	switch name {
	case service.Comicvine:
		return s.Comicvine.APIKey != ""
	case service.Marvel:
		return s.Marvel.PublicKey != "" && s.Marvel.PrivateKey != ""
	case service.Metron:
		return s.Metron.Username != "" && s.Metron.Password != ""
	default:
		return false
	}
}
