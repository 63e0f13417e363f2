// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/woozymasta/cbx/comic"
	"github.com/woozymasta/cbx/naming"
	"github.com/woozymasta/cbx/service"
)

func (s *Settings) normalize() error {
	s.normalizeImages()
	if err := s.normalizeOutput(); err != nil {
		return err
	}
	s.normalizeServices()
	s.normalizeLogging()
	return nil
}

func (s *Settings) normalizeImages() {
	out := make([]string, 0, len(s.ImageExtensions))
	for _, ext := range s.ImageExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if !slices.Contains(out, ext) {
			out = append(out, ext)
		}
	}

	if len(out) == 0 {
		out = slices.Clone(comic.DefaultImageExtensions)
	}
	s.ImageExtensions = out
}

func (s *Settings) normalizeOutput() error {
	var err error
	if strings.TrimSpace(s.Output.Folder) == "" {
		s.Output.Folder = defaultOutputFolder()
	}
	if s.Output.Folder, err = ExpandPath(strings.TrimSpace(s.Output.Folder)); err != nil {
		return fmt.Errorf("output.folder: %w", err)
	}

	s.Output.Format = strings.ToLower(strings.TrimSpace(s.Output.Format))
	if s.Output.Format == "" {
		s.Output.Format = Default().Output.Format
	}

	// a single space is a valid separator
	if s.Output.Naming.Separator == "" {
		s.Output.Naming.Separator = naming.DefaultSeparator
	}

	templates := &s.Output.Naming.Templates
	templates.Default = strings.TrimSpace(templates.Default)
	if templates.Default == "" {
		templates.Default = naming.DefaultTemplates().Default
	}
	for key, template := range templates.Formats {
		templates.Formats[key] = strings.TrimSpace(template)
	}

	return nil
}

func (s *Settings) normalizeServices() {
	order := make([]string, 0, len(s.Services.Order))
	for _, raw := range s.Services.Order {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if name, err := service.ParseName(value); err == nil {
			value = string(name)
		}
		if !slices.Contains(order, value) {
			order = append(order, value)
		}
	}
	s.Services.Order = order

	s.Services.Comicvine.APIKey = strings.TrimSpace(s.Services.Comicvine.APIKey)
	s.Services.Marvel.PublicKey = strings.TrimSpace(s.Services.Marvel.PublicKey)
	s.Services.Marvel.PrivateKey = strings.TrimSpace(s.Services.Marvel.PrivateKey)
	s.Services.Metron.Username = strings.TrimSpace(s.Services.Metron.Username)
}

func (s *Settings) normalizeLogging() {
	s.Logging.Level = strings.ToLower(strings.TrimSpace(s.Logging.Level))
	if s.Logging.Level == "" {
		s.Logging.Level = defaultLogLevel
	}

	s.Logging.Format = strings.ToLower(strings.TrimSpace(s.Logging.Format))
	if s.Logging.Format == "" {
		s.Logging.Format = defaultLogFormat
	}
}
