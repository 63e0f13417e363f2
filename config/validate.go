// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/woozymasta/cbx"
	"github.com/woozymasta/cbx/metadata"
	"github.com/woozymasta/cbx/naming"
	"github.com/woozymasta/cbx/service"
)

// ErrInvalidSettings wraps every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

var (
	separators = []string{"-", "_", ".", " "}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"auto", "text", "json"}
)

// Validate ensures the settings are usable.
func (s *Settings) Validate() error {
	if err := s.validateOutput(); err != nil {
		return err
	}
	if err := s.validateProcessing(); err != nil {
		return err
	}
	if err := s.validateServices(); err != nil {
		return err
	}
	return s.validateLogging()
}

func (s *Settings) validateOutput() error {
	if _, err := s.OutputKind(); err != nil {
		return err
	}

	if !slices.Contains(separators, s.Output.Naming.Separator) {
		return fmt.Errorf("%w: output.naming.separator must be one of %q", ErrInvalidSettings, separators)
	}

	known := append(metadata.MetronInfoTokens(), metadata.ComicInfoTokens()...)
	for _, template := range s.Output.Naming.Templates.All() {
		for _, token := range naming.Tokens(template) {
			if !slices.Contains(known, token) {
				return fmt.Errorf("%w: output.naming.templates: unknown token {%s} in %q", ErrInvalidSettings, token, template)
			}
		}
	}

	return nil
}

func (s *Settings) validateProcessing() error {
	if s.Processing.StaleAfterDays < 0 {
		return fmt.Errorf("%w: processing.stale_after_days must not be negative", ErrInvalidSettings)
	}

	date := s.Processing.MissingDate
	if date.Year < 1 || date.Month < 1 || date.Month > 12 || date.Day < 1 || date.Day > 31 {
		return fmt.Errorf("%w: processing.missing_date %q is not a date", ErrInvalidSettings, date.String())
	}

	return nil
}

func (s *Settings) validateServices() error {
	for _, name := range s.Services.Order {
		if _, err := service.ParseName(name); err != nil {
			return fmt.Errorf("%w: services.order: %w", ErrInvalidSettings, err)
		}
	}

	marvel := s.Services.Marvel
	if (marvel.PublicKey == "") != (marvel.PrivateKey == "") {
		return fmt.Errorf("%w: services.marvel needs both public_key and private_key", ErrInvalidSettings)
	}

	metron := s.Services.Metron
	if (metron.Username == "") != (metron.Password == "") {
		return fmt.Errorf("%w: services.metron needs both username and password", ErrInvalidSettings)
	}

	return nil
}

func (s *Settings) validateLogging() error {
	if !slices.Contains(logLevels, s.Logging.Level) {
		return fmt.Errorf("%w: logging.level must be one of %s", ErrInvalidSettings, strings.Join(logLevels, ", "))
	}
	if !slices.Contains(logFormats, s.Logging.Format) {
		return fmt.Errorf("%w: logging.format must be one of %s", ErrInvalidSettings, strings.Join(logFormats, ", "))
	}

	return nil
}

// OutputKind returns the configured output archive kind.
func (s *Settings) OutputKind() (cbx.Kind, error) {
	kind, ok := cbx.ParseKind(s.Output.Format)
	if !ok || kind == cbx.KindRar {
		return "", fmt.Errorf("%w: output.format %q must be cbz, cbt or cb7", ErrInvalidSettings, s.Output.Format)
	}

	return kind, nil
}
