// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/woozymasta/cbx"
	"github.com/woozymasta/cbx/comic"
	"github.com/woozymasta/cbx/naming"
	"github.com/woozymasta/cbx/service"
)

const (
	defaultStaleAfterDays = 28
	defaultLogLevel       = "info"
	defaultLogFormat      = "auto"
)

var defaultMissingDate = toml.LocalDate{Year: 1900, Month: 1, Day: 1}

// Default returns built-in settings.
func Default() Settings {
	order := make([]string, 0, len(service.DefaultOrder))
	for _, name := range service.DefaultOrder {
		order = append(order, string(name))
	}

	return Settings{
		ImageExtensions: slices.Clone(comic.DefaultImageExtensions),
		Output: Output{
			Folder: defaultOutputFolder(),
			Format: cbx.KindZip.String(),
			Metadata: Metadata{
				ComicInfo:  ComicInfoOutput{Create: true, HandlePages: true},
				MetronInfo: MetronInfoOutput{Create: true},
			},
			Naming: Naming{
				Separator: naming.DefaultSeparator,
				Templates: naming.DefaultTemplates(),
			},
		},
		Processing: Processing{
			MissingDate:    defaultMissingDate,
			StaleAfterDays: defaultStaleAfterDays,
		},
		Services: Services{Order: order},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// defaultOutputFolder returns $XDG_DATA_HOME/cbx or ~/.local/share/cbx.
func defaultOutputFolder() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "cbx")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/cbx"
	}

	return filepath.Join(home, ".local", "share", "cbx")
}
