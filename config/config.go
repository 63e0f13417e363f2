// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

/*
Package config loads cbx settings from a TOML file.

Loading applies built-in defaults, then the file, then CBX_* environment
variables, normalizes values and validates the result:

	settings, path, exists, err := config.Load("")
*/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/woozymasta/cbx/naming"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CBX_"

const redacted = "********"

// ComicInfoOutput controls the ComicInfo sidecar.
type ComicInfoOutput struct {
	// Create writes ComicInfo.xml; false removes it.
	Create bool `toml:"create" env:"COMIC_INFO_CREATE"`
	// HandlePages rebuilds the page list from archive images.
	HandlePages bool `toml:"handle_pages" env:"COMIC_INFO_HANDLE_PAGES"`
}

// MetronInfoOutput controls the MetronInfo sidecar.
type MetronInfoOutput struct {
	// Create writes MetronInfo.xml; false removes it.
	Create bool `toml:"create" env:"METRON_INFO_CREATE"`
}

// Metadata groups sidecar output settings.
type Metadata struct {
	ComicInfo  ComicInfoOutput  `toml:"comic_info"`
	MetronInfo MetronInfoOutput `toml:"metron_info"`
}

// Naming configures output filenames.
type Naming struct {
	// Separator replaces spaces in names: "-", "_", "." or " ".
	Separator string `toml:"separator" env:"NAMING_SEPARATOR"`
	// Templates select the filename per series format.
	Templates naming.Templates `toml:"templates"`
}

// Output configures processed archives.
type Output struct {
	// Folder receives renamed archives.
	Folder string `toml:"folder" env:"OUTPUT_FOLDER"`
	// Format is the target archive kind: cbz, cbt or cb7.
	Format   string   `toml:"format" env:"OUTPUT_FORMAT"`
	Metadata Metadata `toml:"metadata"`
	Naming   Naming   `toml:"naming"`
}

// Processing configures the processing plan.
type Processing struct {
	// MissingDate stands in for a missing MetronInfo LastModified.
	MissingDate toml.LocalDate `toml:"missing_date"`
	// StaleAfterDays is the metadata age that triggers a refetch.
	StaleAfterDays int `toml:"stale_after_days" env:"STALE_AFTER_DAYS"`
	// SkipClean keeps extra archive entries.
	SkipClean bool `toml:"skip_clean" env:"SKIP_CLEAN"`
	// SkipRename keeps archive and image names.
	SkipRename bool `toml:"skip_rename" env:"SKIP_RENAME"`
}

// Comicvine holds Comicvine credentials.
type Comicvine struct {
	APIKey string `toml:"api_key,omitempty" env:"COMICVINE_API_KEY"`
}

// Marvel holds Marvel API credentials.
type Marvel struct {
	PublicKey  string `toml:"public_key,omitempty" env:"MARVEL_PUBLIC_KEY"`
	PrivateKey string `toml:"private_key,omitempty" env:"MARVEL_PRIVATE_KEY"`
}

// Metron holds Metron credentials.
type Metron struct {
	Username string `toml:"username,omitempty" env:"METRON_USERNAME"`
	Password string `toml:"password,omitempty" env:"METRON_PASSWORD"`
}

// Services configures external catalogs.
type Services struct {
	Comicvine Comicvine `toml:"comicvine"`
	Marvel    Marvel    `toml:"marvel"`
	Metron    Metron    `toml:"metron"`
	// Order lists service names in lookup order.
	Order []string `toml:"order" env:"SERVICES_ORDER" envSeparator:","`
}

// Logging configures log output.
type Logging struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level" env:"LOG_LEVEL"`
	// Format is text, json or auto.
	Format string `toml:"format" env:"LOG_FORMAT"`
}

// Settings is the full cbx configuration.
type Settings struct {
	// ImageExtensions lists page extensions with leading dots.
	ImageExtensions []string   `toml:"image_extensions" env:"IMAGE_EXTENSIONS" envSeparator:","`
	Output          Output     `toml:"output"`
	Processing      Processing `toml:"processing"`
	Services        Services   `toml:"services"`
	Logging         Logging    `toml:"logging"`
}

// DefaultPath returns $XDG_CONFIG_HOME/cbx/settings.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}

	return filepath.Join(dir, "cbx", "settings.toml"), nil
}

// Load reads settings from path, or from DefaultPath when path is empty,
// and applies CBX_* environment overrides. A missing file yields defaults.
// It returns the resolved path and whether the file exists.
func Load(path string) (*Settings, string, bool, error) {
	return load(path, true)
}

// LoadFile is Load without environment overrides. Use it before Save so
// overrides are not persisted.
func LoadFile(path string) (*Settings, string, bool, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (*Settings, string, bool, error) {
	settings := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer func() { _ = file.Close() }()

		if err := toml.NewDecoder(file).Decode(&settings); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if withEnv {
		if err := env.ParseWithOptions(&settings, env.Options{Prefix: EnvPrefix}); err != nil {
			return nil, "", false, fmt.Errorf("parse environment: %w", err)
		}
	}

	if err := settings.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := settings.Validate(); err != nil {
		return nil, "", false, err
	}

	return &settings, resolved, exists, nil
}

// Encode writes s to w as indented TOML.
func (s *Settings) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).SetIndentTables(true).Encode(s); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return nil
}

// Redacted returns a copy with credentials masked.
func (s *Settings) Redacted() Settings {
	out := *s
	for _, secret := range []*string{
		&out.Services.Comicvine.APIKey,
		&out.Services.Marvel.PrivateKey,
		&out.Services.Metron.Password,
	} {
		if *secret != "" {
			*secret = redacted
		}
	}

	return out
}

// Save writes s to path as TOML, creating parent directories.
func (s *Settings) Save(path string) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	// credentials may be stored in the file
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Init writes default settings to path. It fails when the file exists.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config %s: %w", path, fs.ErrExist)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	settings := Default()
	return settings.Save(path)
}

func resolvePath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", false, err
		}
	}

	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config %s is a directory", expanded)
	}

	return expanded, true, nil
}

// ExpandPath resolves a leading "~" and returns an absolute clean path.
func ExpandPath(value string) (string, error) {
	if value == "" {
		return value, nil
	}

	if value == "~" || strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, value[1:])
	}

	absolute, err := filepath.Abs(filepath.Clean(value))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}

	return absolute, nil
}
