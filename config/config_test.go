// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/cbx"
	"github.com/woozymasta/cbx/service"
)

// isolate points config and data roots at temporary directories.
func isolate(t *testing.T) (configDir, dataDir string) {
	t.Helper()

	configDir = t.TempDir()
	dataDir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	t.Setenv("XDG_DATA_HOME", dataDir)

	return configDir, dataDir
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	configDir, dataDir := isolate(t)

	settings, path, exists, err := Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(configDir, "cbx", "settings.toml"), path)

	assert.Equal(t, filepath.Join(dataDir, "cbx"), settings.Output.Folder)
	assert.Equal(t, []string{".png", ".jpg", ".jpeg", ".webp", ".jxl"}, settings.ImageExtensions)
	assert.True(t, settings.Output.Metadata.ComicInfo.Create)
	assert.True(t, settings.Output.Metadata.ComicInfo.HandlePages)
	assert.True(t, settings.Output.Metadata.MetronInfo.Create)
	assert.Equal(t, "-", settings.Output.Naming.Separator)
	assert.Equal(t, 28, settings.Processing.StaleAfterDays)
	assert.Equal(t, []string{"Metron", "Marvel", "Comicvine"}, settings.Services.Order)
	assert.Empty(t, settings.ServiceOrder())
	assert.Equal(t, "info", settings.Logging.Level)
	assert.Equal(t, "auto", settings.Logging.Format)

	kind, err := settings.OutputKind()
	require.NoError(t, err)
	assert.Equal(t, cbx.KindZip, kind)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	isolate(t)

	path := writeConfig(t, `
image_extensions = ["PNG", "jpg", ".png", " "]

[output]
format = "CB7"

[output.naming]
separator = "_"

[services]
order = ["comicvine", "metron", "Comicvine"]

[services.comicvine]
api_key = " key "
`)

	folder := t.TempDir()
	t.Setenv("CBX_OUTPUT_FOLDER", folder)
	t.Setenv("CBX_LOG_LEVEL", "DEBUG")
	t.Setenv("CBX_METRON_USERNAME", "reader")
	t.Setenv("CBX_METRON_PASSWORD", "secret")
	t.Setenv("CBX_STALE_AFTER_DAYS", "7")

	settings, resolved, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)

	assert.Equal(t, []string{".png", ".jpg"}, settings.ImageExtensions)
	assert.Equal(t, "cb7", settings.Output.Format)
	assert.Equal(t, folder, settings.Output.Folder)
	assert.Equal(t, "_", settings.Output.Naming.Separator)
	assert.Equal(t, "debug", settings.Logging.Level)
	assert.Equal(t, 7, settings.Processing.StaleAfterDays)
	assert.Equal(t, "key", settings.Services.Comicvine.APIKey)
	assert.Equal(t, []string{"Comicvine", "Metron"}, settings.Services.Order)
	assert.Equal(t, []service.Name{service.Comicvine, service.Metron}, settings.ServiceOrder())

	// templates not present in the file keep their defaults
	assert.NotEmpty(t, settings.Output.Naming.Templates.Default)
	assert.Contains(t, settings.Output.Naming.Templates.Formats, "trade_paperback")
}

func TestLoadInvalid(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		content string
	}{
		{name: "rar output", content: "[output]\nformat = \"cbr\"\n"},
		{name: "unknown format", content: "[output]\nformat = \"pdf\"\n"},
		{name: "separator", content: "[output.naming]\nseparator = \"+\"\n"},
		{name: "unknown token", content: "[output.naming.templates]\ndefault = \"{series-name}_{nope}\"\n"},
		{name: "stale days", content: "[processing]\nstale_after_days = -1\n"},
		{name: "service", content: "[services]\norder = [\"Gcd\"]\n"},
		{name: "half credentials", content: "[services.marvel]\npublic_key = \"p\"\n"},
		{name: "log level", content: "[logging]\nlevel = \"loud\"\n"},
		{name: "log format", content: "[logging]\nformat = \"xml\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Load(writeConfig(t, tt.content))
			require.ErrorIs(t, err, ErrInvalidSettings)
		})
	}

	_, _, _, err := Load(writeConfig(t, "[output\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSettings)
}

func TestSaveAndReload(t *testing.T) {
	isolate(t)

	settings := Default()
	settings.Output.Format = "cbt"
	settings.Output.Naming.Separator = " "
	settings.Processing.SkipClean = true
	settings.Services.Comicvine.APIKey = "key"
	settings.Services.Order = []string{"Comicvine"}

	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	require.NoError(t, settings.Save(path))

	loaded, _, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, settings, *loaded)
}

func TestInit(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "cbx", "settings.toml")
	require.NoError(t, Init(path))

	loaded, _, exists, err := Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, Default(), *loaded)

	require.ErrorIs(t, Init(path), fs.ErrExist)
}

func TestSet(t *testing.T) {
	isolate(t)

	settings := Default()

	require.NoError(t, settings.Set("output.format", "cbt"))
	assert.Equal(t, "cbt", settings.Output.Format)

	require.NoError(t, settings.Set("processing.stale_after_days", "3"))
	assert.Equal(t, 3, settings.Processing.StaleAfterDays)

	require.NoError(t, settings.Set("processing.skip_rename", "true"))
	assert.True(t, settings.Processing.SkipRename)

	require.NoError(t, settings.Set("services.comicvine.api_key", "abc"))
	assert.Equal(t, "abc", settings.Services.Comicvine.APIKey)

	require.NoError(t, settings.Set("services.order", `["marvel", "metron"]`))
	assert.Equal(t, []string{"Marvel", "Metron"}, settings.Services.Order)

	require.NoError(t, settings.Set("output.naming.templates.formats.annual", "{series-name}_Annual_#{number:2}"))
	assert.Equal(t, "{series-name}_Annual_#{number:2}", settings.Output.Naming.Templates.Formats["annual"])

	before := settings
	require.ErrorIs(t, settings.Set("output.format", "cbr"), ErrInvalidSettings)
	require.ErrorIs(t, settings.Set("output.bogus", "1"), ErrInvalidSettings)
	require.ErrorIs(t, settings.Set("output..format", "cbz"), ErrInvalidSettings)
	assert.Equal(t, before, settings)
}

func TestConverters(t *testing.T) {
	isolate(t)

	settings := Default()
	policy := settings.RefreshPolicy()
	assert.Equal(t, 28*24*time.Hour, policy.StaleAfter)
	assert.Equal(t, time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC), policy.MissingDate)

	plan := settings.PlanOptions(nil)
	assert.Equal(t, "-", plan.Naming.Separator)
	assert.Equal(t, settings.Output.Naming.Templates, plan.Templates)

	opts := settings.ComicOptions(nil, nil)
	assert.Equal(t, settings.ImageExtensions, opts.ImageExtensions)

	settings.Services.Marvel = Marvel{PublicKey: "pub", PrivateKey: "priv"}
	assert.Equal(t, []service.Name{service.Marvel}, settings.ServiceOrder())
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/comics")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "comics"), got)

	got, err = ExpandPath("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadFileIgnoresEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("CBX_OUTPUT_FORMAT", "cbt")

	path := writeConfig(t, "[output]\nformat = \"cb7\"\n")

	fromFile, _, _, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "cb7", fromFile.Output.Format)

	withEnv, _, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cbt", withEnv.Output.Format)
}

func TestEncodeRedacted(t *testing.T) {
	isolate(t)

	settings := Default()
	settings.Services.Metron = Metron{Username: "reader", Password: "hunter2"}

	redactedCopy := settings.Redacted()
	assert.Equal(t, "hunter2", settings.Services.Metron.Password)
	assert.Equal(t, "reader", redactedCopy.Services.Metron.Username)

	var buf strings.Builder
	require.NoError(t, redactedCopy.Encode(&buf))
	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), "stale_after_days = 28")
	assert.Contains(t, buf.String(), "missing_date = 1900-01-01")
}
