// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/woozymasta/cbx"
	"github.com/woozymasta/cbx/comic"
	"github.com/woozymasta/cbx/config"
	"github.com/woozymasta/cbx/internal/logging"
	"github.com/woozymasta/cbx/service"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	fetchers     map[service.Name]service.Fetcher

	once     sync.Once
	err      error
	settings *config.Settings
	path     string
	exists   bool
	logger   *slog.Logger
	registry *cbx.Registry
}

func newCommandContext(configFlag, logLevelFlag *string, fetchers map[service.Name]service.Fetcher) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		fetchers:     fetchers,
	}
}

// ensure loads settings and builds the logger once per process.
func (c *commandContext) ensure(cmd *cobra.Command) error {
	c.once.Do(func() {
		settings, path, exists, err := config.Load(c.configPath())
		if err != nil {
			c.err = fmt.Errorf("load config: %w", err)
			return
		}

		level := settings.Logging.Level
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = *c.logLevelFlag
		}

		logger, err := logging.New(logging.Options{
			Writer: cmd.ErrOrStderr(),
			Level:  level,
			Format: settings.Logging.Format,
		})
		if err != nil {
			c.err = err
			return
		}

		c.settings = settings
		c.path = path
		c.exists = exists
		c.logger = logger
		c.registry = cbx.DefaultRegistry(cbx.RegistryOptions{})
	})

	return c.err
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}

	return strings.TrimSpace(*c.configFlag)
}

// open opens one comic with the loaded settings.
func (c *commandContext) open(path string) (*comic.Comic, error) {
	return comic.Open(path, c.settings.ComicOptions(c.registry, c.logger))
}

// collect expands args into archive paths. Directories are walked for
// known container extensions.
func (c *commandContext) collect(args []string) ([]string, error) {
	extensions := make([]string, 0, len(c.registry.Formats()))
	for _, format := range c.registry.Formats() {
		extensions = append(extensions, format.Extension())
	}

	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			out = append(out, filepath.Clean(arg))
			continue
		}

		files, err := cbx.ListFiles(arg, extensions...)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}

	cbx.SortNatural(out)
	return slices.Compact(out), nil
}

// eachComic opens every archive in paths and calls fn. Failures are logged
// and counted; the error reports how many archives failed.
func (c *commandContext) eachComic(paths []string, fn func(*comic.Comic) error) error {
	failed := 0
	for _, path := range paths {
		err := func() error {
			book, err := c.open(path)
			if err != nil {
				return err
			}
			defer func() { _ = book.Close() }()

			return fn(book)
		}()
		if err != nil {
			failed++
			c.logger.Error("archive failed", slog.String("path", path), slog.Any("error", err))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d archives failed", failed, len(paths))
	}

	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}

	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}
