// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

/*
Package comic is the façade over one comic archive: its container, its
page images and its metadata sidecars.

A Comic exclusively owns its archive for its lifetime; an advisory file lock
keeps other processes off the same file until Close.

	c, err := comic.Open("Example.cbr", comic.Options{})
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Convert(cbx.KindZip); err != nil {
		return err
	}
*/
package comic

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/woozymasta/pathrules"

	"github.com/woozymasta/cbx"
	"github.com/woozymasta/cbx/metadata"
	"github.com/woozymasta/cbx/naming"
)

var (
	// ErrLocked means another process holds the archive.
	ErrLocked = errors.New("comic archive is locked")
	// ErrClosed means the comic was already closed.
	ErrClosed = errors.New("comic is closed")
)

// DefaultImageExtensions lists page image extensions recognized by default.
var DefaultImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".jxl"}

// Options configures Open.
type Options struct {
	// Registry detects the container format; nil uses cbx.DefaultRegistry.
	Registry *cbx.Registry
	// Logger receives progress and warnings; nil uses slog.Default.
	Logger *slog.Logger
	// LockDir holds advisory lock files; empty uses os.TempDir.
	LockDir string
	// ImageExtensions lists page extensions; empty uses DefaultImageExtensions.
	ImageExtensions []string
}

// applyDefaults fills zero-valued options.
func (opts *Options) applyDefaults() {
	if opts.Registry == nil {
		opts.Registry = cbx.DefaultRegistry(cbx.RegistryOptions{})
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.ImageExtensions) == 0 {
		opts.ImageExtensions = DefaultImageExtensions
	}
}

// Comic is one comic archive with its decoded sidecars.
type Comic struct {
	archive   cbx.Archive
	registry  *cbx.Registry
	images    *pathrules.Matcher
	logger    *slog.Logger
	lock      *flock.Flock
	lockDir   string
	metron    *metadata.MetronInfo
	comicInfo *metadata.ComicInfo
}

// Open detects the container at path, locks it and reads its sidecars.
// Invalid sidecars are logged and treated as absent.
func Open(path string, opts Options) (*Comic, error) {
	opts.applyDefaults()

	images, err := newImageMatcher(opts.ImageExtensions)
	if err != nil {
		return nil, err
	}

	archive, err := opts.Registry.Load(path)
	if err != nil {
		return nil, err
	}

	lock, err := acquireLock(opts.LockDir, path)
	if err != nil {
		return nil, err
	}

	c := &Comic{
		archive:  archive,
		registry: opts.Registry,
		images:   images,
		logger:   opts.Logger,
		lock:     lock,
		lockDir:  opts.LockDir,
	}

	if _, _, err := c.ReadMetadata(); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// Close releases the archive lock. Closing twice is a no-op.
func (c *Comic) Close() error {
	if c.lock == nil {
		return nil
	}

	err := c.lock.Unlock()
	c.lock = nil
	return err
}

// Archive returns the underlying container handle.
func (c *Comic) Archive() cbx.Archive {
	return c.archive
}

// Path returns the container path.
func (c *Comic) Path() string {
	return c.archive.Path()
}

// Kind returns the container kind.
func (c *Comic) Kind() cbx.Kind {
	return c.archive.Format().Kind
}

// MetronInfo returns the loaded MetronInfo sidecar or nil.
func (c *Comic) MetronInfo() *metadata.MetronInfo {
	return c.metron
}

// ComicInfo returns the loaded ComicInfo sidecar or nil.
func (c *Comic) ComicInfo() *metadata.ComicInfo {
	return c.comicInfo
}

// entryReader is the read surface shared by archives and sessions.
type entryReader interface {
	List() ([]string, error)
	Read(name string) ([]byte, error)
}

// withReader runs fn against the archive directly when it is readable and
// through a read-only staging session otherwise.
func (c *Comic) withReader(fn func(r entryReader) error) error {
	if c.lock == nil {
		return ErrClosed
	}
	if c.archive.Format().Capabilities.Readable {
		return fn(c.archive)
	}

	return c.withSession(func(s *cbx.Session) error {
		return fn(s)
	})
}

// withSession runs fn inside one archive session; changes are committed
// when fn succeeds and rolled back otherwise.
func (c *Comic) withSession(fn func(s *cbx.Session) error) (err error) {
	if c.lock == nil {
		return ErrClosed
	}

	s, err := cbx.OpenSessionWithOptions(c.archive, cbx.SessionOptions{Logger: c.logger})
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := s.Rollback(); err == nil {
			err = rbErr
		}
	}()

	if err := fn(s); err != nil {
		return err
	}

	return s.Commit()
}

// Images returns page image entries in natural order.
func (c *Comic) Images() ([]string, error) {
	var names []string
	err := c.withReader(func(r entryReader) error {
		var err error
		names, err = c.listImages(r)
		return err
	})

	return names, err
}

// listImages filters image entries of r in natural order.
func (c *Comic) listImages(r entryReader) ([]string, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}

	images := make([]string, 0, len(entries))
	for _, name := range entries {
		if c.isImage(name) {
			images = append(images, name)
		}
	}

	cbx.SortNatural(images)
	return images, nil
}

// Extras returns entries that are neither page images nor sidecars.
func (c *Comic) Extras() ([]string, error) {
	var extras []string
	err := c.withReader(func(r entryReader) error {
		entries, err := r.List()
		if err != nil {
			return err
		}

		for _, name := range entries {
			if !c.isImage(name) && !isSidecar(name) {
				extras = append(extras, name)
			}
		}

		return nil
	})

	return extras, err
}

// isImage reports whether name has a page image extension.
func (c *Comic) isImage(name string) bool {
	candidate := cbx.NormalizePath(name)
	if candidate == "" {
		return false
	}

	return c.images.Included(candidate, false)
}

// isSidecar reports whether the base name of entry is a metadata sidecar.
func isSidecar(name string) bool {
	base := path.Base(cbx.NormalizePath(name))
	return base == metadata.ComicInfoFilename || base == metadata.MetronInfoFilename
}

// ReadMetadata reloads both sidecars from the archive. A missing sidecar
// yields nil; an invalid one is logged and yields nil too.
func (c *Comic) ReadMetadata() (*metadata.MetronInfo, *metadata.ComicInfo, error) {
	var metronData, comicData []byte
	err := c.withReader(func(r entryReader) error {
		entries, err := r.List()
		if err != nil {
			return err
		}

		if metronData, err = readSidecar(r, entries, metadata.MetronInfoFilename); err != nil {
			return err
		}
		comicData, err = readSidecar(r, entries, metadata.ComicInfoFilename)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	metron, err := metadata.ParseMetronInfo(metronData)
	if err != nil {
		c.logger.Error("invalid sidecar", slog.String("path", c.Path()), slog.String("file", metadata.MetronInfoFilename), slog.Any("error", err))
		metron = nil
	}

	comicInfo, err := metadata.ParseComicInfo(comicData)
	if err != nil {
		c.logger.Error("invalid sidecar", slog.String("path", c.Path()), slog.String("file", metadata.ComicInfoFilename), slog.Any("error", err))
		comicInfo = nil
	}

	c.metron, c.comicInfo = metron, comicInfo
	return metron, comicInfo, nil
}

// readSidecar reads filename at the archive root, also accepting a leading
// slash. Missing sidecars return nil data.
func readSidecar(r entryReader, entries []string, filename string) ([]byte, error) {
	for _, candidate := range []string{filename, "/" + filename} {
		for _, name := range entries {
			if name == candidate {
				return r.Read(name)
			}
		}
	}

	return nil, nil
}

// WriteMetadata stores records as sidecars in one archive session and
// reloads the metadata afterwards.
func (c *Comic) WriteMetadata(records ...metadata.Record) error {
	if len(records) == 0 {
		return nil
	}

	err := c.withSession(func(s *cbx.Session) error {
		for _, record := range records {
			data, err := record.Marshal()
			if err != nil {
				return err
			}
			if err := s.Write(record.Filename(), data); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	_, _, err = c.ReadMetadata()
	return err
}

// Clean removes every extra entry and returns the removed names.
func (c *Comic) Clean() ([]string, error) {
	extras, err := c.Extras()
	if err != nil || len(extras) == 0 {
		return nil, err
	}

	err = c.withSession(func(s *cbx.Session) error {
		for _, name := range extras {
			if err := s.Delete(name); err != nil {
				return err
			}
			c.logger.Info("removed extra", slog.String("entry", name), slog.String("path", c.Path()))
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return extras, nil
}

// Convert repacks the archive into kind. The comic keeps its lock on the
// new path.
func (c *Comic) Convert(kind cbx.Kind) error {
	if c.lock == nil {
		return ErrClosed
	}
	if c.Kind() == kind {
		return nil
	}

	oldPath := c.Path()
	converted, err := c.registry.Convert(c.archive, kind)
	if err != nil {
		return err
	}

	if err := c.rebind(converted); err != nil {
		return err
	}

	c.logger.Info("converted archive", slog.String("from", oldPath), slog.String("to", converted.Path()))
	return nil
}

// rebind points the comic at a relocated archive and moves the lock. The
// archive is rebound even when the new lock cannot be taken; the old lock is
// then kept until Close.
func (c *Comic) rebind(archive cbx.Archive) error {
	previous := c.archive.Path()
	c.archive = archive
	if archive.Path() == previous {
		return nil
	}

	lock, err := acquireLock(c.lockDir, archive.Path())
	if err != nil {
		return err
	}

	_ = c.lock.Unlock()
	c.lock = lock
	return nil
}

// Filename evaluates the naming template against the sidecars, preferring
// MetronInfo. It returns "" when neither sidecar yields a name.
func (c *Comic) Filename(templates naming.Templates, opts naming.Options) string {
	return GenerateNaming(c.metron, c.comicInfo, templates, opts)
}

// GenerateNaming evaluates templates for metron, falling back to comicInfo.
func GenerateNaming(metron *metadata.MetronInfo, comicInfo *metadata.ComicInfo, templates naming.Templates, opts naming.Options) string {
	var sources []naming.Source
	if metron != nil {
		sources = append(sources, naming.Source{Record: metron, Format: metron.SeriesFormat(), Templates: templates})
	}
	if comicInfo != nil {
		sources = append(sources, naming.Source{Record: comicInfo, Format: comicInfo.SeriesFormat(), Templates: templates})
	}

	return naming.Generate(opts, sources...)
}

// ValidateNaming reports whether every image base name starts with stem.
func (c *Comic) ValidateNaming(stem string) (bool, error) {
	images, err := c.Images()
	if err != nil {
		return false, err
	}

	for _, name := range images {
		if !strings.HasPrefix(path.Base(name), stem) {
			return false, nil
		}
	}

	return true, nil
}

// MoveTo relocates the archive to outDir/name plus the container extension.
// It returns the resulting path and whether the file moved. Nothing moves
// when the target equals the current path or already exists. A lock error
// after the move is returned with the new path and moved set.
func (c *Comic) MoveTo(name string, outDir string) (string, bool, error) {
	if c.lock == nil {
		return "", false, ErrClosed
	}

	name = strings.TrimLeft(name, "/")
	if name == "" {
		return c.Path(), false, nil
	}

	target, err := filepath.Abs(filepath.Join(outDir, filepath.FromSlash(name)+c.archive.Format().Extension()))
	if err != nil {
		return "", false, err
	}
	current, err := filepath.Abs(c.Path())
	if err != nil {
		return "", false, err
	}

	if target == current {
		return c.Path(), false, nil
	}
	if _, err := os.Stat(target); err == nil {
		c.logger.Warn("target already exists, skipping", slog.String("path", c.Path()), slog.String("target", target))
		return c.Path(), false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", false, err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", false, fmt.Errorf("create %s: %w", filepath.Dir(target), err)
	}
	if err := cbx.ReplaceFile(current, target); err != nil {
		return "", false, err
	}

	if err := c.rebind(c.archive.Format().Open(target)); err != nil {
		return target, true, err
	}

	c.logger.Info("moved archive", slog.String("from", current), slog.String("to", target))
	return target, true, nil
}

// RefreshPolicy decides when metadata is stale.
type RefreshPolicy struct {
	// StaleAfter is the age after which metadata is refetched.
	StaleAfter time.Duration
	// MissingDate stands in for a missing LastModified.
	MissingDate time.Time
}

// NeedsRefresh reports whether the sidecars should be refetched at now.
// Comics without any sidecar always need a refresh; otherwise the MetronInfo
// LastModified (or MissingDate) must be older than StaleAfter.
func (c *Comic) NeedsRefresh(now time.Time, policy RefreshPolicy) bool {
	if c.metron == nil && c.comicInfo == nil {
		return true
	}

	modified := policy.MissingDate
	if c.metron != nil && c.metron.LastModified != nil {
		modified = *c.metron.LastModified
	}

	return now.Sub(modified) >= policy.StaleAfter
}

// BuildPages probes every image and returns the ComicInfo page list.
// Types of pages already present in ComicInfo are kept. Images that cannot
// be probed are logged and listed without dimensions.
func (c *Comic) BuildPages(prober ImageProber) ([]metadata.Page, error) {
	if prober == nil {
		prober = DecodeProber{}
	}

	var existing []metadata.Page
	if c.comicInfo != nil {
		existing = c.comicInfo.Pages
	}

	var pages []metadata.Page
	err := c.withReader(func(r entryReader) error {
		images, err := c.listImages(r)
		if err != nil {
			return err
		}

		pages = make([]metadata.Page, 0, len(images))
		for idx, name := range images {
			data, err := r.Read(name)
			if err != nil {
				return err
			}

			width, height, probeErr := prober.Probe(data)
			page := metadata.NewPage(idx, idx == len(images)-1, width, height, int64(len(data)), metadata.PageAt(existing, idx))
			if probeErr != nil {
				c.logger.Warn("cannot probe page", slog.String("entry", name), slog.Any("error", probeErr))
				page.DoublePage = false
			}

			pages = append(pages, page)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return pages, nil
}

// newImageMatcher compiles extension rules for page images.
func newImageMatcher(extensions []string) (*pathrules.Matcher, error) {
	rules := make([]pathrules.Rule, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext == "" {
			continue
		}

		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: "*." + ext})
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		CaseInsensitive: true,
		DefaultAction:   pathrules.ActionExclude,
	})
	if err != nil {
		return nil, fmt.Errorf("compile image extensions: %w", err)
	}

	return matcher, nil
}
