// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package comic

import (
	"fmt"
	"log/slog"
	"path"
	"strconv"

	"github.com/woozymasta/cbx"
	"github.com/woozymasta/cbx/metadata"
	"github.com/woozymasta/cbx/naming"
)

// PlanOptions controls BuildPlan.
type PlanOptions struct {
	// Templates select the target filename.
	Templates naming.Templates
	// Naming configures template evaluation.
	Naming naming.Options
	// SkipClean keeps extra entries.
	SkipClean bool
	// SkipRename keeps image names and skips target naming.
	SkipRename bool
}

// Rename moves one entry.
type Rename struct {
	From string
	To   string
}

// Plan is the difference between a comic on disk and its desired state.
type Plan struct {
	comic *Comic

	// MetronInfo is the desired MetronInfo; nil removes the sidecar.
	MetronInfo *metadata.MetronInfo
	// ComicInfo is the desired ComicInfo; nil removes the sidecar.
	ComicInfo *metadata.ComicInfo
	// WriteMetron is set when the MetronInfo sidecar changes.
	WriteMetron bool
	// WriteComic is set when the ComicInfo sidecar changes.
	WriteComic bool
	// RemoveExtras lists entries to delete.
	RemoveExtras []string
	// RenameImages lists page renames in page order.
	RenameImages []Rename
	// Naming is the target path relative to the output folder, without extension.
	Naming string
}

// BuildPlan compares c with the desired sidecars.
func BuildPlan(c *Comic, metron *metadata.MetronInfo, comicInfo *metadata.ComicInfo, opts PlanOptions) (*Plan, error) {
	localMetron, localComic, err := c.ReadMetadata()
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		comic:       c,
		MetronInfo:  metron,
		ComicInfo:   comicInfo,
		WriteMetron: !metadata.Same(localMetron, metron),
		WriteComic:  !metadata.Same(localComic, comicInfo),
	}

	if !opts.SkipClean {
		if plan.RemoveExtras, err = c.Extras(); err != nil {
			return nil, err
		}
	}

	if opts.SkipRename {
		return plan, nil
	}

	plan.Naming = GenerateNaming(metron, comicInfo, opts.Templates, opts.Naming)
	if plan.Naming == "" {
		return plan, nil
	}

	stem := path.Base(plan.Naming)
	valid, err := c.ValidateNaming(stem)
	if err != nil || valid {
		return plan, err
	}

	images, err := c.Images()
	if err != nil {
		return nil, err
	}
	plan.RenameImages = imageRenames(images, stem)

	return plan, nil
}

// imageRenames maps images to <stem>_<index><ext>. The index is padded to
// the digit count of the image total. Unchanged names are skipped.
func imageRenames(images []string, stem string) []Rename {
	width := len(strconv.Itoa(len(images)))
	renames := make([]Rename, 0, len(images))
	for idx, name := range images {
		dir, base := path.Split(name)
		target := fmt.Sprintf("%s%s_%0*d%s", dir, stem, width, idx, path.Ext(base))
		if target != name {
			renames = append(renames, Rename{From: name, To: target})
		}
	}

	return renames
}

// Empty reports whether applying the plan changes nothing inside the archive.
func (p *Plan) Empty() bool {
	return !p.WriteMetron && !p.WriteComic && len(p.RemoveExtras) == 0 && len(p.RenameImages) == 0
}

// Apply performs every change in one archive session and reloads metadata.
// Relocation to Naming is left to Comic.MoveTo.
func (p *Plan) Apply() error {
	if p.Empty() {
		return nil
	}

	c := p.comic
	err := c.withSession(func(s *cbx.Session) error {
		if p.WriteMetron {
			if err := writeOrDelete(s, metadata.MetronInfoFilename, p.MetronInfo); err != nil {
				return err
			}
		}
		if p.WriteComic {
			if err := writeOrDelete(s, metadata.ComicInfoFilename, p.ComicInfo); err != nil {
				return err
			}
		}

		for _, name := range p.RemoveExtras {
			if err := s.Delete(name); err != nil {
				return err
			}
			c.logger.Info("removed extra", slog.String("entry", name), slog.String("path", c.Path()))
		}

		return renameAll(s, p.RenameImages)
	})
	if err != nil {
		return err
	}

	_, _, err = c.ReadMetadata()
	return err
}

// writeOrDelete stores record as name, or removes name for a nil record.
func writeOrDelete[T metadata.Record](s *cbx.Session, name string, record T) error {
	if metadata.Same(record, nil) {
		return s.Delete(name)
	}

	data, err := record.Marshal()
	if err != nil {
		return err
	}

	return s.Write(name, data)
}

// renameAll applies renames. When a target collides with a name that is
// still pending, every source is first parked under a temporary name.
func renameAll(s *cbx.Session, renames []Rename) error {
	pending := make(map[string]struct{}, len(renames))
	for _, r := range renames {
		pending[r.From] = struct{}{}
	}

	collides := false
	for _, r := range renames {
		if _, ok := pending[r.To]; ok {
			collides = true
			break
		}
	}

	if !collides {
		for _, r := range renames {
			if err := s.Rename(r.From, r.To, false); err != nil {
				return err
			}
		}

		return nil
	}

	parked := make([]string, len(renames))
	for i, r := range renames {
		dir, _ := path.Split(r.From)
		parked[i] = dir + "cbx-rename-" + strconv.Itoa(i) + path.Ext(r.From)
		if err := s.Rename(r.From, parked[i], false); err != nil {
			return err
		}
	}
	for i, r := range renames {
		if err := s.Rename(parked[i], r.To, false); err != nil {
			return err
		}
	}

	return nil
}
