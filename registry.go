// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"fmt"
	"os"
	"path/filepath"
)

// RegistryOptions configures the formats of the default registry.
type RegistryOptions struct {
	// Zip configures .cbz writes.
	Zip ZipOptions `json:"zip,omitzero" yaml:"zip,omitempty"`
	// SevenZip configures .cb7 creation.
	SevenZip SevenZipOptions `json:"seven_zip,omitzero" yaml:"seven_zip,omitempty"`
}

// Registry detects container formats by probing in a fixed order.
type Registry struct {
	formats []Format
}

// NewRegistry returns a registry probing formats in the given order.
func NewRegistry(formats ...Format) *Registry {
	return &Registry{formats: append([]Format(nil), formats...)}
}

// DefaultRegistry returns a registry probing Zip, Rar, Tar, SevenZip in that
// order. Zip and Rar signatures are strict and go first; the Tar probe
// decodes a full header and would otherwise be the weakest check.
func DefaultRegistry(opts RegistryOptions) *Registry {
	return NewRegistry(
		ZipFormat(opts.Zip),
		RarFormat(),
		TarFormat(),
		SevenZipFormat(opts.SevenZip),
	)
}

// Formats returns registered formats in probe order.
func (r *Registry) Formats() []Format {
	return append([]Format(nil), r.formats...)
}

// Format returns the registered format of kind.
func (r *Registry) Format(kind Kind) (Format, bool) {
	for _, format := range r.formats {
		if format.Kind == kind {
			return format, true
		}
	}

	return Format{}, false
}

// Load opens path as the first format whose probe matches.
func (r *Registry) Load(path string) (Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, archiveErr("load", path, "", err)
	}
	if info.IsDir() {
		return nil, archiveErr("load", path, "", ErrUnsupportedFormat)
	}

	for _, format := range r.formats {
		if format.Probe(path) {
			return format.Open(path), nil
		}
	}

	return nil, archiveErr("load", path, "", ErrUnsupportedFormat)
}

// Convert repacks a into target kind and returns a handle to the new file.
// The new file takes the old path with the target extension; the old file is
// removed. A container already of target kind is returned unchanged.
func (r *Registry) Convert(a Archive, target Kind) (Archive, error) {
	if a == nil {
		return nil, ErrNilArchive
	}

	if a.Format().Kind == target {
		return a, nil
	}

	format, ok := r.Format(target)
	if !ok || format.create == nil {
		return nil, archiveErr("convert", a.Path(), "", fmt.Errorf("%w: %s", ErrConversionUnsupported, target))
	}

	root, content, err := newScratchRoot("cbx-convert-")
	if err != nil {
		return nil, archiveErr("convert", a.Path(), "", err)
	}
	defer func() { _ = os.RemoveAll(root) }()

	if err := a.ExtractAll(content); err != nil {
		return nil, archiveErr("convert", a.Path(), "", err)
	}

	files, err := listStagedFiles(content)
	if err != nil {
		return nil, archiveErr("convert", a.Path(), "", err)
	}

	stem := TrimExtension(filepath.Base(a.Path()))
	packed, err := format.CreateFromFiles(content, stem, files)
	if err != nil {
		return nil, archiveErr("convert", a.Path(), "", err)
	}

	newPath := TrimExtension(a.Path()) + format.Extension()
	if err := ReplaceFile(packed, newPath); err != nil {
		return nil, archiveErr("convert", a.Path(), "", err)
	}

	if newPath != a.Path() {
		if err := removeIfExists(a.Path()); err != nil {
			return nil, archiveErr("convert", a.Path(), "", err)
		}
	}

	return format.Open(newPath), nil
}
