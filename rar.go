// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"errors"
	"io"
	"os"

	"github.com/nwaples/rardecode"
)

// RAR 1.5-4.x and 5.x signatures.
var (
	rarMagicV4 = []byte("Rar!\x1a\x07\x00")
	rarMagicV5 = []byte("Rar!\x1a\x07\x01\x00")
)

// RarFormat returns the read-only RAR container format (.cbr).
// Conversion into RAR fails with ErrConversionUnsupported.
func RarFormat() Format {
	return Format{
		Kind: KindRar,
		Capabilities: Capabilities{
			Readable: true,
		},
		probe: probeRar,
		open: func(path string, format Format) Archive {
			return &rarArchive{archiveBase: archiveBase{path: path, format: format}}
		},
	}
}

// probeRar checks the RAR signature.
func probeRar(path string) bool {
	return hasMagic(path, rarMagicV4, rarMagicV5)
}

// rarArchive is one RAR container on disk.
type rarArchive struct {
	archiveBase
}

// scan walks headers in order and calls visit with each member.
func (a *rarArchive) scan(visit func(entry extractEntry, r io.Reader) error) error {
	rc, err := rardecode.OpenReader(a.path, "")
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	for {
		header, err := rc.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		entry := extractEntry{
			name: header.Name,
			dir:  header.IsDir,
			link: header.Mode()&os.ModeSymlink != 0,
		}
		if err := visit(entry, rc); err != nil {
			return err
		}
	}
}

// List returns member file names in archive order.
func (a *rarArchive) List() ([]string, error) {
	var names []string
	err := a.scan(func(entry extractEntry, _ io.Reader) error {
		if !entry.dir {
			names = append(names, entry.name)
		}
		return nil
	})
	if err != nil {
		return nil, archiveErr("list", a.path, "", err)
	}

	return names, nil
}

// Read returns one member payload.
func (a *rarArchive) Read(name string) ([]byte, error) {
	normalized := NormalizePath(name)

	var data []byte
	found := false
	err := a.scan(func(entry extractEntry, r io.Reader) error {
		if found || entry.dir {
			return nil
		}
		if entry.name != name && NormalizePath(entry.name) != normalized {
			return nil
		}

		payload, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		data, found = payload, true
		return errStopScan
	})
	if err != nil && !errors.Is(err, errStopScan) {
		return nil, archiveErr("read", a.path, name, err)
	}
	if !found {
		return nil, archiveErr("read", a.path, name, ErrEntryNotFound)
	}

	return data, nil
}

// errStopScan ends a scan early once the wanted member was consumed.
var errStopScan = errors.New("stop scan")

// ExtractAll validates every header first, then writes payloads in a second pass.
func (a *rarArchive) ExtractAll(destDir string) error {
	return archiveErr("extract", a.path, "", extractStream(destDir, a.scan))
}
