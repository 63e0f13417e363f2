// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// sevenZipMagic is the 7z signature header prefix.
var sevenZipMagic = []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c}

// sevenZipBinaries lists executables tried for container creation.
var sevenZipBinaries = []string{"7zz", "7z", "7za"}

// SevenZipFormat returns the 7-Zip container format (.cb7).
// Reading is native. Creation runs an external 7-Zip executable; without one
// CreateFromFiles fails with ErrOperationUnsupported.
func SevenZipFormat(opts SevenZipOptions) Format {
	return Format{
		Kind: KindSevenZip,
		Capabilities: Capabilities{
			Readable:  true,
			Writeable: true,
		},
		probe: probeSevenZip,
		open: func(path string, format Format) Archive {
			return &sevenZipArchive{archiveBase: archiveBase{path: path, format: format}}
		},
		create: func(sourceDir string, outputPath string, files []string) error {
			return createSevenZip(opts.Binary, sourceDir, outputPath, files)
		},
	}
}

// probeSevenZip checks signature and that the header database parses.
func probeSevenZip(path string) bool {
	if !hasMagic(path, sevenZipMagic) {
		return false
	}

	rd, err := sevenzip.OpenReader(path)
	if err != nil {
		return false
	}
	_ = rd.Close()

	return true
}

// SevenZipBinary resolves the 7-Zip executable; empty preferred means auto-detect.
func SevenZipBinary(preferred string) (string, error) {
	candidates := sevenZipBinaries
	if preferred != "" {
		candidates = []string{preferred}
	}

	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", fmt.Errorf("%w: 7-Zip executable not found (%s)", ErrOperationUnsupported, strings.Join(candidates, ", "))
}

// createSevenZip runs "7z a" from sourceDir with relative member names.
// An existing file at outputPath is replaced.
func createSevenZip(binary string, sourceDir string, outputPath string, files []string) error {
	bin, err := SevenZipBinary(binary)
	if err != nil {
		return err
	}

	outAbs, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}

	// "7z a" appends to an existing archive.
	if err := removeIfExists(outAbs); err != nil {
		return err
	}

	args := []string{"a", "-t7z", "-bd", "-y", outAbs, "--"}
	for _, file := range files {
		name, err := relativeEntryName(sourceDir, file)
		if err != nil {
			return err
		}
		args = append(args, filepath.FromSlash(name))
	}

	var stderr bytes.Buffer
	cmd := exec.Command(bin, args...)
	cmd.Dir = sourceDir
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("%s: %w", filepath.Base(bin), err)
		}
		return fmt.Errorf("%s: %w: %s", filepath.Base(bin), err, msg)
	}

	return nil
}

// sevenZipArchive is one 7-Zip container on disk.
type sevenZipArchive struct {
	archiveBase
}

// List returns member file names in archive order.
func (a *sevenZipArchive) List() ([]string, error) {
	rd, err := sevenzip.OpenReader(a.path)
	if err != nil {
		return nil, archiveErr("list", a.path, "", err)
	}
	defer func() { _ = rd.Close() }()

	names := make([]string, 0, len(rd.File))
	for _, f := range rd.File {
		if f.FileInfo().IsDir() {
			continue
		}
		names = append(names, f.Name)
	}

	return names, nil
}

// Read returns one member payload.
func (a *sevenZipArchive) Read(name string) ([]byte, error) {
	rd, err := sevenzip.OpenReader(a.path)
	if err != nil {
		return nil, archiveErr("read", a.path, name, err)
	}
	defer func() { _ = rd.Close() }()

	f := findSevenZipFile(rd.File, name)
	if f == nil {
		return nil, archiveErr("read", a.path, name, ErrEntryNotFound)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, archiveErr("read", a.path, name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, archiveErr("read", a.path, name, err)
	}

	return data, nil
}

// ExtractAll writes every member under destDir after validating all names.
// Members are decoded sequentially so solid blocks are read once.
func (a *sevenZipArchive) ExtractAll(destDir string) error {
	rd, err := sevenzip.OpenReader(a.path)
	if err != nil {
		return archiveErr("extract", a.path, "", err)
	}
	defer func() { _ = rd.Close() }()

	entries := make([]extractEntry, 0, len(rd.File))
	for _, f := range rd.File {
		info := f.FileInfo()
		entries = append(entries, extractEntry{
			name: f.Name,
			dir:  info.IsDir(),
			link: info.Mode()&fs.ModeSymlink != 0,
			open: f.Open,
		})
	}

	return archiveErr("extract", a.path, "", extractParallel(destDir, entries, 1))
}

// findSevenZipFile looks a member up by exact name, then by normalized name.
func findSevenZipFile(files []*sevenzip.File, name string) *sevenzip.File {
	normalized := NormalizePath(name)
	var fallback *sevenzip.File
	for _, f := range files {
		if f.Name == name {
			return f
		}
		if fallback == nil && normalized != "" && NormalizePath(f.Name) == normalized {
			fallback = f
		}
	}

	return fallback
}
