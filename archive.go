// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// archiveBase holds identity shared by all format implementations and
// rejects mutations for formats that are not editable.
type archiveBase struct {
	path   string
	format Format
}

// Path returns the container file path.
func (a *archiveBase) Path() string {
	return a.path
}

// Format returns the detected container format.
func (a *archiveBase) Format() Format {
	return a.format
}

// Write rejects in-place writes.
func (a *archiveBase) Write(name string, _ []byte) error {
	return archiveErr("write", a.path, name, ErrOperationUnsupported)
}

// Delete rejects in-place removals.
func (a *archiveBase) Delete(name string) error {
	return archiveErr("delete", a.path, name, ErrOperationUnsupported)
}

// Rename rejects in-place renames.
func (a *archiveBase) Rename(oldName string, _ string, _ bool) error {
	return archiveErr("rename", a.path, oldName, ErrOperationUnsupported)
}

// Contains reports whether the archive lists name.
func Contains(a Archive, name string) (bool, error) {
	if a == nil {
		return false, ErrNilArchive
	}

	names, err := a.List()
	if err != nil {
		return false, err
	}

	return slices.Contains(names, name), nil
}

// CreateFromFiles packs files found under sourceDir into a new container of
// this format. Each file is stored at its path relative to sourceDir. The
// result is written next to sourceDir as outputName plus the format extension
// and its path is returned.
func (f Format) CreateFromFiles(sourceDir string, outputName string, files []string) (string, error) {
	outputPath := filepath.Join(filepath.Dir(filepath.Clean(sourceDir)), outputName+f.Extension())
	if f.create == nil {
		return "", archiveErr("create", outputPath, "", ErrOperationUnsupported)
	}

	for _, file := range files {
		rel, err := filepath.Rel(sourceDir, file)
		if err != nil || rel == "." || strings.HasPrefix(filepath.ToSlash(rel), "../") {
			return "", archiveErr("create", outputPath, file, fmt.Errorf("%w: outside %s", ErrInvalidEntryPath, sourceDir))
		}
	}

	if err := f.create(sourceDir, outputPath, files); err != nil {
		_ = os.Remove(outputPath)
		return "", archiveErr("create", outputPath, "", err)
	}

	return outputPath, nil
}

// ListFiles returns regular files below root in natural order. Dot files are
// skipped. When extensions are given only files with a matching lowercase
// extension are returned.
func ListFiles(root string, extensions ...string) ([]string, error) {
	return walkFiles(root, true, extensions)
}

// listStagedFiles returns every regular file below root in natural order,
// dot files included.
func listStagedFiles(root string) ([]string, error) {
	return walkFiles(root, false, nil)
}

func walkFiles(root string, skipDot bool, extensions []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() || (skipDot && strings.HasPrefix(d.Name(), ".")) {
			return nil
		}
		if len(extensions) > 0 && !slices.Contains(extensions, strings.ToLower(filepath.Ext(p))) {
			return nil
		}

		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list files in %s: %w", root, err)
	}

	SortNatural(files)
	return files, nil
}

// SortNatural orders names so that "page2" sorts before "page10".
func SortNatural(names []string) {
	slices.SortStableFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		default:
			return 0
		}
	})
}

// relativeEntryName returns slash-separated name of file relative to root.
func relativeEntryName(root string, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", fmt.Errorf("relative path of %s: %w", file, err)
	}

	return normalizeEntryName(filepath.ToSlash(rel))
}
