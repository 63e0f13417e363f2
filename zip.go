// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Magic prefixes of ZIP local file header and empty-archive end record.
var (
	zipLocalMagic = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
)

// ZipFormat returns the ZIP container format (.cbz).
// It is readable, writeable and editable. Edits rewrite the container into a
// sibling temp file and atomically replace the original, so removed or
// replaced payloads never linger in the file.
func ZipFormat(opts ZipOptions) Format {
	opts.applyDefaults()
	codec := &zipCodec{opts: opts}

	return Format{
		Kind: KindZip,
		Capabilities: Capabilities{
			Readable:  true,
			Writeable: true,
			Editable:  true,
		},
		probe: probeZip,
		open: func(path string, format Format) Archive {
			return &zipArchive{archiveBase: archiveBase{path: path, format: format}, codec: codec}
		},
		create: codec.create,
	}
}

// probeZip checks ZIP magic and that the central directory can be parsed.
func probeZip(path string) bool {
	if !hasMagic(path, zipLocalMagic, zipEmptyMagic) {
		return false
	}

	rd, err := zip.OpenReader(path)
	if rd != nil {
		_ = rd.Close()
	}

	return err == nil || errors.Is(err, zip.ErrInsecurePath)
}

// zipCodec holds write policy shared by archives of one format value.
type zipCodec struct {
	opts ZipOptions
}

// matcher compiles compression rules.
func (c *zipCodec) matcher() (*compressMatcher, error) {
	return newCompressMatcher(c.opts.Compress, c.opts.CompressMatcherOptions)
}

// create writes a new container with files stored relative to sourceDir.
func (c *zipCodec) create(sourceDir string, outputPath string, files []string) error {
	matcher, err := c.matcher()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	for _, file := range files {
		if err := addZipFile(zw, matcher, sourceDir, file); err != nil {
			_ = zw.Close()
			_ = out.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// addZipFile streams one file from disk into zw.
func addZipFile(zw *zip.Writer, matcher *compressMatcher, sourceDir string, file string) error {
	name, err := relativeEntryName(sourceDir, file)
	if err != nil {
		return err
	}

	info, err := os.Stat(file)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header %s: %w", name, err)
	}
	header.Name = name
	header.Method = matcher.method(name)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("zip entry %s: %w", name, err)
	}

	in, err := os.Open(file)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("zip entry %s: %w", name, err)
	}

	return nil
}

// zipArchive is one ZIP container on disk.
type zipArchive struct {
	codec *zipCodec
	archiveBase
}

// openReader opens the container; insecure member names are left for
// ExtractAll to reject.
func (a *zipArchive) openReader() (*zip.ReadCloser, error) {
	rd, err := zip.OpenReader(a.path)
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && rd != nil) {
		return nil, err
	}

	return rd, nil
}

// List returns member file names in archive order.
func (a *zipArchive) List() ([]string, error) {
	rd, err := a.openReader()
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
func (a *zipArchive) Read(name string) ([]byte, error) {
	rd, err := a.openReader()
	if err != nil {
		return nil, archiveErr("read", a.path, name, err)
	}
	defer func() { _ = rd.Close() }()

	f := findZipFile(rd.File, name)
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

// Write adds or replaces one member.
func (a *zipArchive) Write(name string, data []byte) error {
	normalized, err := normalizeEntryName(name)
	if err != nil {
		return archiveErr("write", a.path, name, err)
	}

	matcher, err := a.codec.matcher()
	if err != nil {
		return archiveErr("write", a.path, name, err)
	}

	err = a.rewrite(func(zw *zip.Writer, files []*zip.File) error {
		for _, f := range files {
			if NormalizePath(f.Name) == normalized {
				continue
			}
			if err := zw.Copy(f); err != nil {
				return err
			}
		}

		header := &zip.FileHeader{Name: normalized, Method: matcher.method(normalized)}
		header.SetMode(0o644)
		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})

	return archiveErr("write", a.path, name, err)
}

// Delete removes one member; missing members are ignored.
func (a *zipArchive) Delete(name string) error {
	present, err := a.has(name)
	if err != nil {
		return archiveErr("delete", a.path, name, err)
	}
	if !present {
		return nil
	}

	err = a.rewrite(func(zw *zip.Writer, files []*zip.File) error {
		target := findZipFile(files, name)
		for _, f := range files {
			if f == target {
				continue
			}
			if err := zw.Copy(f); err != nil {
				return err
			}
		}

		return nil
	})

	return archiveErr("delete", a.path, name, err)
}

// Rename moves one member to a new name without recompressing it.
func (a *zipArchive) Rename(oldName string, newName string, override bool) error {
	normalized, err := normalizeEntryName(newName)
	if err != nil {
		return archiveErr("rename", a.path, oldName, err)
	}

	err = a.rewrite(func(zw *zip.Writer, files []*zip.File) error {
		source := findZipFile(files, oldName)
		if source == nil {
			return ErrEntryNotFound
		}

		existing := findZipFile(files, normalized)
		if existing == source {
			return errNoChange
		}
		if existing != nil && !override {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
		}

		for _, f := range files {
			switch f {
			case existing:
				continue
			case source:
				if err := copyZipRenamed(zw, f, normalized); err != nil {
					return err
				}
			default:
				if err := zw.Copy(f); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if errors.Is(err, errNoChange) {
		return nil
	}

	return archiveErr("rename", a.path, oldName, err)
}

// ExtractAll writes every member under destDir after validating all names.
func (a *zipArchive) ExtractAll(destDir string) error {
	rd, err := a.openReader()
	if err != nil {
		return archiveErr("extract", a.path, "", err)
	}
	defer func() { _ = rd.Close() }()

	entries := make([]extractEntry, 0, len(rd.File))
	for _, f := range rd.File {
		entries = append(entries, extractEntry{
			name: f.Name,
			dir:  f.FileInfo().IsDir(),
			link: f.Mode()&os.ModeSymlink != 0,
			open: f.Open,
		})
	}

	return archiveErr("extract", a.path, "", extractParallel(destDir, entries, 0))
}

// has reports whether name is a member.
func (a *zipArchive) has(name string) (bool, error) {
	rd, err := a.openReader()
	if err != nil {
		return false, err
	}
	defer func() { _ = rd.Close() }()

	return findZipFile(rd.File, name) != nil, nil
}

// errNoChange short-circuits rewrite when the container would stay identical.
var errNoChange = errors.New("no change")

// rewrite copies the container through fn into a sibling temp file and
// replaces the original on success. On any failure the original is untouched.
func (a *zipArchive) rewrite(fn func(zw *zip.Writer, files []*zip.File) error) error {
	rd, err := a.openReader()
	if err != nil {
		return err
	}

	info, err := os.Stat(a.path)
	if err != nil {
		_ = rd.Close()
		return err
	}

	tmp := tempSiblingPath(a.path)
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		_ = rd.Close()
		return err
	}

	zw := zip.NewWriter(out)
	if rd.Comment != "" {
		_ = zw.SetComment(rd.Comment)
	}

	err = fn(zw, rd.File)
	if err == nil {
		err = zw.Close()
	}
	if err == nil {
		err = out.Sync()
	}

	closeErr := out.Close()
	_ = rd.Close()
	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, a.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return nil
}

// copyZipRenamed copies compressed payload of f under a new name.
func copyZipRenamed(zw *zip.Writer, f *zip.File, name string) error {
	header := f.FileHeader
	header.Name = name

	w, err := zw.CreateRaw(&header)
	if err != nil {
		return err
	}

	r, err := f.OpenRaw()
	if err != nil {
		return err
	}

	_, err = io.Copy(w, r)
	return err
}

// findZipFile looks a member up by exact name, then by normalized name.
func findZipFile(files []*zip.File, name string) *zip.File {
	for _, f := range files {
		if f.Name == name {
			return f
		}
	}

	normalized := NormalizePath(name)
	if normalized == "" {
		return nil
	}

	for _, f := range files {
		if !strings.HasSuffix(f.Name, "/") && NormalizePath(f.Name) == normalized {
			return f
		}
	}

	return nil
}
