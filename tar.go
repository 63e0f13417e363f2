// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
)

// gzipMagic is the gzip member header prefix.
var gzipMagic = []byte{0x1f, 0x8b}

// tarUstarOffset is the position of the "ustar" magic in a tar header block.
const tarUstarOffset = 257

// TarFormat returns the gzip-compressed TAR container format (.cbt).
// No capability flag is set: members cannot be read individually and edits
// go through a staging session, but CreateFromFiles still packs containers.
// Plain uncompressed TAR files are accepted on read.
func TarFormat() Format {
	return Format{
		Kind:  KindTar,
		probe: probeTar,
		open: func(path string, format Format) Archive {
			return &tarArchive{archiveBase: archiveBase{path: path, format: format}}
		},
		create: createTar,
	}
}

// probeTar reports whether the first tar header can be decoded.
func probeTar(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	tr, closeFn, err := newTarReader(f)
	if err != nil {
		return false
	}
	defer closeFn()

	_, err = tr.Next()
	return err == nil
}

// newTarReader wraps r in gzip when the stream is compressed. A plain stream
// must carry the ustar magic to avoid matching arbitrary data.
func newTarReader(r io.Reader) (*tar.Reader, func(), error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(tarUstarOffset + 5)
	if err != nil && len(head) < len(gzipMagic) {
		return nil, nil, fmt.Errorf("read tar header: %w", err)
	}

	if bytes.HasPrefix(head, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip stream: %w", err)
		}

		return tar.NewReader(zr), func() { _ = zr.Close() }, nil
	}

	if len(head) < tarUstarOffset+5 || string(head[tarUstarOffset:tarUstarOffset+5]) != "ustar" {
		return nil, nil, errors.New("not a tar stream")
	}

	return tar.NewReader(br), func() {}, nil
}

// createTar writes a gzip-compressed tar with files stored relative to sourceDir.
func createTar(sourceDir string, outputPath string, files []string) error {
	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	zw := gzip.NewWriter(out)
	tw := tar.NewWriter(zw)
	for _, file := range files {
		if err := addTarFile(tw, sourceDir, file); err != nil {
			_ = tw.Close()
			_ = zw.Close()
			_ = out.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		_ = zw.Close()
		_ = out.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// addTarFile streams one regular file into tw.
func addTarFile(tw *tar.Writer, sourceDir string, file string) error {
	name, err := relativeEntryName(sourceDir, file)
	if err != nil {
		return err
	}

	info, err := os.Stat(file)
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("tar header %s: %w", name, err)
	}
	header.Name = name
	header.Format = tar.FormatPAX

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("tar entry %s: %w", name, err)
	}

	in, err := os.Open(file)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	if _, err := io.Copy(tw, in); err != nil {
		return fmt.Errorf("tar entry %s: %w", name, err)
	}

	return nil
}

// tarArchive is one TAR container on disk.
type tarArchive struct {
	archiveBase
}

// scan walks container headers in order and calls visit with each supported member.
func (a *tarArchive) scan(visit func(entry extractEntry, r io.Reader) error) error {
	f, err := os.Open(a.path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	tr, closeFn, err := newTarReader(f)
	if err != nil {
		return err
	}
	defer closeFn()

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		entry := extractEntry{name: header.Name}
		switch header.Typeflag {
		case tar.TypeReg:
		case tar.TypeDir:
			entry.dir = true
		case tar.TypeSymlink, tar.TypeLink:
			entry.link = true
		default:
			continue
		}

		if err := visit(entry, tr); err != nil {
			return err
		}
	}
}

// List returns regular member names in archive order.
func (a *tarArchive) List() ([]string, error) {
	var names []string
	err := a.scan(func(entry extractEntry, _ io.Reader) error {
		if !entry.dir && !entry.link {
			names = append(names, entry.name)
		}
		return nil
	})
	if err != nil {
		return nil, archiveErr("list", a.path, "", err)
	}

	return names, nil
}

// Read is not supported; use a staging session.
func (a *tarArchive) Read(name string) ([]byte, error) {
	return nil, archiveErr("read", a.path, name, ErrOperationUnsupported)
}

// ExtractAll validates every header first, then writes payloads in a second pass.
func (a *tarArchive) ExtractAll(destDir string) error {
	return archiveErr("extract", a.path, "", extractStream(destDir, a.scan))
}
