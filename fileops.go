// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
)

// tempSiblingPath returns a unique temporary path in the same directory as path.
func tempSiblingPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")
}

// ReplaceFile moves src over dst. When both live on different filesystems the
// payload is first copied next to dst and then renamed, so dst is either the
// old or the new content and never partial.
func ReplaceFile(src string, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return fmt.Errorf("move %s to %s: %w", src, dst, err)
	}

	tmp := tempSiblingPath(dst)
	if err := copyFile(src, tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("copy %s to %s: %w", src, tmp, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("move %s to %s: %w", tmp, dst, err)
	}

	return removeIfExists(src)
}

// isCrossDevice reports whether rename failed because of different filesystems.
func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return errors.Is(linkErr.Err, syscall.EXDEV)
	}

	return false
}

// copyFile streams src to a newly created dst and syncs it.
func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("remove %s: %w", path, err)
}

// newScratchRoot creates a private temporary root and returns it with a
// content directory inside. Packing the content directory places output in
// the private root, never in a shared temp directory.
func newScratchRoot(prefix string) (string, string, error) {
	root, err := os.MkdirTemp("", prefix)
	if err != nil {
		return "", "", fmt.Errorf("create scratch dir: %w", err)
	}

	content := filepath.Join(root, "content")
	if err := os.Mkdir(content, 0o750); err != nil {
		_ = os.RemoveAll(root)
		return "", "", fmt.Errorf("create scratch dir: %w", err)
	}

	return root, content, nil
}
