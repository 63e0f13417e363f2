// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package comic

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockPath returns the advisory lock file for archivePath under dir.
// The name is keyed by a hash of the absolute path.
func lockPath(dir string, archivePath string) string {
	abs, err := filepath.Abs(archivePath)
	if err != nil {
		abs = archivePath
	}

	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(dir, "cbx-"+hex.EncodeToString(sum[:8])+".lock")
}

// acquireLock takes an exclusive non-blocking lock on archivePath.
func acquireLock(dir string, archivePath string) (*flock.Flock, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	lock := flock.New(lockPath(dir, archivePath))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", archivePath, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, archivePath)
	}

	return lock, nil
}
