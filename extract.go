// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// extractCopyBufferSize defines per-worker buffer size for file copy during extraction.
const extractCopyBufferSize = 64 * 1024

// extractEntry describes one container member before validation.
type extractEntry struct {
	// open returns member payload; nil for streamed formats.
	open func() (io.ReadCloser, error)
	name string
	dir  bool
	link bool
}

// extractWorkItem stores one validated member with prepared output relative paths.
type extractWorkItem struct {
	open    func() (io.ReadCloser, error)
	name    string
	relPath string
	relDir  string
}

// prepareExtractWorkItems validates every member before anything is written.
// Links and names escaping the root are rejected with ErrPathTraversal.
// Members sharing an output path collapse to the last one in archive order.
func prepareExtractWorkItems(entries []extractEntry) ([]extractWorkItem, error) {
	workItems := make([]extractWorkItem, 0, len(entries))
	byPath := make(map[string]int, len(entries))
	for _, entry := range entries {
		if entry.link {
			return nil, fmt.Errorf("%w: link entry %q", ErrPathTraversal, entry.name)
		}

		if strings.TrimSpace(entry.name) == "" {
			continue
		}

		normalizedPath, err := normalizeExtractEntryPath(entry.name)
		if err != nil {
			return nil, fmt.Errorf("normalize entry path %q: %w", entry.name, err)
		}

		if entry.dir {
			continue
		}

		relPath := filepath.FromSlash(normalizedPath)
		relDir := filepath.Dir(relPath)
		if relDir == "." {
			relDir = ""
		}

		item := extractWorkItem{
			open:    entry.open,
			name:    entry.name,
			relPath: relPath,
			relDir:  relDir,
		}
		if idx, ok := byPath[relPath]; ok {
			workItems[idx] = item
			continue
		}

		byPath[relPath] = len(workItems)
		workItems = append(workItems, item)
	}

	return workItems, nil
}

// extractTarget tracks files written under one destination root so a failed
// extraction can be undone.
type extractTarget struct {
	root    string
	written []string
	mu      sync.Mutex
}

// newExtractTarget resolves destDir and creates every parent directory needed by items.
func newExtractTarget(destDir string, workItems []extractWorkItem) (*extractTarget, error) {
	rootAbs, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(rootAbs, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	seen := make(map[string]struct{}, len(workItems))
	for _, task := range workItems {
		if task.relDir == "" {
			continue
		}

		dirPath := filepath.Join(rootAbs, task.relDir)
		if _, exists := seen[dirPath]; exists {
			continue
		}

		seen[dirPath] = struct{}{}
		if err := os.MkdirAll(dirPath, 0o750); err != nil {
			return nil, fmt.Errorf("create output directory %s: %w", dirPath, err)
		}
	}

	return &extractTarget{root: rootAbs}, nil
}

// write copies one member stream to its output path.
func (t *extractTarget) write(task extractWorkItem, src io.Reader, buf []byte) error {
	outPath := filepath.Join(t.root, task.relPath)
	file, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", task.name, err)
	}

	t.mu.Lock()
	t.written = append(t.written, outPath)
	t.mu.Unlock()

	_, copyErr := io.CopyBuffer(file, src, buf)
	closeErr := file.Close()
	if copyErr != nil {
		return fmt.Errorf("write %s: %w", task.name, copyErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close %s: %w", task.name, closeErr)
	}

	return nil
}

// discard removes files written so far.
func (t *extractTarget) discard() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, path := range t.written {
		_ = os.Remove(path)
	}
	t.written = nil
}

// extractParallel writes random-access members using up to workers goroutines.
// On failure every file already written is removed and the first error returned.
func extractParallel(destDir string, entries []extractEntry, workers int) error {
	workItems, err := prepareExtractWorkItems(entries)
	if err != nil {
		return err
	}

	target, err := newExtractTarget(destDir, workItems)
	if err != nil {
		return err
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for _, task := range workItems {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			rc, err := task.open()
			if err != nil {
				return fmt.Errorf("open entry %s: %w", task.name, err)
			}
			defer func() { _ = rc.Close() }()

			return target.write(task, rc, make([]byte, extractCopyBufferSize))
		})
	}

	if err := g.Wait(); err != nil {
		target.discard()
		return err
	}

	return nil
}

// extractStream writes members of a sequential container. scan walks the
// container and calls visit for each member; it runs twice, once to validate
// every header and once to write payloads.
func extractStream(destDir string, scan func(visit func(entry extractEntry, r io.Reader) error) error) error {
	var entries []extractEntry
	err := scan(func(entry extractEntry, _ io.Reader) error {
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return err
	}

	workItems, err := prepareExtractWorkItems(entries)
	if err != nil {
		return err
	}

	byName := make(map[string]extractWorkItem, len(workItems))
	for _, task := range workItems {
		byName[task.name] = task
	}

	target, err := newExtractTarget(destDir, workItems)
	if err != nil {
		return err
	}

	buf := make([]byte, extractCopyBufferSize)
	err = scan(func(entry extractEntry, r io.Reader) error {
		task, ok := byName[entry.name]
		if !ok || entry.dir {
			return nil
		}

		return target.write(task, r, buf)
	})
	if err != nil {
		target.discard()
		return err
	}

	return nil
}
