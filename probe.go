// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"bytes"
	"io"
	"os"
)

// hasMagic reports whether file at path starts with any of magics.
func hasMagic(path string, magics ...[]byte) bool {
	size := 0
	for _, magic := range magics {
		size = max(size, len(magic))
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, size)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return false
	}
	head = head[:n]

	for _, magic := range magics {
		if bytes.HasPrefix(head, magic) {
			return true
		}
	}

	return false
}
