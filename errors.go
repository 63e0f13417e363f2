// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"errors"
	"strings"
)

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrUnsupportedFormat means no registered format recognized the file.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrEntryNotFound means the entry is not present in the archive.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrAlreadyExists means the rename destination exists and override was not requested.
	ErrAlreadyExists = errors.New("entry already exists")
	// ErrOperationUnsupported means the archive format cannot perform the operation.
	ErrOperationUnsupported = errors.New("operation not supported by archive format")
	// ErrPathTraversal means an entry escapes the extraction root or is a link.
	ErrPathTraversal = errors.New("path traversal detected")
	// ErrConversionUnsupported means the target format cannot produce archives.
	ErrConversionUnsupported = errors.New("conversion not supported")
	// ErrSessionClosed means the session was already committed or rolled back.
	ErrSessionClosed = errors.New("session already closed")
	// ErrInvalidEntryPath means an entry name is empty or invalid after normalization.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrNilArchive means the archive handle is nil.
	ErrNilArchive = errors.New("archive is nil")
	// ErrInvalidCompressPattern means zip compression rules could not be compiled.
	ErrInvalidCompressPattern = errors.New("invalid compress pattern")
)

// ArchiveError carries operation context for a failed archive call.
// It unwraps to one of the package sentinel errors or to the underlying I/O error.
type ArchiveError struct {
	// Op is the failed operation name (list, read, write, ...).
	Op string
	// Path is the archive file path.
	Path string
	// Entry is the entry name involved, when any.
	Entry string
	// Err is the wrapped cause.
	Err error
}

// Error implements error.
func (e *ArchiveError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Entry != "" {
		b.WriteString(" ")
		b.WriteString(e.Entry)
	}
	if e.Path != "" {
		b.WriteString(" in ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

// Unwrap returns the wrapped cause.
func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// archiveErr builds ArchiveError; nil cause returns nil.
func archiveErr(op string, path string, entry string, err error) error {
	if err == nil {
		return nil
	}

	var ae *ArchiveError
	if errors.As(err, &ae) && ae.Path == path && ae.Entry == entry {
		return err
	}

	return &ArchiveError{Op: op, Path: path, Entry: entry, Err: err}
}
