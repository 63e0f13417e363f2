// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
)

// sessionState is the session lifecycle position.
type sessionState uint8

const (
	// sessionIdle means the session was not opened yet.
	sessionIdle sessionState = iota
	// sessionActive accepts operations.
	sessionActive
	// sessionClosed rejects every operation.
	sessionClosed
)

// SessionOptions configures a Session.
type SessionOptions struct {
	// Logger receives mutation records; nil uses slog.Default.
	Logger *slog.Logger
}

// Session is a transaction over one Archive.
//
// Editable archives are modified in place call by call. Other archives are
// extracted into a private staging directory; mutations act on staged files
// and Commit repacks them into the original format. A session assumes sole
// ownership of its archive; nesting sessions over one archive is unsupported.
type Session struct {
	archive   Archive
	logger    *slog.Logger
	root      string
	dir       string
	state     sessionState
	extracted bool
	dirty     bool
}

// OpenSession starts a session over a.
func OpenSession(a Archive) (*Session, error) {
	return OpenSessionWithOptions(a, SessionOptions{})
}

// OpenSessionWithOptions starts a session over a with options.
func OpenSessionWithOptions(a Archive, opts SessionOptions) (*Session, error) {
	if a == nil {
		return nil, ErrNilArchive
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{archive: a, logger: logger}
	if err := s.enter(); err != nil {
		return nil, err
	}

	return s, nil
}

// WithSession runs fn inside a session over a. The session commits when fn
// returns nil and rolls back otherwise, including when fn panics.
func WithSession(a Archive, fn func(s *Session) error) (err error) {
	s, err := OpenSession(a)
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := s.Rollback(); rbErr != nil && err == nil {
			err = rbErr
		}
	}()

	if err := fn(s); err != nil {
		return err
	}

	return s.Commit()
}

// enter moves Idle to Active, staging the archive when it is not editable.
func (s *Session) enter() error {
	if s.state != sessionIdle {
		return ErrSessionClosed
	}

	if !s.archive.Format().Capabilities.Editable {
		root, dir, err := newScratchRoot("cbx-session-")
		if err != nil {
			return archiveErr("stage", s.archive.Path(), "", err)
		}

		s.logger.Debug("staging archive", slog.String("path", s.archive.Path()), slog.String("dir", dir))
		if err := s.archive.ExtractAll(dir); err != nil {
			_ = os.RemoveAll(root)
			return archiveErr("stage", s.archive.Path(), "", err)
		}

		s.root, s.dir, s.extracted = root, dir, true
	}

	s.state = sessionActive
	return nil
}

// Archive returns the archive the session is bound to.
func (s *Session) Archive() Archive {
	return s.archive
}

// Staged reports whether operations act on an extracted copy.
func (s *Session) Staged() bool {
	return s.extracted
}

// Dirty reports whether any mutation was made.
func (s *Session) Dirty() bool {
	return s.dirty
}

// active rejects calls outside the Active state.
func (s *Session) active() error {
	if s == nil || s.state != sessionActive {
		return ErrSessionClosed
	}

	return nil
}

// List returns member names. Staged names are slash-separated and naturally ordered.
func (s *Session) List() ([]string, error) {
	if err := s.active(); err != nil {
		return nil, err
	}

	if !s.extracted {
		return s.archive.List()
	}

	files, err := listStagedFiles(s.dir)
	if err != nil {
		return nil, archiveErr("list", s.archive.Path(), "", err)
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		name, err := relativeEntryName(s.dir, file)
		if err != nil {
			return nil, archiveErr("list", s.archive.Path(), "", err)
		}
		names = append(names, name)
	}

	return names, nil
}

// Contains reports whether name is a member.
func (s *Session) Contains(name string) (bool, error) {
	names, err := s.List()
	if err != nil {
		return false, err
	}

	return slices.Contains(names, name) || slices.Contains(names, NormalizePath(name)), nil
}

// Read returns one member payload.
func (s *Session) Read(name string) ([]byte, error) {
	if err := s.active(); err != nil {
		return nil, err
	}

	if !s.extracted {
		return s.archive.Read(name)
	}

	path, _, err := stagedPath(s.dir, name)
	if err != nil {
		return nil, archiveErr("read", s.archive.Path(), name, err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, archiveErr("read", s.archive.Path(), name, ErrEntryNotFound)
	}
	if err != nil {
		return nil, archiveErr("read", s.archive.Path(), name, err)
	}

	return data, nil
}

// Write adds or replaces one member.
func (s *Session) Write(name string, data []byte) error {
	if err := s.active(); err != nil {
		return err
	}

	s.logger.Info("writing entry", slog.String("entry", name), slog.String("path", s.archive.Path()))
	if !s.extracted {
		if err := s.archive.Write(name, data); err != nil {
			return err
		}
		s.dirty = true
		return nil
	}

	path, _, err := stagedPath(s.dir, name)
	if err != nil {
		return archiveErr("write", s.archive.Path(), name, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return archiveErr("write", s.archive.Path(), name, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return archiveErr("write", s.archive.Path(), name, err)
	}

	s.dirty = true
	return nil
}

// Delete removes one member; missing members are ignored.
func (s *Session) Delete(name string) error {
	if err := s.active(); err != nil {
		return err
	}

	s.logger.Info("deleting entry", slog.String("entry", name), slog.String("path", s.archive.Path()))
	if !s.extracted {
		if err := s.archive.Delete(name); err != nil {
			return err
		}
		s.dirty = true
		return nil
	}

	path, _, err := stagedPath(s.dir, name)
	if err != nil {
		return archiveErr("delete", s.archive.Path(), name, err)
	}

	if err := removeIfExists(path); err != nil {
		return archiveErr("delete", s.archive.Path(), name, err)
	}

	s.dirty = true
	return nil
}

// Rename moves one member. A missing source fails with ErrEntryNotFound; an
// existing destination fails with ErrAlreadyExists unless override is set.
func (s *Session) Rename(oldName string, newName string, override bool) error {
	if err := s.active(); err != nil {
		return err
	}

	s.logger.Info("renaming entry",
		slog.String("entry", oldName),
		slog.String("to", newName),
		slog.String("path", s.archive.Path()),
	)
	if !s.extracted {
		if err := s.archive.Rename(oldName, newName, override); err != nil {
			return err
		}
		s.dirty = true
		return nil
	}

	src, srcName, err := stagedPath(s.dir, oldName)
	if err != nil {
		return archiveErr("rename", s.archive.Path(), oldName, err)
	}

	dst, dstName, err := stagedPath(s.dir, newName)
	if err != nil {
		return archiveErr("rename", s.archive.Path(), oldName, err)
	}

	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return archiveErr("rename", s.archive.Path(), oldName, ErrEntryNotFound)
	}

	if srcName == dstName {
		return nil
	}

	if _, err := os.Stat(dst); err == nil && !override {
		return archiveErr("rename", s.archive.Path(), oldName, fmt.Errorf("%w: %s", ErrAlreadyExists, newName))
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return archiveErr("rename", s.archive.Path(), oldName, err)
	}

	if err := os.Rename(src, dst); err != nil {
		return archiveErr("rename", s.archive.Path(), oldName, err)
	}

	s.dirty = true
	return nil
}

// Commit closes the session. Staged changes are repacked into the original
// format and atomically replace the original file; a failed repack leaves the
// original untouched. Staging files are removed on every path.
func (s *Session) Commit() error {
	if err := s.active(); err != nil {
		return err
	}
	defer s.close()

	if !s.extracted || !s.dirty {
		return nil
	}

	files, err := listStagedFiles(s.dir)
	if err != nil {
		return archiveErr("commit", s.archive.Path(), "", err)
	}

	s.logger.Debug("repacking staged archive", slog.String("path", s.archive.Path()), slog.Int("files", len(files)))
	stem := TrimExtension(filepath.Base(s.archive.Path()))
	packed, err := s.archive.Format().CreateFromFiles(s.dir, stem, files)
	if err != nil {
		return archiveErr("commit", s.archive.Path(), "", err)
	}

	if err := ReplaceFile(packed, s.archive.Path()); err != nil {
		return archiveErr("commit", s.archive.Path(), "", err)
	}

	return nil
}

// Rollback closes the session discarding staged changes. Edits already
// applied to an editable archive stay in place. Calling Rollback on a closed
// session is a no-op so it can be deferred next to Commit.
func (s *Session) Rollback() error {
	if s == nil || s.state != sessionActive {
		return nil
	}

	if s.dirty && s.extracted {
		s.logger.Debug("discarding staged changes", slog.String("path", s.archive.Path()))
	}

	s.close()
	return nil
}

// close releases the staging root and marks the session closed.
func (s *Session) close() {
	if s.root != "" {
		_ = os.RemoveAll(s.root)
	}

	s.root, s.dir = "", ""
	s.extracted = false
	s.state = sessionClosed
}
