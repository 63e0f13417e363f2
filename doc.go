// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

/*
Package cbx reads, edits, creates and converts comic book archives:
CBZ (zip), CBR (rar), CBT (gzip tar) and CB7 (7-Zip).

Each container kind is a Format with static capabilities:

	kind  readable  writeable  editable
	cbz   yes       yes        yes
	cb7   yes       yes        no
	cbr   yes       no         no
	cbt   no        no         no

Editable formats change single entries in place. Other formats are changed
through a Session that extracts into a private staging directory and
repacks on commit. Unsupported operations fail with ErrOperationUnsupported.

# Opening

A Registry probes file contents (the extension is ignored) in a fixed order:

	registry := cbx.DefaultRegistry(cbx.RegistryOptions{})
	archive, err := registry.Load("book.cbz")
	if err != nil {
	    return err
	}
	names, err := archive.List()
	if err != nil {
	    return err
	}
	_ = names

# Editing

Use a session to batch changes; it works for every kind that can be
repacked:

	err := cbx.WithSession(archive, func(s *cbx.Session) error {
	    if err := s.Write("ComicInfo.xml", data); err != nil {
	        return err
	    }
	    return s.Rename("cover.jpg", "000.jpg", false)
	})

WithSession commits when fn returns nil and rolls back otherwise. A failed
commit never touches the original file.

# Extracting

ExtractAll validates every entry before writing. Absolute paths, ".."
segments, drive prefixes and links abort with ErrPathTraversal:

	if err := archive.ExtractAll("out/"); err != nil {
	    return err
	}

# Creating and converting

Zip entries are stored or deflated per github.com/woozymasta/pathrules
rules; images are stored by default:

	format := cbx.ZipFormat(cbx.ZipOptions{
	    Compress: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.xml"},
	    },
	})
	out, err := format.CreateFromFiles("work/book", "book", files)

Convert repacks an archive into another kind next to the original and
removes the original:

	converted, err := registry.Convert(archive, cbx.KindZip)
*/
package cbx
