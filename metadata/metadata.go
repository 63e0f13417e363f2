// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

/*
Package metadata models the ComicInfo.xml (v2.0) and MetronInfo.xml (v1.0)
sidecars stored at the root of comic archives.

Both record types implement Record, which exposes the field table used by
the naming package to build output filenames:

	info, err := metadata.ParseComicInfo(data)
	if err != nil {
		return err // errors.Is(err, metadata.ErrInvalidMetadata)
	}
	if info != nil {
		name := naming.Evaluate(info, "{series-name}_#{number:3}", naming.Options{})
	}

Parse functions return (nil, nil) for absent (empty) input so callers can
tell a missing sidecar from a broken one.
*/
package metadata

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/woozymasta/cbx/naming"
)

// Sidecar file names at the archive root.
const (
	// ComicInfoFilename is the ComicInfo sidecar entry name.
	ComicInfoFilename = "ComicInfo.xml"
	// MetronInfoFilename is the MetronInfo sidecar entry name.
	MetronInfoFilename = "MetronInfo.xml"
)

// Schema locations written to the document root.
const (
	// ComicInfoSchema is the ComicInfo v2.0 XSD location.
	ComicInfoSchema = "https://raw.githubusercontent.com/anansi-project/comicinfo/main/schema/v2.0/ComicInfo.xsd"
	// MetronInfoSchema is the MetronInfo v1.0 XSD location.
	MetronInfoSchema = "https://raw.githubusercontent.com/Metron-Project/metroninfo/master/schema/v1.0/MetronInfo.xsd"
	// xsiNamespace is the XML Schema instance namespace.
	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"
)

// xmlHeader prefixes every encoded document.
const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// ErrInvalidMetadata means a sidecar exists but cannot be decoded.
var ErrInvalidMetadata = errors.New("invalid metadata")

// Record is a decoded sidecar. The set of implementations is closed:
// *ComicInfo and *MetronInfo.
type Record interface {
	naming.Resolver
	// Filename returns the sidecar entry name.
	Filename() string
	// SeriesFormat returns the series format used for template selection.
	SeriesFormat() string
	// Marshal encodes the record as an XML document.
	Marshal() ([]byte, error)

	sealed()
}

// marshalDocument encodes v with the XML header and two-space indent.
func marshalDocument(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	out := make([]byte, 0, len(xmlHeader)+len(body)+1)
	out = append(out, xmlHeader...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// unmarshalDocument decodes data into v; empty input reports absent=true.
func unmarshalDocument(data []byte, v any) (absent bool, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return true, nil
	}

	if err := xml.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidMetadata, err)
	}

	return false, nil
}

// Same reports whether a and b encode to identical documents.
// Two nil records are the same; a nil and a non-nil record are not.
func Same(a Record, b Record) bool {
	aNil, bNil := isNilRecord(a), isNilRecord(b)
	if aNil || bNil {
		return aNil == bNil
	}

	ab, err := a.Marshal()
	if err != nil {
		return false
	}
	bb, err := b.Marshal()
	if err != nil {
		return false
	}

	return bytes.Equal(ab, bb)
}

// isNilRecord reports nil interfaces and typed nil record pointers.
func isNilRecord(r Record) bool {
	switch v := r.(type) {
	case nil:
		return true
	case *ComicInfo:
		return v == nil
	case *MetronInfo:
		return v == nil
	default:
		return false
	}
}
