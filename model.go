// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package cbx

import (
	"strings"

	"github.com/woozymasta/pathrules"
)

// Kind identifies one concrete comic container format.
// The value doubles as the canonical file extension without the dot.
type Kind string

// Supported container kinds.
const (
	// KindZip is a ZIP container (.cbz).
	KindZip Kind = "cbz"
	// KindRar is a RAR container (.cbr).
	KindRar Kind = "cbr"
	// KindTar is a gzip-compressed TAR container (.cbt).
	KindTar Kind = "cbt"
	// KindSevenZip is a 7-Zip container (.cb7).
	KindSevenZip Kind = "cb7"
)

// Extension returns the file extension with leading dot.
func (k Kind) Extension() string {
	return "." + string(k)
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// ParseKind converts "cbz", ".CBZ", "zip" style input to Kind.
func ParseKind(raw string) (Kind, bool) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), ".") {
	case "cbz", "zip":
		return KindZip, true
	case "cbr", "rar":
		return KindRar, true
	case "cbt", "tar", "tgz", "tar.gz":
		return KindTar, true
	case "cb7", "7z":
		return KindSevenZip, true
	default:
		return "", false
	}
}

// Capabilities declares what a format supports without staging.
type Capabilities struct {
	// Readable means single entries can be read directly from the container.
	Readable bool `json:"readable" yaml:"readable"`
	// Writeable means whole containers can be created from a file set.
	Writeable bool `json:"writeable" yaml:"writeable"`
	// Editable means entries can be added, replaced, removed and renamed in place.
	Editable bool `json:"editable" yaml:"editable"`
}

// Archive is one comic container on disk bound to its detected format.
//
// Operations reopen the underlying file on every call; a handle holds no
// file descriptors and needs no Close.
type Archive interface {
	// Path returns the container file path.
	Path() string
	// Format returns the format the container was detected as.
	Format() Format
	// List returns member file names in archive order.
	List() ([]string, error)
	// Read returns one member payload.
	Read(name string) ([]byte, error)
	// Write adds or replaces one member.
	Write(name string, data []byte) error
	// Delete removes one member; missing members are ignored.
	Delete(name string) error
	// Rename moves one member to a new name.
	Rename(oldName string, newName string, override bool) error
	// ExtractAll writes every member under destDir.
	ExtractAll(destDir string) error
}

// Format is the dispatch table of one container kind.
type Format struct {
	probe  func(path string) bool
	open   func(path string, format Format) Archive
	create func(sourceDir string, outputPath string, files []string) error
	// Kind is the container kind.
	Kind Kind
	// Capabilities are static flags of the kind.
	Capabilities Capabilities
}

// Extension returns the file extension with leading dot.
func (f Format) Extension() string {
	return f.Kind.Extension()
}

// Probe reports whether path is a container of this format.
// Detection reads content only; the file extension is ignored.
func (f Format) Probe(path string) bool {
	if f.probe == nil {
		return false
	}

	return f.probe(path)
}

// Open binds path to this format without probing.
func (f Format) Open(path string) Archive {
	return f.open(path, f)
}

// ZipOptions configures ZIP container writes.
type ZipOptions struct {
	// Compress defines ordered path rules selecting Deflate entries; other entries are stored.
	Compress []pathrules.Rule `json:"compress,omitempty" yaml:"compress,omitempty"`
	// CompressMatcherOptions control compression path rule matching.
	CompressMatcherOptions pathrules.MatcherOptions `json:"compress_matcher_options,omitzero" yaml:"compress_matcher_options,omitzero"`
}

// SevenZipOptions configures 7-Zip container creation.
type SevenZipOptions struct {
	// Binary is the 7-Zip executable; empty means first of 7zz, 7z, 7za found on PATH.
	Binary string `json:"binary,omitempty" yaml:"binary,omitempty"`
}

// storedImagePatterns lists already-compressed page formats stored without Deflate.
var storedImagePatterns = []string{"*.jpg", "*.jpeg", "*.png", "*.webp", "*.jxl", "*.gif"}

// DefaultZipCompressRules returns rules that deflate everything except page images.
func DefaultZipCompressRules() []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(storedImagePatterns)+1)
	rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: "*"})
	for _, pattern := range storedImagePatterns {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: pattern})
	}

	return rules
}

// applyDefaults fills zero-valued zip options with defaults.
func (opts *ZipOptions) applyDefaults() {
	if opts.Compress == nil {
		opts.Compress = DefaultZipCompressRules()
	}

	if opts.CompressMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.CompressMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.CompressMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.CompressMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}
