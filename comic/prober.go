// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/cbx

package comic

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG

	_ "golang.org/x/image/bmp"  // register BMP
	_ "golang.org/x/image/tiff" // register TIFF
	_ "golang.org/x/image/webp" // register WebP
)

// ImageProber reports pixel dimensions of an encoded image.
type ImageProber interface {
	Probe(data []byte) (width int, height int, err error)
}

// ProberFunc adapts a function to ImageProber.
type ProberFunc func(data []byte) (int, int, error)

// Probe implements ImageProber.
func (f ProberFunc) Probe(data []byte) (int, int, error) {
	return f(data)
}

// DecodeProber reads image headers with the registered image decoders
// (JPEG, PNG, GIF, WebP, BMP, TIFF). Pixel data is not decoded.
type DecodeProber struct{}

// Probe implements ImageProber.
func (DecodeProber) Probe(data []byte) (int, int, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("probe image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("probe %s image: empty dimensions", format)
	}

	return cfg.Width, cfg.Height, nil
}
