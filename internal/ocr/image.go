// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// imageSize returns the pixel dimensions of an encoded image without
// decoding its pixels.
func imageSize(data []byte) (width, height int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("reading image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("%s image has empty dimensions %dx%d", format, cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// normalize converts a pixel rectangle into page-relative fractions.
func normalize(r image.Rectangle, width, height int) (x, y, w, h float64) {
	fw, fh := float64(width), float64(height)
	return float64(r.Min.X) / fw, float64(r.Min.Y) / fh, float64(r.Dx()) / fw, float64(r.Dy()) / fh
}
