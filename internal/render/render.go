// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render rasterises PDF pages so they can be passed to an OCR engine.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is used when Open is given a non-positive resolution.
const DefaultDPI = 150

// Document is an open PDF whose pages can be rendered to images.
type Document interface {
	// NumPage returns the number of pages.
	NumPage() int

	// PageImage renders the zero-based page and returns it PNG-encoded on
	// an opaque white background.
	PageImage(ctx context.Context, page int) ([]byte, error)

	Close() error
}

// Opener opens a PDF for rendering. The batch driver depends on this
// rather than on go-fitz directly.
type Opener func(path string, dpi int) (Document, error)

type fitzDocument struct {
	doc *fitz.Document
	dpi float64
}

// Open opens the PDF at path with MuPDF.
func Open(path string, dpi int) (Document, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	return &fitzDocument{doc: doc, dpi: float64(dpi)}, nil
}

func (d *fitzDocument) NumPage() int { return d.doc.NumPage() }

func (d *fitzDocument) PageImage(ctx context.Context, page int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := d.doc.ImageDPI(page, d.dpi)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", page+1, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, OnWhite(img)); err != nil {
		return nil, fmt.Errorf("encoding page %d: %w", page+1, err)
	}
	return buf.Bytes(), nil
}

func (d *fitzDocument) Close() error { return d.doc.Close() }

// OnWhite composites img over an opaque white canvas of the same bounds.
// Transparent page regions would otherwise read as black to the OCR engine.
func OnWhite(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
