// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ocr recognizes text lines in images. Every backend returns the same
// shape: an ordered list of observations, one per text line, with bounding
// boxes normalized to the image size.
package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/textract/internal/container"
	"github.com/pdiddy/textract/pkg/types"
)

// ErrUnknownBackend is returned by New for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown recognition backend")

// Input is one encoded image submitted for recognition.
type Input struct {
	// ID is echoed in error messages (file path or "page 3").
	ID string

	// Image is the encoded image (PNG, JPEG, TIFF, ...).
	Image []byte

	// PageIndex is the zero-based PDF page the image came from, or 0.
	PageIndex int
}

// Recognizer is the OCR contract: one image in, ordered text lines out.
// An image with no text yields an empty slice and a nil error.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, in Input) ([]types.Observation, error)
}

// New builds the recognizer selected by cfg.Backend. The container backend
// probes for docker or podman and verifies the image is present. The exec
// and container backends retry failed calls cfg.Retries times.
func New(ctx context.Context, cfg types.RecognitionConfig) (Recognizer, error) {
	switch cfg.Backend {
	case types.BackendTesseract, "":
		return NewTesseract(cfg), nil
	case types.BackendExec:
		cmd := NewCommand(cfg, container.DefaultExecutor())
		return WithRetry(cmd, cfg.Retries, cfg.RetryDelay), nil
	case types.BackendContainer:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		cmd, err := NewContainer(ctx, cfg, rt)
		if err != nil {
			return nil, err
		}
		return WithRetry(cmd, cfg.Retries, cfg.RetryDelay), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
