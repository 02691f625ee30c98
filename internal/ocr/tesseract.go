// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/pdiddy/textract/pkg/types"
)

// Tesseract recognizes text through the linked Tesseract library.
type Tesseract struct {
	cfg           types.RecognitionConfig
	clientFactory func() *gosseract.Client
}

// NewTesseract constructs a gosseract-backed recognizer. Each call to
// Recognize uses its own client, so a Tesseract value is safe for
// concurrent use.
func NewTesseract(cfg types.RecognitionConfig) *Tesseract {
	return &Tesseract{cfg: cfg, clientFactory: gosseract.NewClient}
}

func (t *Tesseract) Name() string { return string(types.BackendTesseract) }

// Recognize returns one observation per text line found by Tesseract.
func (t *Tesseract) Recognize(ctx context.Context, in Input) ([]types.Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	width, height, err := imageSize(in.Image)
	if err != nil {
		return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
	}

	c := t.clientFactory()
	defer c.Close()

	if err := t.configure(c); err != nil {
		return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
	}
	if err := c.SetImageFromBytes(in.Image); err != nil {
		return nil, fmt.Errorf("recognize %s: set image: %w", in.ID, err)
	}
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
	}
	return linesFromBoxes(boxes, width, height), nil
}

func (t *Tesseract) configure(c *gosseract.Client) error {
	if len(t.cfg.Languages) > 0 {
		if err := c.SetLanguage(t.cfg.Languages...); err != nil {
			return fmt.Errorf("set languages: %w", err)
		}
	}
	if t.cfg.PageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(t.cfg.PageSegMode)); err != nil {
			return fmt.Errorf("set page segmentation mode: %w", err)
		}
	}
	if t.cfg.DPI > 0 {
		if err := c.SetVariable("user_defined_dpi", fmt.Sprint(t.cfg.DPI)); err != nil {
			return fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range t.cfg.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	return nil
}

// linesFromBoxes converts text-line boxes in pixel space to observations.
// Tesseract terminates each line with a newline; blank lines are dropped.
func linesFromBoxes(boxes []gosseract.BoundingBox, width, height int) []types.Observation {
	out := make([]types.Observation, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		x, y, w, h := normalize(b.Box, width, height)
		out = append(out, types.Observation{
			Candidates: []types.Candidate{{Text: text, Confidence: b.Confidence / 100}},
			Box:        types.BoundingBox{X: x, Y: y, Width: w, Height: h},
		})
	}
	return out
}
