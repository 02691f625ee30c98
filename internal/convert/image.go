// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/textract/internal/ocr"
	"github.com/pdiddy/textract/internal/structure"
	"github.com/pdiddy/textract/pkg/types"
)

const (
	base64Label    = "<base64-input>"
	base64Filename = "recognized_text.txt"
)

// processImage recognizes one image in flat mode. named prefixes stdout
// output with the image path, as in directory runs.
func (p *Processor) processImage(ctx context.Context, path string, named bool) types.FileRecord {
	rec := types.FileRecord{Path: path, Kind: types.KindImage, Pages: 1}

	data, err := os.ReadFile(path)
	if err != nil {
		return p.imageFailed(rec, err)
	}
	rec.Digest = digest(data)
	if p.unchanged(ctx, path, rec.Digest) {
		return p.skipUnchanged(rec)
	}

	text, err := p.recognizeFlat(ctx, path, data)
	if err != nil {
		return p.imageFailed(rec, err)
	}
	rec.Chars = len(text)

	switch {
	case p.output.FileOutput:
		out := withExt(path, ".txt")
		if err := writeFileAtomic(out, []byte(text)); err != nil {
			return p.imageFailed(rec, err)
		}
		rec.OutputPath = out
		p.out.printf("%s\n", out)
	case named:
		p.out.printf("%s\n%s\n\n", path, text)
	default:
		p.out.printf("%s\n\n", text)
	}

	rec.Status = types.StatusProcessed
	p.log.Debug().Str("path", path).Int("chars", rec.Chars).Msg("image recognized")
	return rec
}

func (p *Processor) imageFailed(rec types.FileRecord, err error) types.FileRecord {
	p.out.printf("Failed to process %s\n", filepath.Base(rec.Path))
	p.log.Warn().Err(err).Str("path", rec.Path).Msg("image failed")
	rec.Status = types.StatusFailed
	rec.Error = err.Error()
	return rec
}

func (p *Processor) recognizeFlat(ctx context.Context, id string, data []byte) (string, error) {
	obs, err := p.recognizer.Recognize(ctx, ocr.Input{ID: id, Image: data})
	if err != nil {
		return "", fmt.Errorf("recognizing %s: %w", id, err)
	}
	return structure.Flatten(obs), nil
}

// ProcessBase64 recognizes a standard base64-encoded image in flat mode.
// With file output the text goes to recognized_text.txt in the output
// directory.
func (p *Processor) ProcessBase64(ctx context.Context, payload string) (BatchResult, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err == nil {
		_, _, err = image.DecodeConfig(bytes.NewReader(data))
	}
	if err != nil {
		p.out.printf("Invalid base64 image data.\n")
		return BatchResult{}, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}

	run := p.beginRun(ctx, base64Label)
	rec := p.processBase64(ctx, data)
	var result BatchResult
	p.add(ctx, run, &result, rec)
	p.finishRun(ctx, run, result)
	return result, ctx.Err()
}

func (p *Processor) processBase64(ctx context.Context, data []byte) types.FileRecord {
	rec := types.FileRecord{
		Path:   base64Label,
		Kind:   types.KindBase64,
		Pages:  1,
		Digest: digest(data),
	}

	text, err := p.recognizeFlat(ctx, base64Label, data)
	if err != nil {
		p.out.printf("Failed to recognize text from base64 image.\n")
		p.log.Warn().Err(err).Msg("base64 image failed")
		rec.Status = types.StatusFailed
		rec.Error = err.Error()
		return rec
	}
	rec.Chars = len(text)

	if p.output.FileOutput {
		out := filepath.Join(p.output.Dir, base64Filename)
		if err := writeFileAtomic(out, []byte(text)); err != nil {
			p.out.printf("Failed to recognize text from base64 image.\n")
			p.log.Warn().Err(err).Str("path", out).Msg("writing base64 output")
			rec.Status = types.StatusFailed
			rec.Error = err.Error()
			return rec
		}
		rec.OutputPath = out
		p.out.printf("%s\n", out)
	} else {
		p.out.printf("%s\n%s\n\n", base64Label, text)
	}
	rec.Status = types.StatusProcessed
	return rec
}
