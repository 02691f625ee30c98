// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/textract/internal/ocr"
	"github.com/pdiddy/textract/internal/render"
	"github.com/pdiddy/textract/pkg/types"
)

// processPDF converts a PDF in structured mode and prints or writes the
// result.
func (p *Processor) processPDF(ctx context.Context, path string) types.FileRecord {
	rec := types.FileRecord{Path: path, Kind: types.KindPDF}

	sum, err := fileDigest(path)
	if err != nil {
		return p.pdfFailed(rec, err)
	}
	rec.Digest = sum
	if p.unchanged(ctx, path, rec.Digest) {
		return p.skipUnchanged(rec)
	}

	md, pages, err := p.PDFToMarkdown(ctx, path)
	rec.Pages = pages
	if err != nil {
		if ctx.Err() != nil {
			rec.Status = types.StatusFailed
			rec.Error = err.Error()
			return rec
		}
		return p.pdfFailed(rec, err)
	}

	body, ext, err := p.formatDocument(path, md, pages)
	if err != nil {
		return p.pdfFailed(rec, err)
	}
	rec.Chars = len(body)

	if !p.output.FileOutput {
		p.out.printf("%s\n", body)
		rec.Status = types.StatusProcessed
		return rec
	}

	out := withExt(path, ext)
	if err := writeFileAtomic(out, []byte(body)); err != nil {
		p.log.Warn().Err(err).Str("path", out).Msg("writing output")
		rec.Status = types.StatusFailed
		rec.Error = err.Error()
		return rec
	}
	rec.OutputPath = out
	rec.Status = types.StatusProcessed
	if p.output.Format == types.OutputHTML {
		p.out.printf("HTML saved to %s\n", out)
	} else {
		p.out.printf("Markdown text saved to %s\n", out)
	}
	return rec
}

func (p *Processor) pdfFailed(rec types.FileRecord, err error) types.FileRecord {
	p.out.printf("Failed to open PDF document.\n")
	p.log.Warn().Err(err).Str("path", rec.Path).Msg("PDF failed")
	rec.Status = types.StatusFailed
	rec.Error = err.Error()
	return rec
}

// PDFToMarkdown renders every page of the PDF at path, recognizes it, and
// assembles the pages into one markdown document. It also returns the page
// count. A page that fails to render or recognize contributes no text. The
// error is non-nil only when the document cannot be opened or ctx is
// cancelled.
func (p *Processor) PDFToMarkdown(ctx context.Context, path string) (string, int, error) {
	doc, err := p.open(path, p.dpi)
	if err != nil {
		return "", 0, err
	}
	defer doc.Close()

	n := doc.NumPage()
	p.progress.Start(n, "pages")
	defer p.progress.Finish()

	pages := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return p.assembler.Document(pages), n, err
		}
		page, err := p.recognizePage(ctx, doc, path, i)
		p.progress.Step()
		if err != nil {
			p.out.printf("Failed to recognize text on page %d.\n", i+1)
			p.log.Warn().Err(err).Str("path", path).Int("page", i+1).Msg("page skipped")
			continue
		}
		pages = append(pages, page)
	}
	return p.assembler.Document(pages), n, nil
}

func (p *Processor) recognizePage(ctx context.Context, doc render.Document, path string, index int) (string, error) {
	img, err := doc.PageImage(ctx, index)
	if err != nil {
		return "", err
	}
	obs, err := p.recognizer.Recognize(ctx, ocr.Input{
		ID:        fmt.Sprintf("%s page %d", path, index+1),
		Image:     img,
		PageIndex: index,
	})
	if err != nil {
		return "", err
	}
	return p.assembler.Page(p.classifier.Classify(obs)), nil
}

// formatDocument applies the configured output format to md and returns
// the body with the file extension it should be saved under.
func (p *Processor) formatDocument(path, md string, pages int) (string, string, error) {
	if p.output.Format == types.OutputHTML {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(md), &buf); err != nil {
			return "", "", fmt.Errorf("rendering HTML: %w", err)
		}
		return buf.String(), ".html", nil
	}
	if !p.output.Frontmatter {
		return md, ".md", nil
	}
	body, err := addFrontmatter(frontmatter{
		Source:      path,
		Pages:       pages,
		ConvertedAt: p.now().UTC().Format(time.RFC3339),
	}, md)
	if err != nil {
		return "", "", err
	}
	return body, ".md", nil
}

type frontmatter struct {
	Source      string `yaml:"source"`
	Pages       int    `yaml:"pages"`
	ConvertedAt string `yaml:"converted_at"`
}

// addFrontmatter prepends a YAML frontmatter block to the markdown body.
func addFrontmatter(fm frontmatter, body string) (string, error) {
	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}
