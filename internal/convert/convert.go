// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives recognition over a path or an inline payload. It
// decides whether an input is an image, a PDF, or something to skip, runs
// the recognizer and the structure pipeline, and prints or writes results.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/textract/internal/ledger"
	"github.com/pdiddy/textract/internal/ocr"
	"github.com/pdiddy/textract/internal/progress"
	"github.com/pdiddy/textract/internal/render"
	"github.com/pdiddy/textract/internal/structure"
	"github.com/pdiddy/textract/pkg/types"
)

var (
	// ErrPathNotFound is returned by ProcessPath when the input does not exist.
	ErrPathNotFound = errors.New("path does not exist")

	// ErrInvalidBase64 is returned by ProcessBase64 when the payload is not
	// base64 or does not decode to a supported image.
	ErrInvalidBase64 = errors.New("invalid base64 image data")
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".gif":  true,
	".bmp":  true,
	".heic": true,
	".heif": true,
}

// DetectKind classifies path by its extension, ignoring case.
func DetectKind(path string) types.FileKind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".pdf":
		return types.KindPDF
	case imageExts[ext]:
		return types.KindImage
	default:
		return types.KindUnsupported
	}
}

// Ledger persists run history. *ledger.Store implements it.
type Ledger interface {
	BeginRun(ctx context.Context, root string) (ledger.Run, error)
	Record(ctx context.Context, runID string, rec types.FileRecord) error
	FinishRun(ctx context.Context, run ledger.Run) error
	LastDigest(ctx context.Context, path string) (string, bool, error)
}

// Options configures a Processor. Recognizer is required; everything else
// has a usable zero value.
type Options struct {
	Recognizer ocr.Recognizer

	// Opener opens PDFs for rendering (default render.Open).
	Opener render.Opener

	// Ledger records outcomes when non-nil.
	Ledger Ledger

	Logger   zerolog.Logger
	Progress progress.Reporter

	// Stdout receives result text and status lines (default os.Stdout).
	Stdout io.Writer

	Config types.Config
}

// Processor runs the batch driver. A Processor handles one run at a time.
type Processor struct {
	recognizer ocr.Recognizer
	classifier *structure.Classifier
	assembler  structure.Assembler
	open       render.Opener
	ledger     Ledger
	log        zerolog.Logger
	progress   progress.Reporter
	out        *lockedWriter
	output     types.OutputConfig
	dpi        int
	incr       bool
	now        func() time.Time
}

// New returns a Processor built from opts.
func New(opts Options) *Processor {
	p := &Processor{
		recognizer: opts.Recognizer,
		classifier: structure.NewClassifier(opts.Config.Classifier),
		assembler:  structure.Assembler{CohesiveLists: opts.Config.Classifier.CohesiveLists},
		open:       opts.Opener,
		ledger:     opts.Ledger,
		log:        opts.Logger,
		progress:   opts.Progress,
		output:     opts.Config.Output,
		dpi:        opts.Config.Recognition.DPI,
		incr:       opts.Config.Ledger.Incremental,
		now:        time.Now,
	}
	if p.open == nil {
		p.open = render.Open
	}
	if p.progress == nil {
		p.progress = progress.Nop{}
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	p.out = &lockedWriter{w: stdout}
	if p.output.Workers < 1 {
		p.output.Workers = 1
	}
	return p
}

// ProcessPath processes a single image, a PDF, or every entry of a
// directory. Per-file failures are reported in the result; the returned
// error is non-nil only for a missing path or a cancelled context.
func (p *Processor) ProcessPath(ctx context.Context, path string) (BatchResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		p.out.printf("The specified path does not exist.\n")
		return BatchResult{}, fmt.Errorf("%w: %s", ErrPathNotFound, path)
	}

	run := p.beginRun(ctx, path)
	var result BatchResult
	switch {
	case info.IsDir():
		err = p.processDir(ctx, path, run, &result)
	case DetectKind(path) == types.KindPDF:
		p.add(ctx, run, &result, p.processPDF(ctx, path))
	case DetectKind(path) == types.KindImage:
		p.add(ctx, run, &result, p.processImage(ctx, path, false))
	default:
		p.add(ctx, run, &result, unsupported(path))
	}
	p.finishRun(ctx, run, result)

	if p.output.PrintReport {
		result.PrintReport(p.out)
	}
	if err == nil {
		err = ctx.Err()
	}
	return result, err
}

// processDir handles every non-hidden entry of dir in name order. Images
// are recognized by up to Workers goroutines; everything else is skipped.
func (p *Processor) processDir(ctx context.Context, dir string, run *ledger.Run, result *BatchResult) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		p.out.printf("Error processing directory: %v\n", err)
		p.log.Error().Err(err).Str("path", dir).Msg("reading directory")
		return nil
	}

	var paths []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}

	p.progress.Start(len(paths), filepath.Base(dir))
	defer p.progress.Finish()

	records := make([]types.FileRecord, len(paths))
	var g errgroup.Group
	g.SetLimit(p.output.Workers)
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer p.progress.Step()
			if err := ctx.Err(); err != nil {
				return err
			}
			if DetectKind(path) != types.KindImage {
				records[i] = unsupported(path)
				return nil
			}
			records[i] = p.processImage(ctx, path, true)
			return nil
		})
	}
	err = g.Wait()

	for _, rec := range records {
		if rec.Path != "" {
			p.add(ctx, run, result, rec)
		}
	}
	return err
}

func unsupported(path string) types.FileRecord {
	return types.FileRecord{
		Path:   path,
		Kind:   DetectKind(path),
		Status: types.StatusSkipped,
	}
}

// add appends rec to result and records it in the ledger.
func (p *Processor) add(ctx context.Context, run *ledger.Run, result *BatchResult, rec types.FileRecord) {
	result.Add(rec)
	if run == nil {
		return
	}
	switch rec.Status {
	case types.StatusProcessed:
		run.Processed++
	case types.StatusSkipped:
		run.Skipped++
	case types.StatusFailed:
		run.Failed++
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = p.now()
	}
	if err := p.ledger.Record(ctx, run.ID, rec); err != nil {
		p.log.Warn().Err(err).Str("path", rec.Path).Msg("ledger record failed")
	}
}

func (p *Processor) beginRun(ctx context.Context, root string) *ledger.Run {
	if p.ledger == nil {
		return nil
	}
	run, err := p.ledger.BeginRun(ctx, root)
	if err != nil {
		p.log.Warn().Err(err).Msg("ledger unavailable, run not recorded")
		return nil
	}
	p.log.Debug().Str("run", run.ID).Str("root", root).Msg("run started")
	return &run
}

func (p *Processor) finishRun(ctx context.Context, run *ledger.Run, result BatchResult) {
	if run == nil {
		return
	}
	// The run is recorded even when ctx was cancelled mid-batch.
	if err := p.ledger.FinishRun(context.WithoutCancel(ctx), *run); err != nil {
		p.log.Warn().Err(err).Str("run", run.ID).Msg("ledger finish failed")
		return
	}
	p.log.Debug().
		Str("run", run.ID).
		Int("processed", len(result.Processed)).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Msg("run finished")
}

// unchanged reports whether incremental mode may skip a file whose content
// hashes to digest.
func (p *Processor) unchanged(ctx context.Context, path, digest string) bool {
	if p.ledger == nil || !p.incr || digest == "" {
		return false
	}
	last, ok, err := p.ledger.LastDigest(ctx, path)
	if err != nil {
		p.log.Warn().Err(err).Str("path", path).Msg("ledger lookup failed")
		return false
	}
	return ok && last == digest
}

func (p *Processor) skipUnchanged(rec types.FileRecord) types.FileRecord {
	rec.Status = types.StatusSkipped
	p.out.printf("skipped: %s (unchanged)\n", rec.Path)
	p.log.Debug().Str("path", rec.Path).Msg("unchanged since last run")
	return rec
}

// lockedWriter serializes writes so that each file's output reaches the
// underlying writer in one piece.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(b []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(b)
}

func (l *lockedWriter) printf(format string, args ...any) {
	_, _ = l.Write([]byte(fmt.Sprintf(format, args...)))
}
