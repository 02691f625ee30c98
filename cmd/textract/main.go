// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the textract CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/textract/internal/convert"
	"github.com/pdiddy/textract/internal/ledger"
	"github.com/pdiddy/textract/internal/logging"
	"github.com/pdiddy/textract/internal/ocr"
	"github.com/pdiddy/textract/internal/progress"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd recognizes text in the image, PDF, or directory given as its
// argument, or in an inline base64 image.
var rootCmd = &cobra.Command{
	Use:   "textract <path>",
	Short: "Extract text from images and PDFs with OCR",
	Long: `textract recognizes text in images, PDF documents, and base64-encoded
image data.

Images and directories of images produce plain text, one recognized line per
output line. PDFs produce markdown: large lines that start with a capital
letter become headings, bulleted lines become list items, and the remaining
lines are joined into paragraphs.

Supported image formats: jpg, jpeg, png, tif, tiff, gif, bmp, heic, heif.

Examples:
  textract scan.png
  textract ./scans --file-output --print-report
  textract paper.pdf --file-output
  textract --base64-input "$(base64 < scan.png)"`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	payload, _ := cmd.Flags().GetString("base64-input")
	if (len(args) == 1 && args[0] == "?") || (len(args) == 0 && payload == "") {
		return cmd.Help()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log, os.Stderr)
	ctx := cmd.Context()

	rec, err := ocr.New(ctx, cfg.Recognition)
	if err != nil {
		return fmt.Errorf("initializing %s backend: %w", cfg.Recognition.Backend, err)
	}
	log.Debug().Str("backend", rec.Name()).Strs("languages", cfg.Recognition.Languages).Msg("recognizer ready")

	opts := convert.Options{
		Recognizer: rec,
		Logger:     log,
		Stdout:     cmd.OutOrStdout(),
		Config:     cfg,
	}
	if cfg.Output.Progress {
		opts.Progress = progress.NewBar(os.Stderr)
	}
	if cfg.Ledger.Enabled {
		store, err := ledger.Open(cfg.Ledger)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.Ledger.Path).Msg("ledger disabled")
		} else {
			defer store.Close()
			opts.Ledger = store
		}
	}

	p := convert.New(opts)
	var result convert.BatchResult
	if payload != "" {
		result, err = p.ProcessBase64(ctx, payload)
	} else {
		result, err = p.ProcessPath(ctx, args[0])
	}
	if err != nil {
		return err
	}
	if result.AllFailed() {
		return fmt.Errorf("%d file(s) failed recognition", len(result.Failed))
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./textract.yaml or ~/.config/textract/textract.yaml)")
	pf.String("ledger-path", defaults.Ledger.Path, "ledger database file")
	pf.String("log-level", defaults.Log.Level, "log level: trace, debug, info, warn, error")
	pf.String("log-format", defaults.Log.Format, "log format: console or json")

	f := rootCmd.Flags()
	f.String("base64-input", "", "recognize a base64-encoded image instead of a path")
	f.Bool("file-output", false, "write results next to their inputs instead of stdout")
	f.Bool("print-report", false, "list processed and skipped files at the end")
	f.String("output-dir", defaults.Output.Dir, "directory for base64 results written with --file-output")
	f.String("format", string(defaults.Output.Format), "PDF output format: markdown or html")
	f.Bool("frontmatter", false, "prepend YAML frontmatter to markdown output")
	f.Int("workers", defaults.Output.Workers, "images recognized concurrently in a directory")
	f.Bool("progress", false, "show a progress bar on stderr")
	f.String("backend", string(defaults.Recognition.Backend), "recognition backend: tesseract, exec, or container")
	f.StringSlice("lang", defaults.Recognition.Languages, "recognition language (repeatable)")
	f.Int("psm", defaults.Recognition.PageSegMode, "tesseract page segmentation mode")
	f.Int("dpi", defaults.Recognition.DPI, "PDF render resolution")
	f.String("tesseract-bin", defaults.Recognition.TesseractBin, "tesseract binary for the exec backend")
	f.String("container-image", defaults.Recognition.ContainerImage, "tesseract image for the container backend")
	f.Duration("timeout", defaults.Recognition.Timeout, "per-image recognition timeout for exec and container backends (0 = none)")
	f.Int("retries", defaults.Recognition.Retries, "retries for failed exec and container recognitions")
	f.Duration("retry-delay", defaults.Recognition.RetryDelay, "initial backoff between retries")
	f.Float64("heading-min-height", defaults.Classifier.HeadingMinHeight, "line height, as a fraction of the page, above which a capitalized line is a heading")
	f.Bool("cohesive-lists", false, "join consecutive list items into one markdown list")
	f.Bool("ledger", false, "record runs in the ledger database")
	f.Bool("incremental", false, "skip files unchanged since their last successful run (implies --ledger)")

	bindFlags(rootCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
