// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/textract/internal/container"
	"github.com/pdiddy/textract/pkg/types"
)

// runFunc executes tesseract with args, feeding image on stdin and writing
// its TSV output to out.
type runFunc func(ctx context.Context, args []string, image []byte, out *bytes.Buffer) error

// Command recognizes text by running the tesseract CLI, either on the host
// or inside a container, and parsing its TSV output.
type Command struct {
	name string
	cfg  types.RecognitionConfig
	run  runFunc
}

// NewCommand returns a recognizer that runs cfg.TesseractBin on the host.
func NewCommand(cfg types.RecognitionConfig, exec container.Executor) *Command {
	bin := cfg.TesseractBin
	if bin == "" {
		bin = "tesseract"
	}
	return &Command{
		name: string(types.BackendExec),
		cfg:  cfg,
		run: func(ctx context.Context, args []string, image []byte, out *bytes.Buffer) error {
			return exec.RunPiped(ctx, bin, args, bytes.NewReader(image), out)
		},
	}
}

// NewContainer returns a recognizer that runs tesseract inside cfg.ContainerImage.
// It fails when the image is not available locally.
func NewContainer(ctx context.Context, cfg types.RecognitionConfig, rt container.Runtime) (*Command, error) {
	if err := rt.ImageExists(ctx, cfg.ContainerImage); err != nil {
		return nil, fmt.Errorf("tesseract image not available in %s: %w", rt.Name(), err)
	}
	return &Command{
		name: string(types.BackendContainer),
		cfg:  cfg,
		run: func(ctx context.Context, args []string, image []byte, out *bytes.Buffer) error {
			return rt.Run(ctx, cfg.ContainerImage, args, bytes.NewReader(image), out)
		},
	}, nil
}

func (c *Command) Name() string { return c.name }

// Recognize pipes the image through tesseract and parses the TSV result.
func (c *Command) Recognize(ctx context.Context, in Input) ([]types.Observation, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var out bytes.Buffer
	if err := c.run(ctx, tesseractArgs(c.cfg), in.Image, &out); err != nil {
		return nil, fmt.Errorf("recognize %s with %s: %w", in.ID, c.name, err)
	}
	obs, err := ParseTSV(&out)
	if err != nil {
		return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
	}
	return obs, nil
}

// tesseractArgs builds `stdin stdout [options] tsv`.
func tesseractArgs(cfg types.RecognitionConfig) []string {
	args := []string{"stdin", "stdout"}
	if len(cfg.Languages) > 0 {
		args = append(args, "-l", strings.Join(cfg.Languages, "+"))
	}
	if cfg.PageSegMode > 0 {
		args = append(args, "--psm", strconv.Itoa(cfg.PageSegMode))
	}
	if cfg.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(cfg.DPI))
	}
	for _, k := range sortedKeys(cfg.Variables) {
		args = append(args, "-c", k+"="+cfg.Variables[k])
	}
	return append(args, "tsv")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
