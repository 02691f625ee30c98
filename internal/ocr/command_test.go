// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ocr

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/textract/pkg/types"
)

// fakeExecutor records the piped command and replays canned output.
type fakeExecutor struct {
	name   string
	args   []string
	stdin  string
	output string
	err    error
	ctxErr error
}

func (f *fakeExecutor) LookPath(file string) (string, error) { return "/usr/bin/" + file, nil }

func (f *fakeExecutor) RunSilent(context.Context, string, ...string) error { return nil }

func (f *fakeExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.name, f.args = name, args
	data, _ := io.ReadAll(stdin)
	f.stdin = string(data)
	if _, ok := ctx.Deadline(); ok {
		f.ctxErr = context.DeadlineExceeded
	}
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

// fakeRuntime implements container.Runtime.
type fakeRuntime struct {
	missing bool
	image   string
	args    []string
	output  string
}

func (f *fakeRuntime) Name() string { return "docker" }

func (f *fakeRuntime) Available(context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	if f.missing {
		return errors.New("no such image: " + image)
	}
	return nil
}

func (f *fakeRuntime) Run(_ context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	f.image, f.args = image, args
	_, err := io.WriteString(stdout, f.output)
	return err
}

func recognitionConfig() types.RecognitionConfig {
	cfg := types.DefaultConfig().Recognition
	cfg.Variables = map[string]string{"preserve_interword_spaces": "1", "load_system_dawg": "0"}
	return cfg
}

func TestTesseractArgs(t *testing.T) {
	cfg := recognitionConfig()
	cfg.Languages = []string{"eng", "deu"}
	got := strings.Join(tesseractArgs(cfg), " ")
	want := "stdin stdout -l eng+deu --psm 3 --dpi 150 -c load_system_dawg=0 -c preserve_interword_spaces=1 tsv"
	assert.Equal(t, want, got)

	assert.Equal(t, []string{"stdin", "stdout", "tsv"}, tesseractArgs(types.RecognitionConfig{}))
}

func TestCommandRecognize(t *testing.T) {
	exec := &fakeExecutor{output: sampleTSV}
	cfg := recognitionConfig()
	cfg.TesseractBin = "/opt/tesseract"
	rec := NewCommand(cfg, exec)

	obs, err := rec.Recognize(context.Background(), Input{ID: "scan.png", Image: []byte("png-bytes")})
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, "exec", rec.Name())
	assert.Equal(t, "/opt/tesseract", exec.name)
	assert.Equal(t, "png-bytes", exec.stdin)
	assert.Equal(t, "tsv", exec.args[len(exec.args)-1])
	assert.NoError(t, exec.ctxErr, "no deadline without a timeout")
}

func TestCommandRecognizeTimeout(t *testing.T) {
	exec := &fakeExecutor{output: sampleTSV}
	cfg := recognitionConfig()
	cfg.Timeout = time.Minute
	_, err := NewCommand(cfg, exec).Recognize(context.Background(), Input{ID: "x"})
	require.NoError(t, err)
	assert.ErrorIs(t, exec.ctxErr, context.DeadlineExceeded, "timeout sets a deadline")
}

func TestCommandRecognizeErrors(t *testing.T) {
	t.Run("process failure", func(t *testing.T) {
		exec := &fakeExecutor{err: errors.New("exit status 1: Error in pixReadMem")}
		_, err := NewCommand(recognitionConfig(), exec).Recognize(context.Background(), Input{ID: "bad.png"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.png")
		assert.Contains(t, err.Error(), "pixReadMem")
	})

	t.Run("garbage output", func(t *testing.T) {
		exec := &fakeExecutor{output: "not\ttsv\n"}
		_, err := NewCommand(recognitionConfig(), exec).Recognize(context.Background(), Input{ID: "odd.png"})
		assert.ErrorIs(t, err, ErrMalformedTSV)
	})
}

func TestNewContainer(t *testing.T) {
	cfg := recognitionConfig()

	t.Run("missing image", func(t *testing.T) {
		_, err := NewContainer(context.Background(), cfg, &fakeRuntime{missing: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), cfg.ContainerImage)
	})

	t.Run("runs tesseract in the image", func(t *testing.T) {
		rt := &fakeRuntime{output: sampleTSV}
		rec, err := NewContainer(context.Background(), cfg, rt)
		require.NoError(t, err)
		assert.Equal(t, "container", rec.Name())

		obs, err := rec.Recognize(context.Background(), Input{ID: "page 1"})
		require.NoError(t, err)
		assert.Len(t, obs, 2)
		assert.Equal(t, cfg.ContainerImage, rt.image)
		assert.Equal(t, "stdin", rt.args[0])
	})
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), types.RecognitionConfig{Backend: "vision"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNewDefaultsToTesseract(t *testing.T) {
	rec, err := New(context.Background(), types.RecognitionConfig{})
	require.NoError(t, err)
	assert.Equal(t, "tesseract", rec.Name())
}
