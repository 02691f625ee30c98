// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container runs OCR tooling as external processes, either directly
// on the host or inside a docker/podman container.
package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Runtime provides container operations: checking availability, verifying
// images, and running containers.
type Runtime interface {
	// Name returns the runtime name ("docker" or "podman").
	Name() string

	// Available reports whether the runtime binary exists on PATH and
	// responds to an info command.
	Available(ctx context.Context) bool

	// ImageExists checks whether the named image exists locally.
	// Returns nil when the image is found, or an error describing the failure.
	ImageExists(ctx context.Context, image string) error

	// Run executes a container with the given image and entrypoint
	// arguments, piping stdin and stdout.
	Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error
}

// Executor abstracts command execution so callers can substitute it in tests.
type Executor interface {
	LookPath(file string) (string, error)
	RunSilent(ctx context.Context, name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// RunPiped captures stderr so a failing tool's message reaches the caller.
func (o *osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr strings.Builder
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// runtime implements Runtime for a specific container binary. Both Docker
// and Podman share the same logic; they differ only in binary name and the
// subcommand used to check image existence.
type runtime struct {
	bin           string
	imageCheckCmd []string // e.g. ["image", "inspect"] for docker
	exec          Executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available(ctx context.Context) bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(ctx, r.bin, "info") == nil
}

func (r *runtime) ImageExists(ctx context.Context, image string) error {
	args := make([]string, 0, len(r.imageCheckCmd)+1)
	args = append(args, r.imageCheckCmd...)
	args = append(args, image)

	if err := r.exec.RunSilent(ctx, r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, image string, args []string, stdin io.Reader, stdout io.Writer) error {
	full := make([]string, 0, len(args)+4)
	full = append(full, "run", "--rm", "-i", image)
	full = append(full, args...)
	if err := r.exec.RunPiped(ctx, r.bin, full, stdin, stdout); err != nil {
		return fmt.Errorf("running %s container %s: %w", r.bin, image, err)
	}
	return nil
}

func newDockerRuntime(exec Executor) *runtime {
	return &runtime{
		bin:           binDocker,
		imageCheckCmd: []string{"image", "inspect"},
		exec:          exec,
	}
}

func newPodmanRuntime(exec Executor) *runtime {
	return &runtime{
		bin:           binPodman,
		imageCheckCmd: []string{"image", "exists"},
		exec:          exec,
	}
}

var defaultExec = &osExecutor{}

// DefaultExecutor returns the os/exec backed executor.
func DefaultExecutor() Executor { return defaultExec }

// DetectRuntime tries docker first, falls back to podman. Returns an error
// if neither runtime is available.
func DetectRuntime(ctx context.Context) (Runtime, error) {
	return detectRuntime(ctx, defaultExec)
}

func detectRuntime(ctx context.Context, exec Executor) (Runtime, error) {
	docker := newDockerRuntime(exec)
	if docker.Available(ctx) {
		return docker, nil
	}

	podman := newPodmanRuntime(exec)
	if podman.Available(ctx) {
		return podman, nil
	}

	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
