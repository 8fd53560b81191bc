// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package nvim locates the Neovim binary and captures its machine-readable
// API description.
package nvim

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/tim-harding/nvim-sys/pkg/types"
)

// ErrNotFound indicates the configured Neovim binary could not be located
// or started. Callers use this to distinguish a spawn failure from a
// failure of the process itself.
var ErrNotFound = errors.New("nvim binary not found")

// Runner captures Neovim's API description.
type Runner interface {
	// Name returns the configured binary name.
	Name() string

	// Available reports whether the binary exists on PATH.
	Available() bool

	// APIInfo runs the binary with --api-info and returns its entire
	// standard output. It fails if the binary is missing (ErrNotFound),
	// exits non-zero, or produces no output.
	APIInfo(ctx context.Context) ([]byte, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunCaptured(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunCaptured(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

type runner struct {
	cfg  types.NvimConfig
	exec executor
}

var defaultExec = &osExecutor{}

// New creates a Runner for the binary named in cfg.
func New(cfg types.NvimConfig) Runner {
	return newRunner(cfg, defaultExec)
}

func newRunner(cfg types.NvimConfig, exec executor) *runner {
	if cfg.Bin == "" {
		cfg.Bin = "nvim"
	}
	return &runner{cfg: cfg, exec: exec}
}

func (r *runner) Name() string { return r.cfg.Bin }

func (r *runner) Available() bool {
	_, err := r.exec.LookPath(r.cfg.Bin)
	return err == nil
}

func (r *runner) APIInfo(ctx context.Context) ([]byte, error) {
	path, err := r.exec.LookPath(r.cfg.Bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, r.cfg.Bin)
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	out, err := r.exec.RunCaptured(ctx, path, "--api-info")
	if err != nil {
		return nil, fmt.Errorf("running %s --api-info: %w", r.cfg.Bin, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s --api-info produced no output", r.cfg.Bin)
	}
	return out, nil
}
