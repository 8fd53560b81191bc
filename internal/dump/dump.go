// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dump converts the binary API description from `nvim --api-info`
// into a YAML file. The pipeline is strictly linear: spawn, capture,
// decode, encode, write. The first failing stage aborts the rest.
package dump

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/tim-harding/nvim-sys/internal/apiinfo"
	"github.com/tim-harding/nvim-sys/internal/nvim"
)

// Stage sentinels. Every error returned by Convert wraps exactly one of
// these, so callers can identify the failing stage with errors.Is.
var (
	// ErrSpawn means the nvim binary could not be started.
	ErrSpawn = errors.New("spawning nvim failed")

	// ErrProcess means nvim started but exited non-zero or wrote nothing.
	ErrProcess = errors.New("nvim process failed")

	// ErrDecode means the captured bytes are not valid MessagePack.
	ErrDecode = errors.New("decoding api info failed")

	// ErrEncode means the decoded value cannot be represented as YAML.
	ErrEncode = errors.New("encoding api info failed")

	// ErrWrite means the output file could not be created or written.
	ErrWrite = errors.New("writing output failed")
)

// Convert captures the API description from r, re-encodes it as YAML, and
// writes it to outputPath, truncating any existing file. The YAML is built
// fully in memory first: a spawn, process, decode, or encode failure never
// creates or modifies the output file.
func Convert(ctx context.Context, r nvim.Runner, outputPath string) error {
	data, err := Encode(ctx, r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Encode captures the API description from r and returns its YAML encoding
// without touching the filesystem.
func Encode(ctx context.Context, r nvim.Runner) ([]byte, error) {
	payload, err := r.APIInfo(ctx)
	if err != nil {
		if errors.Is(err, nvim.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrSpawn, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrProcess, err)
	}

	doc, err := apiinfo.DecodeDocument(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return data, nil
}
