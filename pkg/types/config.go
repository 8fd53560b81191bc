package types

import "time"

// NvimConfig holds settings for locating and running the Neovim binary.
type NvimConfig struct {
	// Bin is the Neovim binary name or path (default "nvim").
	Bin string `json:"bin" yaml:"bin"`

	// Timeout bounds the --api-info call. Zero means no timeout, matching
	// the historical behavior of waiting on the process indefinitely.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DumpConfig holds settings for the dump stage.
type DumpConfig struct {
	// Output is the destination file for the YAML API description
	// (default "api_info.yml"). Overwritten on every run.
	Output string `json:"output" yaml:"output"`
}

// SnapshotConfig holds settings for the snapshot store.
type SnapshotConfig struct {
	// Dir is the directory holding the snapshot database (default "snapshots").
	Dir string `json:"dir" yaml:"dir"`
}

// GenerateConfig holds settings for binding-stub generation.
type GenerateConfig struct {
	// Output is the destination file for generated Go source
	// (default "nvimapi.gen.go").
	Output string `json:"output" yaml:"output"`

	// Package is the package name written into the generated file
	// (default "nvimapi").
	Package string `json:"package" yaml:"package"`
}

// Config groups all stage configurations for the tool.
type Config struct {
	Nvim     NvimConfig     `json:"nvim" yaml:"nvim"`
	Dump     DumpConfig     `json:"dump" yaml:"dump"`
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`
	Generate GenerateConfig `json:"generate" yaml:"generate"`
}
