//go:build mage

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := Init(); err != nil {
		t.Fatalf("Init() error: %v", err)
	}

	for _, dir := range projectDirs {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("stat %s: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestInit_Idempotent(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := Init(); err != nil {
		t.Fatalf("first Init() error: %v", err)
	}
	if err := Init(); err != nil {
		t.Fatalf("second Init() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join("snapshots")); err != nil {
		t.Errorf("stat snapshots: %v", err)
	}
}
