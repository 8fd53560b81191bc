// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"testing"
)

func TestConfigFlagHelpMatchesSearchName(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("config")
	if flag == nil {
		t.Fatal("config flag not registered")
	}

	// initConfig searches for a file named nvim-sys.yaml in both locations;
	// the help text must name the same file.
	for _, want := range []string{"./nvim-sys.yaml", "~/.config/nvim-sys/nvim-sys.yaml"} {
		if !strings.Contains(flag.Usage, want) {
			t.Errorf("config flag usage %q does not mention %q", flag.Usage, want)
		}
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"dump", "functions", "snapshot", "generate", "version"}
	for _, name := range want {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}
