// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nvim-sys CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tim-harding/nvim-sys/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the nvim-sys CLI.
var rootCmd = &cobra.Command{
	Use:   "nvim-sys",
	Short: "Capture and convert Neovim's API description",
	Long: `nvim-sys runs nvim --api-info, decodes the MessagePack payload it emits,
and works with the result: dump converts it to readable YAML, functions
lists the API surface, snapshot records captures for later comparison,
and generate writes Go binding stubs.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nvim-sys.yaml or ~/.config/nvim-sys/nvim-sys.yaml)")
	rootCmd.PersistentFlags().String("nvim", "", "nvim binary name or path (default: nvim)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nvim-sys")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nvim-sys"))
		}
	}

	viper.SetEnvPrefix("NVIM_SYS")
	viper.AutomaticEnv()

	viper.SetDefault("nvim.bin", "nvim")
	viper.SetDefault("dump.output", "api_info.yml")
	viper.SetDefault("snapshot.dir", "snapshots")
	viper.SetDefault("generate.output", "nvimapi.gen.go")
	viper.SetDefault("generate.package", "nvimapi")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// nvimConfig assembles the runner configuration from flags and viper.
func nvimConfig() types.NvimConfig {
	cfg := types.NvimConfig{
		Bin:     viper.GetString("nvim.bin"),
		Timeout: viper.GetDuration("nvim.timeout"),
	}
	if bin, _ := rootCmd.PersistentFlags().GetString("nvim"); bin != "" {
		cfg.Bin = bin
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
