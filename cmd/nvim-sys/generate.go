package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tim-harding/nvim-sys/internal/apiinfo"
	"github.com/tim-harding/nvim-sys/internal/gen"
	"github.com/tim-harding/nvim-sys/internal/nvim"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate Go binding stubs from the API description",
	Long: `Generate captures the API description from the installed Neovim and
writes a Go source file containing handle types, the captured version,
and a client interface covering every callable API function.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = viper.GetString("generate.output")
		}
		pkg, _ := cmd.Flags().GetString("package")
		if pkg == "" {
			pkg = viper.GetString("generate.package")
		}

		runner := nvim.New(nvimConfig())
		payload, err := runner.APIInfo(cmd.Context())
		if err != nil {
			return err
		}
		root, err := apiinfo.DecodeRoot(payload)
		if err != nil {
			return err
		}

		src, err := gen.Source(root, pkg)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, src, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d functions)\n", out, len(root.Functions))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "output file (default: nvimapi.gen.go)")
	generateCmd.Flags().String("package", "", "generated package name (default: nvimapi)")

	rootCmd.AddCommand(generateCmd)
}
