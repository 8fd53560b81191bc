package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tim-harding/nvim-sys/internal/dump"
	"github.com/tim-harding/nvim-sys/internal/nvim"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write the Neovim API description as YAML",
	Long: `Dump runs nvim --api-info, decodes the MessagePack document it prints,
and writes it to a YAML file, overwriting any existing file. The YAML
keeps the key order of the original payload, so repeated runs against
the same Neovim build produce byte-identical output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = viper.GetString("dump.output")
		}

		runner := nvim.New(nvimConfig())
		if err := dump.Convert(cmd.Context(), runner, out); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringP("output", "o", "", "output file (default: api_info.yml)")

	rootCmd.AddCommand(dumpCmd)
}
