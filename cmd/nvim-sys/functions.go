package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tim-harding/nvim-sys/internal/apiinfo"
	"github.com/tim-harding/nvim-sys/internal/nvim"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the API functions of the installed Neovim",
	RunE: func(cmd *cobra.Command, args []string) error {
		includeDeprecated, _ := cmd.Flags().GetBool("deprecated")

		runner := nvim.New(nvimConfig())
		payload, err := runner.APIInfo(cmd.Context())
		if err != nil {
			return err
		}
		root, err := apiinfo.DecodeRoot(payload)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(root.Functions))
		for _, fn := range root.Functions {
			if fn.Deprecated() && !includeDeprecated {
				continue
			}
			deprecated := ""
			if fn.DeprecatedSince != nil {
				deprecated = strconv.FormatInt(*fn.DeprecatedSince, 10)
			}
			rows = append(rows, []string{
				fn.Name,
				strconv.FormatInt(fn.Since, 10),
				deprecated,
				strconv.FormatBool(fn.Method),
				fn.ReturnType.String(),
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"Name", "Since", "Deprecated", "Method", "Returns"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
		))
		fmt.Fprintf(cmd.OutOrStdout(), "%d functions (nvim %s, api level %d)\n",
			len(rows), root.Version, root.Version.APILevel)
		return nil
	},
}

func init() {
	functionsCmd.Flags().Bool("deprecated", false, "include deprecated functions")

	rootCmd.AddCommand(functionsCmd)
}
