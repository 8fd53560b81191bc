package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tim-harding/nvim-sys/internal/apiinfo"
	"github.com/tim-harding/nvim-sys/internal/nvim"
	"github.com/tim-harding/nvim-sys/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Record and compare API captures",
	Long: `Snapshot stores captured API descriptions in a local SQLite database so
the API surface of different Neovim builds can be compared: which
functions were added, removed, or deprecated between two captures.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Capture the current API description into the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := nvim.New(nvimConfig())
		payload, err := runner.APIInfo(cmd.Context())
		if err != nil {
			return err
		}
		root, err := apiinfo.DecodeRoot(payload)
		if err != nil {
			return err
		}

		store, err := snapshot.Open(viper.GetString("snapshot.dir"))
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.Save(cmd.Context(), root, payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved snapshot %d (nvim %s, %d functions)\n",
			id, root.Version, len(root.Functions))
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := snapshot.Open(viper.GetString("snapshot.dir"))
		if err != nil {
			return err
		}
		defer store.Close()

		infos, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no snapshots saved")
			return nil
		}

		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{
				strconv.FormatInt(info.ID, 10),
				info.CapturedAt.Format(time.RFC3339),
				info.Version.String(),
				strconv.FormatInt(info.Version.APILevel, 10),
				strconv.Itoa(info.Functions),
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"ID", "Captured", "Version", "API Level", "Functions"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight},
		))
		return nil
	},
}

var snapshotDiffCmd = &cobra.Command{
	Use:   "diff <older-id> <newer-id>",
	Short: "Compare the functions of two snapshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q", args[0])
		}
		b, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid snapshot id %q", args[1])
		}

		store, err := snapshot.Open(viper.GetString("snapshot.dir"))
		if err != nil {
			return err
		}
		defer store.Close()

		diff, err := store.CompareSnapshots(cmd.Context(), a, b)
		if err != nil {
			return err
		}
		if diff.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "no function changes")
			return nil
		}

		var rows [][]string
		for _, name := range diff.Added {
			rows = append(rows, []string{"added", name})
		}
		for _, name := range diff.Removed {
			rows = append(rows, []string{"removed", name})
		}
		for _, name := range diff.Deprecated {
			rows = append(rows, []string{"deprecated", name})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"Change", "Function"},
			rows,
			[]columnAlignment{alignLeft, alignLeft},
		))
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotDiffCmd)

	rootCmd.AddCommand(snapshotCmd)
}
