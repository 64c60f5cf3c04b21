package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chatops-cli/chatops/internal/audit"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent executions from the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !viper.GetBool("audit.enabled") {
			return fmt.Errorf("auditing is disabled; enable audit.enabled to record history")
		}

		store, err := audit.OpenSQLite(viper.GetString("audit.db_path"))
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No recorded executions.")
			return nil
		}

		for _, e := range entries {
			status := fmt.Sprintf("exit %d", e.ExitCode)
			if e.DryRun {
				status = "dry run"
			}
			if e.Failure != "" {
				status = "failed: " + e.Failure
			}
			fmt.Fprintf(out, "%s  [%s] %q -> %s (%s)\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Source, e.Input, e.Command, status)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
}
