package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain [command]",
	Short: "Describe what a shell command does without running it",
	Example: `  chatops explain "df -h"
  chatops explain "docker system prune -f"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, debugMode)
		if err != nil {
			return err
		}
		defer a.Close()

		reqCtx, cancel := a.requestContext(ctx)
		defer cancel()

		text, err := a.dispatcher.Explain(reqCtx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
