package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chatops-cli/chatops/internal/dispatch"
	apperrors "github.com/chatops-cli/chatops/internal/errors"
)

var (
	askDryRun bool
	askYes    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [request]",
	Short: "Resolve and run a single natural-language request",
	Example: `  chatops ask "check disk usage"
  chatops ask --dry-run "restart the nginx container"
  chatops ask --yes "prune unused docker data"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, debugMode)
		if err != nil {
			return err
		}
		defer a.Close()

		input := strings.Join(args, " ")
		req := dispatch.Request{
			Input:     input,
			DryRun:    askDryRun,
			Confirmed: askYes,
		}

		reqCtx, cancel := a.requestContext(ctx)
		defer cancel()

		res, err := a.dispatcher.Dispatch(reqCtx, req)
		if errors.Is(err, apperrors.ErrConfirmationRequired) {
			in := bufio.NewScanner(cmd.InOrStdin())
			if !promptConfirmation(cmd.OutOrStdout(), in, res.Descriptor) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			cancel()
			// The confirmation wait does not count against the budget.
			reqCtx, cancel = a.requestContext(ctx)
			defer cancel()
			req.Confirmed = true
			res, err = a.dispatcher.Dispatch(reqCtx, req)
		}
		if err != nil {
			return err
		}

		renderResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askDryRun, "dry-run", false, "show the resolved command without executing it")
	askCmd.Flags().BoolVarP(&askYes, "yes", "y", false, "skip the confirmation prompt for destructive commands")
}
