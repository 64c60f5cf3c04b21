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

var chatDryRun bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive session: one request per line",
	Long: `Starts a read-eval loop. Each line is dispatched like a single ask.
Type "history" to list this session's commands, "exit" or "quit" to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, debugMode)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "chatops interactive session (%s/%s). Type 'exit' to quit.\n",
			a.osInfo.Platform, a.osInfo.Shell)

		var history []string
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())

			switch input {
			case "":
				continue
			case "exit", "quit":
				fmt.Fprintln(out, "Bye.")
				return nil
			case "history":
				for i, entry := range history {
					fmt.Fprintf(out, "%3d  %s\n", i+1, entry)
				}
				continue
			}

			history = append(history, input)

			req := dispatch.Request{Input: input, DryRun: chatDryRun}
			reqCtx, cancel := a.requestContext(ctx)
			res, err := a.dispatcher.Dispatch(reqCtx, req)
			if errors.Is(err, apperrors.ErrConfirmationRequired) {
				if promptConfirmation(out, scanner, res.Descriptor) {
					req.Confirmed = true
					res, err = a.dispatcher.Dispatch(reqCtx, req)
				} else {
					fmt.Fprintln(out, "Cancelled.")
					cancel()
					continue
				}
			}
			cancel()
			if err != nil {
				fmt.Fprintln(out, "Error:", err)
				continue
			}

			renderResult(out, res)
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatDryRun, "dry-run", false, "resolve commands without executing them")
}
