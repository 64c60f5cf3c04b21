package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exampleRequests = []struct {
	heading string
	items   []string
}{
	{heading: "System", items: []string{
		`chatops ask "check disk usage"`,
		`chatops ask "show memory usage"`,
		`chatops ask "list running processes"`,
		`chatops ask "what is the uptime"`,
	}},
	{heading: "Docker", items: []string{
		`chatops ask "show running containers"`,
		`chatops ask "list docker images"`,
		`chatops ask "clean up docker"`,
	}},
	{heading: "Kubernetes", items: []string{
		`chatops ask "list pods"`,
		`chatops ask "get services"`,
		`chatops ask "restart deployment api"`,
	}},
	{heading: "Free-form (answered by the LLM)", items: []string{
		`chatops ask "find files larger than 100MB in /var/log"`,
		`chatops ask --dry-run "compress the logs directory"`,
		`chatops explain "tar -czf logs.tar.gz /var/log"`,
	}},
}

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Show example requests",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, group := range exampleRequests {
			fmt.Fprintf(out, "%s:\n", group.heading)
			for _, item := range group.items {
				fmt.Fprintf(out, "  %s\n", item)
			}
			fmt.Fprintln(out)
		}
	},
}
