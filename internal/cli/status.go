package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show host, plugin, and provider status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, debugMode)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Platform:  %s (%s)\n", a.osInfo.Platform, a.osInfo.Shell)
		if info, err := host.InfoWithContext(ctx); err == nil {
			fmt.Fprintf(out, "Host:      %s, up %s\n", info.Hostname,
				(time.Duration(info.Uptime) * time.Second).Round(time.Minute))
		}
		if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
			fmt.Fprintf(out, "Memory:    %.1f%% used\n", vm.UsedPercent)
		}

		fmt.Fprintf(out, "Plugins:   %s\n", strings.Join(a.registry.Names(), ", "))

		fmt.Fprintln(out, "Providers:")
		for _, p := range a.providers {
			state := "unavailable"
			if p.IsAvailable(ctx) {
				state = "available"
			}
			fmt.Fprintf(out, "  %-8s %s", p.Name(), state)
			if p.Name() == a.cfg.Providers.Default {
				fmt.Fprint(out, " (default)")
			}
			fmt.Fprintln(out)
		}

		if a.ollama.IsAvailable(ctx) {
			if models, err := a.ollama.ListModels(ctx); err == nil && len(models) > 0 {
				fmt.Fprintf(out, "Ollama models: %s\n", strings.Join(models, ", "))
			}
		}

		return nil
	},
}
