// Package builtin contains the plugins shipped with the binary. The
// manifest is closed at compile time; discovery constructs each plugin and
// skips any whose environment probe fails.
package builtin

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/chatops-cli/chatops/internal/command"
	"github.com/chatops-cli/chatops/internal/plugin"
	"github.com/chatops-cli/chatops/internal/osdetect"
)

// Manifest returns the constructors for every built-in plugin not named in
// the disabled list.
func Manifest(disabled []string, logger *zap.Logger) []plugin.Constructor {
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}

	all := map[string]plugin.Constructor{
		"system":     func() (plugin.Plugin, error) { return NewSystemPlugin(logger), nil },
		"docker":     func() (plugin.Plugin, error) { return NewDockerPlugin(logger), nil },
		"kubernetes": func() (plugin.Plugin, error) { return NewKubernetesPlugin(logger), nil },
	}

	var manifest []plugin.Constructor
	for _, name := range []string{"system", "docker", "kubernetes"} {
		if !skip[name] {
			manifest = append(manifest, all[name])
		}
	}
	return manifest
}

// SystemPlugin answers system information and monitoring phrasings with
// OS-appropriate read-only commands.
type SystemPlugin struct {
	table  plugin.Table
	logger *zap.Logger
}

// NewSystemPlugin builds the system plugin.
func NewSystemPlugin(logger *zap.Logger) *SystemPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &SystemPlugin{logger: logger}
	p.table = plugin.Table{
		{
			Keywords: []string{"disk usage", "disk space", "check space", "free space", "storage"},
			Build:    p.mapped("disk_usage", "Show disk usage for all mounted filesystems"),
		},
		{
			Keywords: []string{"memory usage", "ram usage", "memory info", "free memory"},
			Build:    p.mapped("memory_usage", "Show memory usage"),
		},
		{
			Keywords: []string{"cpu usage", "cpu info", "processor"},
			Build:    p.mapped("cpu_usage", "Show current CPU usage and top processes"),
		},
		{
			Keywords: []string{"process list", "running processes", "show processes", "list processes"},
			Build:    p.mapped("list_processes", "Show the busiest running processes"),
		},
		{
			Keywords: []string{"system info", "system information", "show system"},
			Build:    p.mapped("system_info", "Show OS, CPU, and memory information"),
		},
		{
			Keywords: []string{"uptime"},
			Build:    p.mapped("uptime", "Show system uptime and logged in users"),
		},
		{
			Keywords: []string{"network info", "network status", "ip address"},
			Build:    p.mapped("network_info", "Show network interfaces"),
		},
		{
			Keywords: []string{"running services", "service status", "list services"},
			Build:    p.mapped("service_status", "Show running services"),
		},
	}
	return p
}

func (p *SystemPlugin) Name() string { return "system" }

func (p *SystemPlugin) Platforms() []osdetect.Platform {
	return []osdetect.Platform{osdetect.Linux, osdetect.MacOS, osdetect.Windows}
}

// Initialize probes the host metrics interfaces. If the environment cannot
// answer basic CPU and memory queries, the plugin's commands are unlikely
// to work either and the plugin is skipped.
func (p *SystemPlugin) Initialize(ctx context.Context) error {
	if _, err := cpu.PercentWithContext(ctx, 0, false); err != nil {
		return fmt.Errorf("cpu probe failed: %w", err)
	}
	if _, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		return fmt.Errorf("memory probe failed: %w", err)
	}
	p.logger.Debug("system plugin initialized")
	return nil
}

func (p *SystemPlugin) Cleanup() error { return nil }

func (p *SystemPlugin) Resolve(input string, platform osdetect.Platform) (command.Descriptor, bool) {
	return p.table.Resolve(input, platform)
}

// mapped builds a rule handler that looks up the per-OS command text for a
// well-known intent. All system plugin commands are read-only, so none
// require confirmation.
func (p *SystemPlugin) mapped(intent, explanation string) plugin.BuildFunc {
	return func(_ string, platform osdetect.Platform) (command.Descriptor, bool) {
		text, ok := osdetect.MapCommand(intent, platform)
		if !ok {
			return command.Descriptor{}, false
		}
		desc, err := command.NewPluginDescriptor(text, p.Name(), explanation, false)
		if err != nil {
			return command.Descriptor{}, false
		}
		return desc, true
	}
}
