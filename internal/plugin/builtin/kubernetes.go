package builtin

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"

	"github.com/chatops-cli/chatops/internal/command"
	"github.com/chatops-cli/chatops/internal/osdetect"
	"github.com/chatops-cli/chatops/internal/plugin"
)

// KubernetesPlugin answers cluster inspection phrasings with kubectl
// commands. It only loads when kubectl is on PATH.
type KubernetesPlugin struct {
	table  plugin.Table
	logger *zap.Logger
}

// NewKubernetesPlugin builds the kubernetes plugin.
func NewKubernetesPlugin(logger *zap.Logger) *KubernetesPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &KubernetesPlugin{logger: logger}
	p.table = plugin.Table{
		{
			Keywords: []string{"list pods", "show pods", "get pods", "running pods"},
			Build:    p.static("kubectl get pods", "List pods in the current namespace", false),
		},
		{
			Keywords: []string{"all namespaces", "pods everywhere"},
			Build:    p.static("kubectl get pods --all-namespaces", "List pods across all namespaces", false),
		},
		{
			Keywords: []string{"list services", "get services", "show services", "kubernetes services"},
			Build:    p.static("kubectl get services", "List services in the current namespace", false),
		},
		{
			Keywords: []string{"list deployments", "get deployments", "show deployments"},
			Build:    p.static("kubectl get deployments", "List deployments in the current namespace", false),
		},
		{
			Keywords: []string{"cluster info", "cluster status"},
			Build:    p.static("kubectl cluster-info", "Show cluster endpoint information", false),
		},
		{
			Keywords: []string{"node status", "list nodes", "get nodes"},
			Build:    p.static("kubectl get nodes -o wide", "List cluster nodes with status", false),
		},
		{
			Keywords: []string{"restart deployment", "rollout restart"},
			Build:    p.static("kubectl rollout restart deployment", "Restart the pods of a deployment", true),
		},
	}
	return p
}

func (p *KubernetesPlugin) Name() string { return "kubernetes" }

func (p *KubernetesPlugin) Platforms() []osdetect.Platform {
	return []osdetect.Platform{osdetect.Linux, osdetect.MacOS, osdetect.Windows}
}

// Initialize requires kubectl on PATH; without it every command this
// plugin produces would fail at spawn.
func (p *KubernetesPlugin) Initialize(ctx context.Context) error {
	if _, err := exec.LookPath("kubectl"); err != nil {
		return fmt.Errorf("kubectl not found: %w", err)
	}
	p.logger.Debug("kubernetes plugin initialized")
	return nil
}

func (p *KubernetesPlugin) Cleanup() error { return nil }

func (p *KubernetesPlugin) Resolve(input string, platform osdetect.Platform) (command.Descriptor, bool) {
	return p.table.Resolve(input, platform)
}

func (p *KubernetesPlugin) static(text, explanation string, confirm bool) plugin.BuildFunc {
	return func(_ string, _ osdetect.Platform) (command.Descriptor, bool) {
		desc, err := command.NewPluginDescriptor(text, p.Name(), explanation, confirm)
		if err != nil {
			return command.Descriptor{}, false
		}
		return desc, true
	}
}
