package builtin

import (
	"context"
	"fmt"

	"github.com/docker/docker/client"
	"go.uber.org/zap"

	"github.com/chatops-cli/chatops/internal/command"
	"github.com/chatops-cli/chatops/internal/osdetect"
	"github.com/chatops-cli/chatops/internal/plugin"
)

// DockerPlugin answers container management phrasings with docker CLI
// commands. It only loads when a Docker daemon is reachable.
type DockerPlugin struct {
	table  plugin.Table
	cli    *client.Client
	logger *zap.Logger
}

// NewDockerPlugin builds the docker plugin.
func NewDockerPlugin(logger *zap.Logger) *DockerPlugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &DockerPlugin{logger: logger}
	p.table = plugin.Table{
		{
			Keywords: []string{"list containers", "running containers", "show containers", "docker ps"},
			Build:    p.static("docker ps", "List running containers", false),
		},
		{
			Keywords: []string{"list all containers", "show all containers", "stopped containers"},
			Build:    p.static("docker ps -a", "List all containers including stopped", false),
		},
		{
			Keywords: []string{"docker images", "list images", "show images"},
			Build:    p.static("docker images", "List local images", false),
		},
		{
			Keywords: []string{"container stats", "docker stats", "container resource"},
			Build:    p.static("docker stats --no-stream", "Show a one-shot snapshot of container resource usage", false),
		},
		{
			Keywords: []string{"docker disk", "docker space"},
			Build:    p.static("docker system df", "Show Docker disk usage", false),
		},
		{
			Keywords: []string{"prune docker", "docker prune", "clean up docker", "cleanup docker"},
			Build:    p.static("docker system prune -f", "Remove unused containers, networks, and dangling images", true),
		},
		{
			Keywords: []string{"stop all containers"},
			Build:    p.static("docker stop $(docker ps -q)", "Stop every running container", true),
		},
	}
	return p
}

func (p *DockerPlugin) Name() string { return "docker" }

func (p *DockerPlugin) Platforms() []osdetect.Platform {
	return []osdetect.Platform{osdetect.Linux, osdetect.MacOS, osdetect.Windows}
}

// Initialize pings the Docker daemon. No daemon means the plugin's commands
// would all fail, so discovery skips it and the LLM path answers container
// questions instead.
func (p *DockerPlugin) Initialize(ctx context.Context) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("docker client: %w", err)
	}
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return fmt.Errorf("docker daemon not reachable: %w", err)
	}
	p.cli = cli
	p.logger.Debug("docker plugin initialized")
	return nil
}

func (p *DockerPlugin) Cleanup() error {
	if p.cli != nil {
		return p.cli.Close()
	}
	return nil
}

func (p *DockerPlugin) Resolve(input string, platform osdetect.Platform) (command.Descriptor, bool) {
	return p.table.Resolve(input, platform)
}

func (p *DockerPlugin) static(text, explanation string, confirm bool) plugin.BuildFunc {
	return func(_ string, _ osdetect.Platform) (command.Descriptor, bool) {
		desc, err := command.NewPluginDescriptor(text, p.Name(), explanation, confirm)
		if err != nil {
			return command.Descriptor{}, false
		}
		return desc, true
	}
}
