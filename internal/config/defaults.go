package config

import "github.com/spf13/viper"

// SetViperDefaults registers the default value for every configuration key.
// Values come from (in increasing precedence) these defaults, an optional
// .chatops.yaml, CHATOPS_* environment variables, and command flags.
func SetViperDefaults() {
	// Providers
	viper.SetDefault("providers.default", "groq")
	viper.SetDefault("providers.fallback", "ollama")

	viper.SetDefault("providers.groq.enabled", true)
	viper.SetDefault("providers.groq.model", "llama3-8b-8192")
	viper.SetDefault("providers.groq.base_url", "https://api.groq.com")
	viper.SetDefault("providers.groq.api_key", "")
	viper.SetDefault("providers.groq.max_tokens", 1000)
	viper.SetDefault("providers.groq.temperature", 0.1)
	viper.SetDefault("providers.groq.timeout", "30s")

	viper.SetDefault("providers.ollama.enabled", true)
	viper.SetDefault("providers.ollama.model", "qwen3:latest")
	viper.SetDefault("providers.ollama.base_url", "http://localhost:11434")
	viper.SetDefault("providers.ollama.max_tokens", 1000)
	viper.SetDefault("providers.ollama.temperature", 0.1)
	viper.SetDefault("providers.ollama.timeout", "30s")

	// Security
	viper.SetDefault("security.blocked_patterns", []string{
		"rm -rf /",
		"rm -rf /*",
		"mkfs",
		"dd if=/dev/zero of=/dev/",
		"format c:",
		"del /s /q c:\\",
	})
	viper.SetDefault("security.max_command_length", 1000)
	viper.SetDefault("security.require_confirmation_default", false)

	// Execution
	viper.SetDefault("execution.timeout", "60s")
	viper.SetDefault("execution.max_concurrent", 4)
	viper.SetDefault("execution.output_cap_bytes", 1048576) // 1MB per stream

	// Plugins
	viper.SetDefault("plugins.disabled", []string{})

	// Audit
	viper.SetDefault("audit.enabled", true)
	viper.SetDefault("audit.db_path", ".chatops/audit.db")
}
