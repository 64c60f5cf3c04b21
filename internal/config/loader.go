package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Load materializes the immutable Config snapshot from viper state.
// Call after SetViperDefaults and flag binding have run.
func Load() (*Config, error) {
	cfg := &Config{
		Providers: ProvidersConfig{
			Default:  viper.GetString("providers.default"),
			Fallback: viper.GetString("providers.fallback"),
			Groq: ProviderConfig{
				Enabled:     viper.GetBool("providers.groq.enabled"),
				Model:       viper.GetString("providers.groq.model"),
				BaseURL:     viper.GetString("providers.groq.base_url"),
				APIKey:      viper.GetString("providers.groq.api_key"),
				MaxTokens:   viper.GetInt("providers.groq.max_tokens"),
				Temperature: viper.GetFloat64("providers.groq.temperature"),
				Timeout:     viper.GetDuration("providers.groq.timeout"),
			},
			Ollama: ProviderConfig{
				Enabled:     viper.GetBool("providers.ollama.enabled"),
				Model:       viper.GetString("providers.ollama.model"),
				BaseURL:     viper.GetString("providers.ollama.base_url"),
				MaxTokens:   viper.GetInt("providers.ollama.max_tokens"),
				Temperature: viper.GetFloat64("providers.ollama.temperature"),
				Timeout:     viper.GetDuration("providers.ollama.timeout"),
			},
		},
		Security: SecurityConfig{
			BlockedPatterns:            viper.GetStringSlice("security.blocked_patterns"),
			MaxCommandLength:           viper.GetInt("security.max_command_length"),
			RequireConfirmationDefault: viper.GetBool("security.require_confirmation_default"),
		},
		Execution: ExecutionConfig{
			Timeout:        viper.GetDuration("execution.timeout"),
			MaxConcurrent:  viper.GetInt64("execution.max_concurrent"),
			OutputCapBytes: viper.GetInt("execution.output_cap_bytes"),
		},
		Plugins: PluginsConfig{
			Disabled: viper.GetStringSlice("plugins.disabled"),
		},
		Audit: AuditConfig{
			Enabled: viper.GetBool("audit.enabled"),
			DBPath:  viper.GetString("audit.db_path"),
		},
	}

	// GROQ_API_KEY is honored directly so credentials never need to live
	// in a config file.
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.Providers.Groq.APIKey = key
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Execution.MaxConcurrent <= 0 {
		return fmt.Errorf("execution.max_concurrent must be positive, got %d", c.Execution.MaxConcurrent)
	}
	if c.Execution.Timeout <= 0 {
		return fmt.Errorf("execution.timeout must be positive, got %v", c.Execution.Timeout)
	}
	if c.Security.MaxCommandLength <= 0 {
		return fmt.Errorf("security.max_command_length must be positive, got %d", c.Security.MaxCommandLength)
	}
	switch c.Providers.Default {
	case "groq", "ollama":
	default:
		return fmt.Errorf("unknown default provider: %s", c.Providers.Default)
	}
	return nil
}
