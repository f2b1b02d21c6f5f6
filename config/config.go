package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the GradPath agent system
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Sources   SourcesConfig   `mapstructure:"sources"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// LLMConfig contains LLM provider configurations
type LLMConfig struct {
	Providers map[string]LLMProvider `mapstructure:"providers"`
	Routing   LLMRoutingConfig       `mapstructure:"routing"`
}

// LLMProvider represents a single LLM provider configuration
type LLMProvider struct {
	Type       string              `mapstructure:"type"` // openai, gemini
	APIKey     string              `mapstructure:"api_key"`
	BaseURL    string              `mapstructure:"base_url"`
	Models     map[string]LLMModel `mapstructure:"models"`
	MaxRetries int                 `mapstructure:"max_retries"`
	Backoff    time.Duration       `mapstructure:"backoff"`
	Timeout    time.Duration       `mapstructure:"timeout"`
}

// LLMModel represents a specific model configuration
type LLMModel struct {
	Name        string  `mapstructure:"name"`
	APIName     string  `mapstructure:"api_name"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// LLMRoutingConfig defines which model to use for each pipeline stage
type LLMRoutingConfig struct {
	Classify   string `mapstructure:"classify"`   // query classification
	Coordinate string `mapstructure:"coordinate"` // readiness gating + extraction
	Plan       string `mapstructure:"plan"`       // search plan generation
	Write      string `mapstructure:"write"`      // final report synthesis
	FollowUp   string `mapstructure:"follow_up"`  // follow-up question generation
}

// TelemetryConfig contains telemetry and monitoring settings
type TelemetryConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

// PipelineConfig contains caps for the agentic pipeline stages
type PipelineConfig struct {
	MaxSearchQueries    int `mapstructure:"max_search_queries"`     // new-search plan queries executed
	ResultsPerQuery     int `mapstructure:"results_per_query"`      // hits requested per search call
	MaxWriterCandidates int `mapstructure:"max_writer_candidates"`  // candidates fed to the writer
	DeepDiveMaxQueries  int `mapstructure:"deep_dive_max_queries"`  // deep-dive fan-out cap
	DeepDiveCandidates  int `mapstructure:"deep_dive_candidates"`   // candidates fed to deep-dive synthesis
	CompareMaxQueries   int `mapstructure:"compare_max_queries"`    // comparison fan-out cap
	CompareCandidates   int `mapstructure:"compare_candidates"`     // candidates fed to comparison synthesis
	MaxFollowUps        int `mapstructure:"max_follow_ups"`         // follow-up questions appended
}

// SourcesConfig contains external source configurations
type SourcesConfig struct {
	WebSearch WebSearchConfig `mapstructure:"web_search"`
}

// WebSearchConfig contains web search settings
type WebSearchConfig struct {
	Provider     string        `mapstructure:"provider"` // serper, brave
	SerperAPIKey string        `mapstructure:"serper_api_key"`
	BraveAPIKey  string        `mapstructure:"brave_api_key"`
	Locale       string        `mapstructure:"locale"`
	Country      string        `mapstructure:"country"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gradpath_config")
		v.SetConfigType("json")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GRADPATH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - defaults plus env are enough to run
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	overrideFromEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// General defaults
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("general.default_timeout", "60s")

	// LLM defaults
	v.SetDefault("llm.providers.openai.type", "openai")
	v.SetDefault("llm.providers.openai.timeout", "60s")
	v.SetDefault("llm.providers.openai.max_retries", 2)
	v.SetDefault("llm.providers.openai.backoff", "500ms")
	v.SetDefault("llm.providers.openai.models.gpt-4o.name", "gpt-4o")
	v.SetDefault("llm.providers.openai.models.gpt-4o.max_tokens", 4096)
	v.SetDefault("llm.providers.openai.models.gpt-4o.temperature", 0.3)
	v.SetDefault("llm.providers.openai.models.gpt-4o-mini.name", "gpt-4o-mini")
	v.SetDefault("llm.providers.openai.models.gpt-4o-mini.max_tokens", 2048)
	v.SetDefault("llm.providers.openai.models.gpt-4o-mini.temperature", 0.3)
	v.SetDefault("llm.routing.classify", "gpt-4o-mini")
	v.SetDefault("llm.routing.coordinate", "gpt-4o")
	v.SetDefault("llm.routing.plan", "gpt-4o")
	v.SetDefault("llm.routing.write", "gpt-4o")
	v.SetDefault("llm.routing.follow_up", "gpt-4o-mini")

	// Pipeline defaults
	v.SetDefault("pipeline.max_search_queries", 7)
	v.SetDefault("pipeline.results_per_query", 5)
	v.SetDefault("pipeline.max_writer_candidates", 30)
	v.SetDefault("pipeline.deep_dive_max_queries", 10)
	v.SetDefault("pipeline.deep_dive_candidates", 30)
	v.SetDefault("pipeline.compare_max_queries", 6)
	v.SetDefault("pipeline.compare_candidates", 15)
	v.SetDefault("pipeline.max_follow_ups", 3)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("telemetry.metrics_port", 9090)

	// Sources defaults
	v.SetDefault("sources.web_search.provider", "serper")
	v.SetDefault("sources.web_search.locale", "en")
	v.SetDefault("sources.web_search.timeout", "20s")
}

// overrideFromEnv overrides configuration with environment variables for sensitive data
func overrideFromEnv(v *viper.Viper) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		v.Set("llm.providers.openai.api_key", apiKey)
	}
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		v.Set("llm.providers.gemini.type", "gemini")
		v.Set("llm.providers.gemini.api_key", apiKey)
	}
	if apiKey := os.Getenv("SERPER_API_KEY"); apiKey != "" {
		v.Set("sources.web_search.serper_api_key", apiKey)
	}
	if apiKey := os.Getenv("BRAVE_SEARCH_KEY"); apiKey != "" {
		v.Set("sources.web_search.brave_api_key", apiKey)
	}
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if len(config.LLM.Providers) == 0 {
		return fmt.Errorf("at least one LLM provider must be configured")
	}

	routingModels := []string{
		config.LLM.Routing.Classify,
		config.LLM.Routing.Coordinate,
		config.LLM.Routing.Plan,
		config.LLM.Routing.Write,
		config.LLM.Routing.FollowUp,
	}

	for _, model := range routingModels {
		if model == "" {
			continue
		}
		found := false
		for _, provider := range config.LLM.Providers {
			for _, providerModel := range provider.Models {
				if providerModel.Name == model {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return fmt.Errorf("routing model '%s' not found in any provider", model)
		}
	}

	if config.Pipeline.MaxSearchQueries <= 0 {
		return fmt.Errorf("pipeline.max_search_queries must be positive")
	}
	if config.Pipeline.ResultsPerQuery <= 0 {
		return fmt.Errorf("pipeline.results_per_query must be positive")
	}

	return nil
}
