// Package config loads the assistant's configuration from .agastya.yml
// with AGASTYA_* environment overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (AGASTYA_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: AGASTYA_PROVIDER -> provider, etc.
	if err := k.Load(env.Provider("AGASTYA_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "AGASTYA_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, ollama", c.Provider)
	}

	if c.EmbeddingProvider != "" && !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q", c.EmbeddingProvider)
	}

	if c.Models.Default == "" {
		return fmt.Errorf("models.default is required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.HistoryWindow < 0 {
		return fmt.Errorf("history_window must be non-negative")
	}

	return nil
}

// FillModelDefaults replaces any empty per-task model with the provider
// preset, so a partial models block in the file still yields a complete set.
func (c *Config) FillModelDefaults() {
	preset := PresetModels(c.Provider)
	if c.Models.Classification == "" {
		c.Models.Classification = preset.Classification
	}
	if c.Models.Research == "" {
		c.Models.Research = preset.Research
	}
	if c.Models.Panel == "" {
		c.Models.Panel = preset.Panel
	}
	if c.Models.Conference == "" {
		c.Models.Conference = preset.Conference
	}
	if c.Models.Wiki == "" {
		c.Models.Wiki = preset.Wiki
	}
	if c.Models.Default == "" {
		c.Models.Default = preset.Default
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = PresetEmbeddingModel(c.EmbeddingProvider)
	}
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}
