package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .agastya.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to agastya! Let's configure your assistant.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: "8080",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory (SQLite database and vector index)",
		Default: ".agastya",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Tavily key for conference web search. Optional; without it the
	// assistant falls back to local conference documents.
	tavilyPrompt := promptui.Prompt{
		Label:   "Tavily API key for conference web search (leave blank to skip)",
		Default: "",
		Mask:    '*',
	}
	tavilyKey, err := tavilyPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("tavily key: %w", err)
	}

	// Build the config.
	cfg := &Config{
		Provider:          provider,
		Models:            PresetModels(provider),
		EmbeddingProvider: embeddingProviderFor(provider),
		EmbeddingModel:    PresetEmbeddingModel(embeddingProviderFor(provider)),
		Port:              port,
		DataDir:           dataDir,
		ConferenceDocsDir: "docs/conferences",
		HistoryWindow:     10,
		TavilyAPIKey:      tavilyKey,
	}

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running agastya serve.\n", envVar)
		}
	}

	// Save to .agastya.yml.
	configPath := ".agastya.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}

// embeddingProviderFor returns the default embedding provider for a given
// LLM provider.
func embeddingProviderFor(p ProviderType) ProviderType {
	if p == ProviderOllama {
		return ProviderOllama
	}
	return ProviderOpenAI
}
