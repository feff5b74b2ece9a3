package config

// modelPresets maps each provider to its per-task model defaults.
var modelPresets = map[ProviderType]ModelConfig{
	ProviderOpenAI: {
		Classification: "o4-mini",
		Research:       "gpt-4-turbo",
		Panel:          "gpt-4.1",
		Conference:     "gpt-4.1",
		Wiki:           "o4-mini",
		Default:        "o3",
	},
	ProviderOllama: {
		Classification: "llama3",
		Research:       "llama3:70b",
		Panel:          "llama3",
		Conference:     "llama3",
		Wiki:           "llama3",
		Default:        "llama3",
	},
}

// embeddingPresets maps each provider to its default embedding model.
var embeddingPresets = map[ProviderType]string{
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Models:            modelPresets[ProviderOpenAI],
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    embeddingPresets[ProviderOpenAI],
		Port:              8080,
		DataDir:           ".agastya",
		ConferenceDocsDir: "docs/conferences",
		WikiDataFile:      "",
		HistoryWindow:     10,
	}
}

// PresetModels returns the per-task model defaults for a provider.
// Unknown providers get the OpenAI preset.
func PresetModels(provider ProviderType) ModelConfig {
	if preset, ok := modelPresets[provider]; ok {
		return preset
	}
	return modelPresets[ProviderOpenAI]
}

// PresetEmbeddingModel returns the default embedding model for a provider.
func PresetEmbeddingModel(provider ProviderType) string {
	if m, ok := embeddingPresets[provider]; ok {
		return m
	}
	return embeddingPresets[ProviderOpenAI]
}
