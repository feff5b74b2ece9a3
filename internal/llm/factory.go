package llm

import (
	"fmt"
	"os"
)

// NewProvider creates a new LLM provider based on the given provider type.
// Supported provider types: "openai", "ollama". defaultModel is used for
// requests that do not name a model themselves.
func NewProvider(providerType string, defaultModel string) (Provider, error) {
	switch providerType {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		return NewOpenAIProvider(apiKey, defaultModel), nil

	case "ollama":
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, defaultModel), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
