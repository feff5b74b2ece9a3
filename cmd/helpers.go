package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zoomrx/agastya/internal/agent"
	"github.com/zoomrx/agastya/internal/conference"
	"github.com/zoomrx/agastya/internal/config"
	"github.com/zoomrx/agastya/internal/db"
	"github.com/zoomrx/agastya/internal/embeddings"
	"github.com/zoomrx/agastya/internal/llm"
	"github.com/zoomrx/agastya/internal/panel"
	"github.com/zoomrx/agastya/internal/research"
	"github.com/zoomrx/agastya/internal/vectordb"
	"github.com/zoomrx/agastya/internal/wiki"
)

// loadConfig loads the config, fills model defaults, and validates it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `agastya init` to create a config file", err)
	}
	cfg.FillModelDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.PresetEmbeddingModel(provider)
	}

	switch provider {
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, 768, ""), nil
	default:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Models.Default)
}

// loadVectorStore creates the chromem store and loads any persisted index
// from the data directory. A missing index is not an error; the store just
// starts empty.
func loadVectorStore(cfg *config.Config, embedder embeddings.Embedder) (vectordb.VectorStore, error) {
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return nil, fmt.Errorf("creating vector store: %w", err)
	}

	vectorDir := vectorDirFor(cfg)
	if _, statErr := os.Stat(vectorDir); statErr == nil {
		if err := store.Load(context.Background(), vectorDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load vector store from %s: %v\n", vectorDir, err)
		}
	}
	return store, nil
}

func vectorDirFor(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "vectordb")
}

func dbPathFor(cfg *config.Config) string {
	return filepath.Join(cfg.DataDir, "agastya.db")
}

// buildEngine wires every capability into the agent engine.
func buildEngine(cfg *config.Config, database *db.DB, store vectordb.VectorStore, provider llm.Provider) (*agent.Engine, error) {
	kb, err := loadWikiData(cfg)
	if err != nil {
		return nil, err
	}

	var searcher conference.Searcher
	if cfg.TavilyAPIKey != "" {
		searcher = conference.NewTavilyClient(cfg.TavilyAPIKey, "")
	}

	models := agent.Models{
		Classification: cfg.Models.Classification,
		Research:       cfg.Models.Research,
		Panel:          cfg.Models.Panel,
		Conference:     cfg.Models.Conference,
		Wiki:           cfg.Models.Wiki,
		Default:        cfg.Models.Default,
	}

	return agent.NewEngine(
		provider,
		models,
		agent.NewSessions(cfg.HistoryWindow),
		research.NewService(store),
		panel.NewDesk(panel.NewStore(database)),
		conference.NewService(searcher, cfg.ConferenceDocsDir),
		wiki.NewService(kb),
	), nil
}

func loadWikiData(cfg *config.Config) (*wiki.KnowledgeBase, error) {
	if cfg.WikiDataFile != "" {
		kb, err := wiki.LoadFile(cfg.WikiDataFile)
		if err != nil {
			return nil, fmt.Errorf("loading wiki data: %w", err)
		}
		return kb, nil
	}
	return wiki.LoadDefault()
}
