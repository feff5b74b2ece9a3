package config

// ProviderType identifies an LLM provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// ModelConfig names the model each generation task runs on. Intent
// classification and wiki rewriting tolerate small models; research
// synthesis gets the strongest one.
type ModelConfig struct {
	Classification string `yaml:"classification" koanf:"classification"`
	Research       string `yaml:"research" koanf:"research"`
	Panel          string `yaml:"panel" koanf:"panel"`
	Conference     string `yaml:"conference" koanf:"conference"`
	Wiki           string `yaml:"wiki" koanf:"wiki"`
	Default        string `yaml:"default" koanf:"default"`
}

// Config is the top-level agastya configuration, corresponding to .agastya.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Models            ModelConfig  `yaml:"models" koanf:"models"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	Port              int          `yaml:"port" koanf:"port"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	ConferenceDocsDir string       `yaml:"conference_docs_dir" koanf:"conference_docs_dir"`
	WikiDataFile      string       `yaml:"wiki_data_file" koanf:"wiki_data_file"`
	HistoryWindow     int          `yaml:"history_window" koanf:"history_window"`
	TavilyAPIKey      string       `yaml:"tavily_api_key" koanf:"tavily_api_key"`
}
