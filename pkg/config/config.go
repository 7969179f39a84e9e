package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrMissingStoreConfig is returned when the store URL or the service
// credential is not set. Callers treat it as fatal.
var ErrMissingStoreConfig = errors.New("please set SUPABASE_DB_URL and SUPABASE_SERVICE_ROLE_KEY as environment variables")

type Config struct {
	LLM struct {
		Provider       string  `yaml:"provider"`
		BaseURL        string  `yaml:"base_url"`
		Model          string  `yaml:"model"`
		EmbeddingModel string  `yaml:"embedding_model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float64 `yaml:"temperature"`
		APIKey         string  `yaml:"api_key"`
	} `yaml:"llm"`

	Database struct {
		URL        string `yaml:"url"`
		ServiceKey string `yaml:"service_key"`
		TableName  string `yaml:"table_name"`
		VectorDim  int    `yaml:"vector_dim"`
		MatchCount int    `yaml:"match_count"`
	} `yaml:"database"`

	Collector struct {
		DocumentsFile string  `yaml:"documents_file"`
		DocsURL       string  `yaml:"docs_url"`
		MaxDepth      int     `yaml:"max_depth"`
		RateLimit     float64 `yaml:"rate_limit"`
	} `yaml:"collector"`

	Processor struct {
		WindowSize    int `yaml:"window_size"`
		WindowOverlap int `yaml:"window_overlap"`
	} `yaml:"processor"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/kbase/config.yaml"),
			"/etc/kbase/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

// RequireStore reports ErrMissingStoreConfig unless both store settings are present.
func (c *Config) RequireStore() error {
	if c.Database.URL == "" || c.Database.ServiceKey == "" {
		return ErrMissingStoreConfig
	}
	return nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Provider == "" {
		config.LLM.Provider = "ollama"
	}
	if config.LLM.Model == "" {
		if config.LLM.Provider == "gemini" {
			config.LLM.Model = "gemini-2.0-flash"
		} else {
			config.LLM.Model = "mistral"
		}
	}
	if config.LLM.EmbeddingModel == "" {
		config.LLM.EmbeddingModel = "all-minilm"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2000
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "knowledge_base"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 384 // all-MiniLM-L6-v2
	}
	if config.Database.MatchCount == 0 {
		config.Database.MatchCount = 3
	}

	if config.Collector.MaxDepth == 0 {
		config.Collector.MaxDepth = 2
	}
	if config.Collector.RateLimit == 0 {
		config.Collector.RateLimit = 2.0
	}

	if config.Server.Addr == "" {
		config.Server.Addr = ":5000"
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

func mergeWithEnv(config *Config) {
	if dbURL := os.Getenv("SUPABASE_DB_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if key := os.Getenv("SUPABASE_SERVICE_ROLE_KEY"); key != "" {
		config.Database.ServiceKey = key
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if apiKey := os.Getenv("GOOGLE_AI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Addr = ":" + port
	}
}
