package configs

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Provider  ProviderConfig  `yaml:"provider" validate:"required"`
	Store     StoreConfig     `yaml:"store" validate:"required"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

type ServerConfig struct {
	Address             string `yaml:"address"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs" validate:"gte=0"`
}

type ProviderConfig struct {
	Type            string `yaml:"type" validate:"required,oneof=openai ollama"`
	BaseURL         string `yaml:"base_url"`
	APIKeyEnv       string `yaml:"api_key_env,omitempty"`
	Model           string `yaml:"model" validate:"required"`
	EmbeddingModel  string `yaml:"embedding_model" validate:"required"`
	MaxAnswerTokens int    `yaml:"max_answer_tokens" validate:"gte=0"`
}

type StoreConfig struct {
	Type   string        `yaml:"type" validate:"required,oneof=qdrant sqlite"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
	SQLite *SQLiteConfig `yaml:"sqlite,omitempty"`
}

type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port" validate:"gte=0"`
	Collection string `yaml:"collection"`
	VectorSize int    `yaml:"vector_size" validate:"gt=0"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k" validate:"gte=0"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read configs file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8000"
	}
	if c.Server.ShutdownTimeoutSecs == 0 {
		c.Server.ShutdownTimeoutSecs = 10
	}
	if c.Provider.MaxAnswerTokens == 0 {
		c.Provider.MaxAnswerTokens = 100
	}
	if c.Provider.Type == "openai" && c.Provider.BaseURL == "" {
		c.Provider.BaseURL = "https://api.openai.com"
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = 2
	}
	if c.Store.Type == "qdrant" && c.Store.Qdrant != nil {
		if c.Store.Qdrant.Host == "" {
			c.Store.Qdrant.Host = "localhost"
		}
		if c.Store.Qdrant.Port == 0 {
			c.Store.Qdrant.Port = 6334
		}
		if c.Store.Qdrant.Collection == "" {
			c.Store.Qdrant.Collection = "knowledge"
		}
	}
	if c.Store.Type == "sqlite" && c.Store.SQLite != nil && c.Store.SQLite.Path == "" {
		c.Store.SQLite.Path = "data/knowledge.db"
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configs: %w", err)
	}

	switch c.Store.Type {
	case "qdrant":
		if c.Store.Qdrant == nil {
			return fmt.Errorf("store type is qdrant but no qdrant section defined")
		}
	case "sqlite":
		if c.Store.SQLite == nil {
			return fmt.Errorf("store type is sqlite but no sqlite section defined")
		}
	}

	return nil
}
