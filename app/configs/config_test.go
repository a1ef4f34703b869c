package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
provider:
  type: ollama
  model: llama3
  embedding_model: nomic-embed-text
store:
  type: sqlite
  sqlite: {}
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if err = cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Address != ":8000" {
		t.Errorf("unexpected address %q", cfg.Server.Address)
	}
	if cfg.Retrieval.TopK != 2 {
		t.Errorf("unexpected top_k %d", cfg.Retrieval.TopK)
	}
	if cfg.Provider.MaxAnswerTokens != 100 {
		t.Errorf("unexpected max_answer_tokens %d", cfg.Provider.MaxAnswerTokens)
	}
	if cfg.Store.SQLite.Path != "data/knowledge.db" {
		t.Errorf("unexpected sqlite path %q", cfg.Store.SQLite.Path)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_RAG_COLLECTION", "my_knowledge_base")
	path := writeConfig(t, `
provider:
  type: openai
  api_key_env: OPENAI_API_KEY
  model: gpt2
  embedding_model: all-minilm
store:
  type: qdrant
  qdrant:
    collection: ${TEST_RAG_COLLECTION}
    vector_size: 384
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if err = cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Store.Qdrant.Collection != "my_knowledge_base" {
		t.Errorf("env not expanded: %q", cfg.Store.Qdrant.Collection)
	}
	if cfg.Store.Qdrant.Host != "localhost" || cfg.Store.Qdrant.Port != 6334 {
		t.Errorf("qdrant defaults not applied: %+v", cfg.Store.Qdrant)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unknown_provider", `
provider:
  type: huggingface
  model: gpt2
  embedding_model: all-minilm
store:
  type: sqlite
  sqlite: {}
`},
		{"missing_model", `
provider:
  type: ollama
  embedding_model: nomic-embed-text
store:
  type: sqlite
  sqlite: {}
`},
		{"store_without_section", `
provider:
  type: ollama
  model: llama3
  embedding_model: nomic-embed-text
store:
  type: qdrant
`},
	}
	for _, cse := range cases {
		t.Run(cse.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, cse.content))
			if err != nil {
				t.Fatal(err)
			}
			if err = cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
