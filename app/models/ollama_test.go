package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ollamaEmbeddingEndpoint:
			var req ollamaEmbeddingRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Model != "nomic-embed-text" {
				t.Errorf("unexpected model %q", req.Model)
			}
			json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float32{0.5, 0.5}})
		case ollamaGenerateEndpoint:
			var req ollamaGenerateRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Stream {
				t.Error("expected stream to be disabled")
			}
			json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "blue", Done: true})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	oc := NewOllamaClient(ts.URL, "llama3", "nomic-embed-text")
	ctx := context.Background()

	vecs, err := oc.EmbedBatch(ctx, []string{"a", "b", "c"})
	if err != nil || len(vecs) != 3 || len(vecs[0]) != 2 {
		t.Fatalf("unexpected embeddings: %v %v", vecs, err)
	}

	answer, err := oc.Generate(ctx, "Question: what color is the sky?", 100)
	if err != nil || answer != "blue" {
		t.Fatalf("unexpected answer: %q %v", answer, err)
	}
}
