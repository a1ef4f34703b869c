package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"GoRAGService/app/utils/restclient"
)

const (
	ollamaGenerateEndpoint  = "/api/generate"
	ollamaEmbeddingEndpoint = "/api/embeddings"
)

// OllamaClient drives a local Ollama server.
type OllamaClient struct {
	restClient     restclient.Interface
	model          string
	embeddingModel string
}

func NewOllamaClient(baseURL, model, embeddingModel string) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaClient{
		restClient:     restclient.NewRestClient(baseURL, nil),
		model:          model,
		embeddingModel: embeddingModel,
	}
}

func (oc *OllamaClient) EmbedText(ctx context.Context, input string) ([]float32, error) {
	if oc.embeddingModel == "" {
		return nil, errors.New("embeddings model is empty; configure provider.embedding_model")
	}

	req := ollamaEmbeddingRequest{Model: oc.embeddingModel, Prompt: input}
	body, status, err := oc.restClient.Post(ctx, ollamaEmbeddingEndpoint, req, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("ollama embeddings status %d: %s", status, body)
	}

	var out ollamaEmbeddingResponse
	if err = json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse ollama embeddings json: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	return out.Embedding, nil
}

// EmbedBatch issues one embeddings call per input; the Ollama embeddings
// endpoint accepts a single prompt at a time.
func (oc *OllamaClient) EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, input := range inputs {
		vec, err := oc.EmbedText(ctx, input)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (oc *OllamaClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	req := ollamaGenerateRequest{
		Model:  oc.model,
		Prompt: prompt,
		Stream: false,
	}
	req.Options.NumPredict = maxTokens

	body, status, err := oc.restClient.Post(ctx, ollamaGenerateEndpoint, req, nil)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("ollama generate status %d: %s", status, body)
	}

	var out ollamaGenerateResponse
	if err = json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parse ollama generate json: %w", err)
	}
	return out.Response, nil
}
