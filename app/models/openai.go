package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"GoRAGService/app/utils/restclient"
)

const (
	completionEndpoint = "/v1/completions"
	embeddingEndpoint  = "/v1/embeddings"

	maxRetries = 3
)

// OpenAIClient talks to any OpenAI-compatible completions/embeddings API
// (OpenAI itself, LM Studio, vLLM, ...).
type OpenAIClient struct {
	restClient     restclient.Interface
	model          string
	embeddingModel string
	cache          sync.Map
}

func NewOpenAIClient(baseURL, apiKey, model, embeddingModel string) *OpenAIClient {
	var headers map[string]string
	if apiKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + apiKey}
	}
	return &OpenAIClient{
		restClient:     restclient.NewRestClient(baseURL, headers),
		model:          model,
		embeddingModel: embeddingModel,
	}
}

func (mc *OpenAIClient) EmbedText(ctx context.Context, input string) ([]float32, error) {
	if v, ok := mc.cache.Load(input); ok {
		if emb, ok2 := v.([]float32); ok2 {
			return emb, nil
		}
	}

	if mc.embeddingModel == "" {
		return nil, errors.New("embeddings model is empty; configure provider.embedding_model")
	}

	req := embeddingRequestPayload{
		Model: mc.embeddingModel,
		Input: input,
	}
	resp, err := mc.sendEmbeddings(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	emb := resp.Data[0].Embedding
	mc.cache.Store(input, emb)
	return emb, nil
}

func (mc *OpenAIClient) EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	req := embeddingRequestPayload{
		Model: mc.embeddingModel,
		Input: inputs,
	}
	resp, err := mc.sendEmbeddings(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(resp.Data))
	}

	// The API reports which input each vector belongs to.
	sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })
	out := make([][]float32, len(inputs))
	for i, item := range resp.Data {
		out[i] = item.Embedding
		mc.cache.Store(inputs[i], item.Embedding)
	}
	return out, nil
}

func (mc *OpenAIClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload := completionRequestPayload{
		Model:     mc.model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
		N:         1,
	}

	var (
		lastErr error
		out     completionResponse
	)
	for i := 0; i < maxRetries; i++ {
		if err := mc.backoff(ctx, i); err != nil {
			return "", err
		}

		body, status, err := mc.restClient.Post(ctx, completionEndpoint, payload, nil)
		if err != nil {
			lastErr = err
			log.Printf("⚠️ completion attempt %d failed: http=%d err=%v", i+1, status, err)
			continue
		}
		if status < 200 || status >= 300 {
			lastErr = fmt.Errorf("completion http status %d: %s", status, body)
			log.Printf("⚠️ %v", lastErr)
			continue
		}
		if err = json.Unmarshal(body, &out); err != nil {
			lastErr = fmt.Errorf("parse completion json: %w", err)
			log.Printf("⚠️ %v", lastErr)
			continue
		}
		if len(out.Choices) == 0 {
			return "", nil
		}
		return out.Choices[0].Text, nil
	}
	return "", fmt.Errorf("completion request failed after %d retries: %w", maxRetries, lastErr)
}

func (mc *OpenAIClient) sendEmbeddings(ctx context.Context, payload embeddingRequestPayload) (*embeddingResponse, error) {
	var (
		lastErr error
		out     embeddingResponse
	)
	for i := 0; i < maxRetries; i++ {
		if err := mc.backoff(ctx, i); err != nil {
			return nil, err
		}

		body, status, err := mc.restClient.Post(ctx, embeddingEndpoint, payload, nil)
		if err != nil {
			lastErr = err
			log.Printf("⚠️ embed attempt %d failed: http=%d err=%v", i+1, status, err)
			continue
		}
		if status < 200 || status >= 300 {
			lastErr = fmt.Errorf("embeddings http status %d: %s", status, body)
			log.Printf("⚠️ %v", lastErr)
			continue
		}
		if err = json.Unmarshal(body, &out); err != nil {
			lastErr = fmt.Errorf("parse embeddings json: %w", err)
			log.Printf("⚠️ %v", lastErr)
			continue
		}
		return &out, nil
	}
	return nil, fmt.Errorf("embeddings request failed after %d retries: %w", maxRetries, lastErr)
}

func (mc *OpenAIClient) backoff(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if attempt > 0 {
		sleep := time.Duration(100*(1<<uint(attempt))) * time.Millisecond
		sleep += time.Duration(time.Now().UnixNano() % int64(100*time.Millisecond))
		time.Sleep(sleep)
	}
	return nil
}
