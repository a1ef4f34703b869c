package models

import "context"

// Interface is the capability surface the workflows need from a model
// provider: text embedding and bounded single-candidate generation.
type Interface interface {
	EmbedText(ctx context.Context, input string) ([]float32, error)
	EmbedBatch(ctx context.Context, inputs []string) ([][]float32, error)
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}
