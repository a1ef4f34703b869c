package service

import (
	"context"
	"fmt"
	"strings"

	"GoRAGService/app/models"
	"GoRAGService/app/rag"
)

const (
	defaultTopK            = 2
	defaultMaxAnswerTokens = 100

	noAnswerFallback = "No answer found."
)

type Answer struct {
	Query   string `json:"query"`
	Context string `json:"context"`
	Answer  string `json:"answer"`
}

// Answerer turns a free-text query into a grounded answer: embed the query,
// pull the nearest documents, and hand the assembled context to the
// generation model.
type Answerer struct {
	provider  models.Interface
	store     rag.Store
	topK      int
	maxTokens int
}

func NewAnswerer(provider models.Interface, store rag.Store, topK, maxTokens int) *Answerer {
	if topK <= 0 {
		topK = defaultTopK
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxAnswerTokens
	}
	return &Answerer{
		provider:  provider,
		store:     store,
		topK:      topK,
		maxTokens: maxTokens,
	}
}

func (a *Answerer) Answer(ctx context.Context, query string) (Answer, error) {
	if strings.TrimSpace(query) == "" {
		return Answer{}, &ValidationError{Msg: "Query cannot be empty."}
	}

	vector, err := a.provider.EmbedText(ctx, query)
	if err != nil {
		return Answer{}, &DependencyError{Err: err}
	}

	docs, err := a.store.Query(ctx, vector, a.topK)
	if err != nil {
		return Answer{}, &DependencyError{Err: err}
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}
	context := strings.Join(texts, " ")

	prompt := fmt.Sprintf("Context: %s\n\nQuestion: %s\nAnswer:", context, query)
	generated, err := a.provider.Generate(ctx, prompt, a.maxTokens)
	if err != nil {
		return Answer{}, &DependencyError{Err: err}
	}
	if generated == "" {
		generated = noAnswerFallback
	}

	return Answer{
		Query:   query,
		Context: context,
		Answer:  generated,
	}, nil
}
