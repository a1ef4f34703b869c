package rag

import "context"

type VectorDoc struct {
	ID       string
	Content  string
	Metadata map[string]any
	Vector   []float32
}

// Store persists (id, content, vector) triples. Upserts are idempotent per
// id; Get returns only the ids that exist.
type Store interface {
	Init(ctx context.Context, vectorSize int) error
	UpsertBatch(ctx context.Context, docs []VectorDoc) error
	Get(ctx context.Context, ids []string) ([]VectorDoc, error)
	List(ctx context.Context) ([]VectorDoc, error)
	Query(ctx context.Context, vector []float32, k int) ([]VectorDoc, error)
	Close() error
}
