package service

import (
	"context"
	"log"

	"GoRAGService/app/models"
	"GoRAGService/app/rag"
)

type Document struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Knowledge orchestrates document ingestion and retrieval against the
// vector store.
type Knowledge struct {
	provider models.Interface
	store    rag.Store
}

func NewKnowledge(provider models.Interface, store rag.Store) *Knowledge {
	return &Knowledge{
		provider: provider,
		store:    store,
	}
}

// Ingest fingerprints every input, drops the ones already stored, embeds
// the survivors in one batch call and upserts them. Re-submitting known
// content is a no-op, not an error.
func (k *Knowledge) Ingest(ctx context.Context, contents []string) error {
	if len(contents) == 0 {
		return nil
	}

	ids := make([]string, len(contents))
	for i, content := range contents {
		ids[i] = Fingerprint(content)
	}

	existing, err := k.store.Get(ctx, ids)
	if err != nil {
		return &DependencyError{Err: err}
	}
	known := make(map[string]bool, len(existing))
	for _, doc := range existing {
		known[doc.ID] = true
	}

	var novel []string
	var novelIDs []string
	for i, content := range contents {
		if known[ids[i]] {
			log.Printf("📄 Document already exists, ignoring doc id:%s", ids[i])
			continue
		}
		known[ids[i]] = true
		novel = append(novel, content)
		novelIDs = append(novelIDs, ids[i])
	}
	if len(novel) == 0 {
		return nil
	}

	vectors, err := k.provider.EmbedBatch(ctx, novel)
	if err != nil {
		return &DependencyError{Err: err}
	}

	docs := make([]rag.VectorDoc, len(novel))
	for i := range novel {
		docs[i] = rag.VectorDoc{
			ID:      novelIDs[i],
			Content: novel[i],
			Vector:  vectors[i],
		}
	}
	if err = k.store.UpsertBatch(ctx, docs); err != nil {
		return &DependencyError{Err: err}
	}

	log.Printf("✅ Ingested %d new documents (%d duplicates skipped)", len(novel), len(contents)-len(novel))
	return nil
}

// ListAll returns every stored document in store-defined order.
func (k *Knowledge) ListAll(ctx context.Context) ([]Document, error) {
	docs, err := k.store.List(ctx)
	if err != nil {
		return nil, &DependencyError{Err: err}
	}

	out := make([]Document, len(docs))
	for i, doc := range docs {
		out[i] = Document{ID: doc.ID, Content: doc.Content}
	}
	return out, nil
}

func (k *Knowledge) GetByID(ctx context.Context, id string) (Document, error) {
	docs, err := k.store.Get(ctx, []string{id})
	if err != nil {
		return Document{}, &DependencyError{Err: err}
	}
	if len(docs) == 0 {
		return Document{}, ErrNotFound
	}
	return Document{ID: docs[0].ID, Content: docs[0].Content}, nil
}
