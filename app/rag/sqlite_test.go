package rag

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	if err = store.Init(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestSQLiteUpsertIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := VectorDoc{ID: "a", Content: "The sky is blue.", Vector: []float32{1, 0, 0}}
	if err := store.UpsertBatch(ctx, []VectorDoc{doc}); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertBatch(ctx, []VectorDoc{doc}); err != nil {
		t.Fatal(err)
	}

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "a" || docs[0].Content != "The sky is blue." {
		t.Fatalf("unexpected listing: %+v", docs)
	}
}

func TestSQLiteGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.UpsertBatch(ctx, []VectorDoc{
		{ID: "a", Content: "first", Vector: []float32{1, 0, 0}},
		{ID: "b", Content: "second", Vector: []float32{0, 1, 0}},
	})
	if err != nil {
		t.Fatal(err)
	}

	docs, err := store.Get(ctx, []string{"a", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != "a" {
		t.Fatalf("expected only the existing id, got %+v", docs)
	}

	docs, err = store.Get(ctx, nil)
	if err != nil || docs != nil {
		t.Fatalf("empty id set should return nothing, got %+v %v", docs, err)
	}
}

func TestSQLiteListOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, d := range []VectorDoc{
		{ID: "z", Content: "inserted first", Vector: []float32{1, 0, 0}},
		{ID: "a", Content: "inserted second", Vector: []float32{0, 1, 0}},
	} {
		if err := store.UpsertBatch(ctx, []VectorDoc{d}); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].ID != "z" || docs[1].ID != "a" {
		t.Fatalf("expected insertion order, got %+v", docs)
	}
}

func TestSQLiteQueryRanksByCosine(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.UpsertBatch(ctx, []VectorDoc{
		{ID: "x", Content: "about the sky", Vector: []float32{1, 0, 0}},
		{ID: "y", Content: "about the sea", Vector: []float32{0, 1, 0}},
		{ID: "z", Content: "about nothing", Vector: []float32{0, 0, 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.Query(ctx, []float32{0.9, 0.1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "x" || got[1].ID != "y" {
		t.Fatalf("unexpected ranking: %+v", got)
	}

	// k larger than the corpus returns everything.
	got, err = store.Query(ctx, []float32{1, 0, 0}, 10)
	if err != nil || len(got) != 3 {
		t.Fatalf("unexpected result: %+v %v", got, err)
	}
}

func TestSQLiteQueryEmptyStore(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Query(context.Background(), []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %+v", got)
	}
}
