package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"GoRAGService/app/models"
	"GoRAGService/app/rag"
)

func TestIngestFiltersDuplicatesBeforeEmbedding(t *testing.T) {
	contents := []string{"one", "two", "three", "four", "five"}
	existing := []rag.VectorDoc{
		{ID: Fingerprint("one"), Content: "one"},
		{ID: Fingerprint("three"), Content: "three"},
		{ID: Fingerprint("five"), Content: "five"},
	}

	provider := new(models.MockProvider)
	store := new(rag.MockStore)
	store.On("Get", mock.Anything, mock.Anything).Return(existing, nil)
	provider.On("EmbedBatch", mock.Anything, []string{"two", "four"}).
		Return([][]float32{{1, 0}, {0, 1}}, nil)
	store.On("UpsertBatch", mock.Anything, mock.MatchedBy(func(docs []rag.VectorDoc) bool {
		return len(docs) == 2 &&
			docs[0].ID == Fingerprint("two") && docs[0].Content == "two" &&
			docs[1].ID == Fingerprint("four") && docs[1].Content == "four"
	})).Return(nil)

	k := NewKnowledge(provider, store)
	require.NoError(t, k.Ingest(context.Background(), contents))

	provider.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestIngestAllDuplicatesSkipsProvider(t *testing.T) {
	provider := new(models.MockProvider)
	store := new(rag.MockStore)
	store.On("Get", mock.Anything, mock.Anything).
		Return([]rag.VectorDoc{{ID: Fingerprint("known"), Content: "known"}}, nil)

	k := NewKnowledge(provider, store)
	require.NoError(t, k.Ingest(context.Background(), []string{"known"}))

	provider.AssertNotCalled(t, "EmbedBatch", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestIngestCollapsesInRequestDuplicates(t *testing.T) {
	provider := new(models.MockProvider)
	store := new(rag.MockStore)
	store.On("Get", mock.Anything, mock.Anything).Return([]rag.VectorDoc{}, nil)
	provider.On("EmbedBatch", mock.Anything, []string{"same"}).
		Return([][]float32{{1}}, nil)
	store.On("UpsertBatch", mock.Anything, mock.MatchedBy(func(docs []rag.VectorDoc) bool {
		return len(docs) == 1
	})).Return(nil)

	k := NewKnowledge(provider, store)
	require.NoError(t, k.Ingest(context.Background(), []string{"same", "same"}))

	provider.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestIngestNothing(t *testing.T) {
	k := NewKnowledge(new(models.MockProvider), new(rag.MockStore))
	require.NoError(t, k.Ingest(context.Background(), nil))
}

func TestIngestStoreFailure(t *testing.T) {
	provider := new(models.MockProvider)
	store := new(rag.MockStore)
	store.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("store down"))

	err := NewKnowledge(provider, store).Ingest(context.Background(), []string{"doc"})

	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	require.EqualError(t, err, "store down")
}

func TestGetByIDNotFound(t *testing.T) {
	store := new(rag.MockStore)
	store.On("Get", mock.Anything, []string{"missing"}).Return([]rag.VectorDoc{}, nil)

	_, err := NewKnowledge(new(models.MockProvider), store).GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIDFound(t *testing.T) {
	store := new(rag.MockStore)
	store.On("Get", mock.Anything, []string{"abc"}).
		Return([]rag.VectorDoc{{ID: "abc", Content: "hello"}}, nil)

	doc, err := NewKnowledge(new(models.MockProvider), store).GetByID(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, Document{ID: "abc", Content: "hello"}, doc)
}

func TestListAll(t *testing.T) {
	store := new(rag.MockStore)
	store.On("List", mock.Anything).Return([]rag.VectorDoc{
		{ID: "a", Content: "first"},
		{ID: "b", Content: "second"},
	}, nil)

	docs, err := NewKnowledge(new(models.MockProvider), store).ListAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Document{{ID: "a", Content: "first"}, {ID: "b", Content: "second"}}, docs)
}
