package rag

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore is an embedded vector store: documents and their embeddings
// live in a single table, similarity search ranks every row by cosine
// similarity. Suited to the small corpora this service targets.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db at %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Init(ctx context.Context, vectorSize int) error {
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS documents (
            id TEXT PRIMARY KEY,
            content TEXT NOT NULL,
            embedding BLOB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        );
    `)
	if err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertBatch(ctx context.Context, docs []VectorDoc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, d := range docs {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO documents (id, content, embedding) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET content = excluded.content, embedding = excluded.embedding`,
			d.ID, d.Content, encodeVector(d.Vector),
		)
		if err != nil {
			return fmt.Errorf("upsert document %s: %w", d.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Get(ctx context.Context, ids []string) ([]VectorDoc, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content FROM documents WHERE id IN (`+placeholders+`) ORDER BY rowid ASC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDocs(rows)
}

func (s *SQLiteStore) List(ctx context.Context) ([]VectorDoc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content FROM documents ORDER BY rowid ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDocs(rows)
}

func (s *SQLiteStore) Query(ctx context.Context, vector []float32, k int) ([]VectorDoc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, embedding FROM documents`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type scored struct {
		doc   VectorDoc
		score float64
	}
	var candidates []scored
	for rows.Next() {
		var doc VectorDoc
		var blob []byte
		if err = rows.Scan(&doc.ID, &doc.Content, &blob); err != nil {
			return nil, err
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		candidates = append(candidates, scored{doc: doc, score: cosineSimilarity(vector, vec)})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if k > len(candidates) {
		k = len(candidates)
	}

	out := make([]VectorDoc, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, candidates[i].doc)
	}
	return out, nil
}

func scanDocs(rows *sql.Rows) ([]VectorDoc, error) {
	var docs []VectorDoc
	for rows.Next() {
		var doc VectorDoc
		if err := rows.Scan(&doc.ID, &doc.Content); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
