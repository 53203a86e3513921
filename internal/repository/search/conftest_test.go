package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/db/relational"
)

// mockEngineStore implements the engine consumer interface for tests.
type mockEngineStore struct {
	searchFn       func(ctx context.Context, q *db.EngineQuery) (*db.SearchResult, error)
	putDocumentsFn func(ctx context.Context, index string, docs []db.Document) error
}

func (m *mockEngineStore) Search(ctx context.Context, q *db.EngineQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockEngineStore) PutDocuments(ctx context.Context, index string, docs []db.Document) error {
	if m.putDocumentsFn != nil {
		return m.putDocumentsFn(ctx, index, docs)
	}
	return nil
}

// mockRowStore implements the relational consumer interface for tests.
type mockRowStore struct {
	searchFn func(ctx context.Context, q relational.Query) (*relational.Page, error)
	scanFn   func(ctx context.Context, batch int, fn func([]relational.Row) error) error
}

func (m *mockRowStore) Search(ctx context.Context, q relational.Query) (*relational.Page, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &relational.Page{}, nil
}

func (m *mockRowStore) Scan(ctx context.Context, batch int, fn func([]relational.Row) error) error {
	if m.scanFn != nil {
		return m.scanFn(ctx, batch, fn)
	}
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *mockEngineStore) {
	t.Helper()
	ms := &mockEngineStore{}
	return NewEngine(ms, "transcripts"), ms
}

func newTestRelational(t *testing.T) (*Relational, *mockRowStore) {
	t.Helper()
	ms := &mockRowStore{}
	return NewRelational(ms), ms
}
