package db

import (
	"context"
	"time"
)

// Engine is the full-text engine facade combining all sub-interfaces.
type Engine interface {
	Pinger
	IndexManager
	Searcher
	Indexer
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher runs compiled clause queries against an index.
type Searcher interface {
	Search(ctx context.Context, q *EngineQuery) (*SearchResult, error)
}

// Indexer writes documents into an engine index.
type Indexer interface {
	PutDocuments(ctx context.Context, index string, docs []Document) error
}
