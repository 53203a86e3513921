package reindex

import (
	"context"

	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
)

// Source streams stored transcripts in batches.
type Source interface {
	Each(ctx context.Context, batch int, fn func([]result.Result) error) error
}

// Sink writes transcripts into the engine index.
type Sink interface {
	Put(ctx context.Context, items []result.Result) error
}
