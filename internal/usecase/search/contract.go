package search

import (
	"context"

	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
)

// Engine runs compiled clauses against the full-text engine.
type Engine interface {
	Search(ctx context.Context, c clause.Clause, dates filter.DateRange, limit int) (result.Page, error)
}

// Relational runs compiled predicates against the relational store.
// committeePattern is a raw LIKE pattern over committee labels, or "".
type Relational interface {
	Search(
		ctx context.Context, p predicate.Predicate, dates filter.DateRange, committeePattern string, limit int,
	) (result.Page, error)
}

// Previewer renders the backend requests a query would produce, without
// sending them.
type Previewer interface {
	Engine(c clause.Clause, dates filter.DateRange, limit int) string
	SQL(
		b predicate.Backend, p predicate.Predicate, dates filter.DateRange, committeePattern string, limit int,
	) (string, []any)
}
