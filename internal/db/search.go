package db

import (
	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
)

// EngineQuery is the input for a full-text engine search.
type EngineQuery struct {
	Index        string
	Clause       clause.Clause
	Dates        filter.DateRange
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// Document is a transcript as stored in an engine index. Multi-valued
// fields are joined with ListSeparator.
type Document struct {
	ID     string
	Fields map[string]string
}
