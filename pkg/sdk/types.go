package transcripts

import "time"

// Source names the store that answers a search.
type Source string

// Source constants.
const (
	SourceAuto       Source = "auto"
	SourceEngine     Source = "engine"
	SourceRelational Source = "relational"
)

// Hit is a single search result.
type Hit struct {
	ID          string
	Score       float64
	Title       string
	Speaker     string
	MeetingName string
	Committees  []string
	Date        time.Time
	Content     string
	// Excerpt is HTML-escaped text with matches wrapped in <mark> tags.
	Excerpt string
}

// SearchResult is one page of hits.
type SearchResult struct {
	Hits  []Hit
	Total int
	// Source is the store that answered.
	Source Source
	// FallbackReason is set when the relational store answered an auto
	// search: "timeout", "error", "disabled" or "forced".
	FallbackReason string
	// Advanced reports whether the query used field prefixes, quotes,
	// exclusions or booleans.
	Advanced bool
	// ParseSuccess is false when the query fell back to plain text.
	ParseSuccess bool
}

// Explanation shows how a query compiles, without running it.
type Explanation struct {
	Parsed      string
	MatchTerms  []string
	EngineQuery string
	Backend     string
	Predicate   string
	SQL         string
	Args        []any
}
