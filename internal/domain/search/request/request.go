package request

import (
	"fmt"
	"unicode/utf8"

	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in runes.
	MaxQueryLength = 4096
	// MaxPatternLength caps a committee pattern in runes.
	MaxPatternLength = 256
	DefaultLimit     = 20
	MaxLimit         = 100
)

// Limits overrides the default and maximum page size.
type Limits struct {
	Default int
	Max     int
}

func (l Limits) normalize() Limits {
	if l.Default <= 0 {
		l.Default = DefaultLimit
	}
	if l.Max <= 0 {
		l.Max = MaxLimit
	}
	if l.Default > l.Max {
		l.Default = l.Max
	}
	return l
}

// Request is a validated search query. An empty query is valid and matches
// every transcript.
type Request struct {
	query  string
	source mode.Mode
	dates  filter.DateRange
	limit  int

	committeePattern string
}

// New validates and normalizes search parameters.
// Defaults: source=auto, limit=20. Limit is clamped to the maximum.
func New(query string, src mode.Mode, dates filter.DateRange, limit int, limits ...Limits) (Request, error) {
	var l Limits
	if len(limits) > 0 {
		l = limits[0]
	}
	l = l.normalize()

	if utf8.RuneCountInString(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if src == "" {
		src = mode.Auto
	}
	if !src.IsValid() {
		return Request{}, fmt.Errorf("invalid source: %q", src)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("limit must not be negative")
	}
	if limit == 0 {
		limit = l.Default
	}
	if limit > l.Max {
		limit = l.Max
	}

	return Request{query: query, source: src, dates: dates, limit: limit}, nil
}

// Query returns the raw search query text.
func (r *Request) Query() string { return r.query }

// Source returns the requested search source.
func (r *Request) Source() mode.Mode { return r.source }

// Dates returns the meeting date filter.
func (r *Request) Dates() filter.DateRange { return r.dates }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// CommitteePattern returns the raw committee LIKE pattern, or "".
func (r *Request) CommitteePattern() string { return r.committeePattern }

// WithCommitteePattern returns a copy of r that also requires a committee
// matching pattern, a raw LIKE pattern with % and _ wildcards. Only the
// relational store evaluates it, so an engine-only request is rejected.
func (r Request) WithCommitteePattern(pattern string) (Request, error) {
	if pattern == "" {
		r.committeePattern = ""
		return r, nil
	}
	if utf8.RuneCountInString(pattern) > MaxPatternLength {
		return Request{}, fmt.Errorf("committee pattern too long (max %d chars)", MaxPatternLength)
	}
	if r.source == mode.Engine {
		return Request{}, fmt.Errorf("committee pattern requires the relational store")
	}
	r.committeePattern = pattern
	return r, nil
}
