package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
)

// Search sends the clause as Query DSL to the _search API.
func (s *Store) Search(ctx context.Context, q *db.EngineQuery) (*db.SearchResult, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if q.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}

	raw, err := json.Marshal(BuildRequest(q))
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(q.Index),
		s.es.Search.WithBody(bytes.NewReader(raw)),
	)
	if err != nil {
		return nil, &db.Error{Op: db.OpESSearch, Err: err}
	}
	defer drain(res)
	if res.IsError() {
		return nil, responseError(db.OpESSearch, res)
	}

	return parseSearchResponse(res.Body)
}

// BuildRequest returns the _search request body for q.
func BuildRequest(q *db.EngineQuery) map[string]any {
	body := map[string]any{
		"query":            withDates(q.Clause, q.Dates),
		"from":             q.Offset,
		"size":             q.Limit,
		"track_total_hits": true,
	}
	if len(q.ReturnFields) > 0 {
		body["_source"] = q.ReturnFields
	}
	return body
}

// withDates wraps c with a non-scoring range filter when dates is set.
func withDates(c clause.Clause, dates filter.DateRange) any {
	if dates.IsEmpty() {
		return c
	}
	lo, loOK, hi, hiOK := dates.UnixDays()
	bounds := map[string]any{}
	if loOK {
		bounds["gte"] = lo
	}
	if hiOK {
		bounds["lte"] = hi
	}
	return map[string]any{"bool": map[string]any{
		"must":   []any{c},
		"filter": []any{map[string]any{"range": map[string]any{db.FieldDate: bounds}}},
	}}
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string                     `json:"_id"`
			Score  *float64                   `json:"_score"`
			Source map[string]json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func parseSearchResponse(r io.Reader) (*db.SearchResult, error) {
	var resp searchResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &db.SearchResult{
		Total:   resp.Hits.Total.Value,
		Entries: make([]db.SearchEntry, 0, len(resp.Hits.Hits)),
	}
	for _, h := range resp.Hits.Hits {
		e := db.SearchEntry{Key: h.ID, Fields: make(map[string]string, len(h.Source))}
		if h.Score != nil {
			e.Score = *h.Score
		}
		for k, v := range h.Source {
			e.Fields[k] = flatten(v)
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

// flatten turns a _source value into the string form used by SearchEntry.
// Arrays are joined with db.ListSeparator.
func flatten(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, flatten(item))
		}
		return strings.Join(parts, db.ListSeparator)
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}
