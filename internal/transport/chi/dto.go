package chi

import (
	"encoding/json"

	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/request"
	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
	searchuc "github.com/kailas-cloud/transcripts/internal/usecase/search"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SearchResponse is the /api/v1/search body.
type SearchResponse struct {
	Items          []SearchResultItem `json:"items"`
	Total          int                `json:"total"`
	Limit          int                `json:"limit"`
	Source         string             `json:"source"`
	FallbackReason string             `json:"fallback_reason,omitempty"`
	Query          QueryInfo          `json:"query"`
}

// QueryInfo reports how the query was understood.
type QueryInfo struct {
	HasAdvancedSyntax   bool `json:"has_advanced_syntax"`
	ParseSuccess        bool `json:"parse_success"`
	HasExplicitBooleans bool `json:"has_explicit_booleans"`
}

// SearchResultItem is one hit.
type SearchResultItem struct {
	ID          string   `json:"id"`
	Score       float64  `json:"score"`
	Title       string   `json:"title"`
	Speaker     string   `json:"speaker,omitempty"`
	MeetingName string   `json:"meeting_name,omitempty"`
	Committees  []string `json:"committees,omitempty"`
	Date        string   `json:"date,omitempty"`
	Excerpt     string   `json:"excerpt"`
}

// ExplainResponse is the /api/v1/search/explain body.
type ExplainResponse struct {
	Parsed       ParsedInfo      `json:"parsed"`
	EngineClause json.RawMessage `json:"engine_clause"`
	EngineQuery  string          `json:"engine_query,omitempty"`
	Backend      string          `json:"backend"`
	Predicate    string          `json:"predicate"`
	SQL          string          `json:"sql,omitempty"`
	Args         []any           `json:"args,omitempty"`
}

// ParsedInfo is the parse result as shown by explain.
type ParsedInfo struct {
	QueryInfo
	Debug      string   `json:"debug"`
	Groups     int      `json:"groups"`
	MatchTerms []string `json:"match_terms"`
}

func searchResponseFromDomain(req *request.Request, resp searchuc.Response) SearchResponse {
	items := make([]SearchResultItem, len(resp.Page.Items))
	for i := range resp.Page.Items {
		items[i] = searchResultToDTO(&resp.Page.Items[i])
	}
	return SearchResponse{
		Items:          items,
		Total:          resp.Page.Total,
		Limit:          req.Limit(),
		Source:         string(resp.Page.Source),
		FallbackReason: string(resp.Fallback),
		Query: QueryInfo{
			HasAdvancedSyntax:   resp.Parsed.HasAdvancedSyntax(),
			ParseSuccess:        resp.Parsed.ParseSuccess(),
			HasExplicitBooleans: resp.Parsed.HasExplicitBooleans(),
		},
	}
}

func searchResultToDTO(r *result.Result) SearchResultItem {
	item := SearchResultItem{
		ID:          r.ID(),
		Score:       r.Score(),
		Title:       r.Title(),
		Speaker:     r.Speaker(),
		MeetingName: r.MeetingName(),
		Committees:  r.Committees(),
		Excerpt:     r.Excerpt(),
	}
	if !r.Date().IsZero() {
		item.Date = r.Date().Format(filter.DateLayout)
	}
	return item
}

func explainResponseFromDomain(ex searchuc.Explanation) ExplainResponse {
	clause, err := json.Marshal(ex.Clause)
	if err != nil {
		clause = json.RawMessage(`null`)
	}
	terms := ex.Parsed.MatchTerms()
	if terms == nil {
		terms = []string{}
	}
	return ExplainResponse{
		Parsed: ParsedInfo{
			QueryInfo: QueryInfo{
				HasAdvancedSyntax:   ex.Parsed.HasAdvancedSyntax(),
				ParseSuccess:        ex.Parsed.ParseSuccess(),
				HasExplicitBooleans: ex.Parsed.HasExplicitBooleans(),
			},
			Debug:      ex.Parsed.DebugString(),
			Groups:     len(ex.Parsed.Groups()),
			MatchTerms: terms,
		},
		EngineClause: clause,
		EngineQuery:  ex.EngineQuery,
		Backend:      ex.Backend.String(),
		Predicate:    ex.Predicate.String(),
		SQL:          ex.SQL,
		Args:         ex.Args,
	}
}
