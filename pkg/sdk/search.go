package transcripts

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/transcripts/internal/domain"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
	"github.com/kailas-cloud/transcripts/internal/domain/search/request"
	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
)

// SearchOption configures one search.
type SearchOption func(*searchOptions)

type searchOptions struct {
	source   Source
	from, to string
	limit    int
	pattern  string
}

// WithSource forces the answering store. Default: SourceAuto.
func WithSource(s Source) SearchOption {
	return func(o *searchOptions) { o.source = s }
}

// WithDateRange restricts meeting dates, inclusive, as YYYY-MM-DD. An
// empty bound is open.
func WithDateRange(from, to string) SearchOption {
	return func(o *searchOptions) { o.from, o.to = from, to }
}

// WithLimit sets the page size, clamped to the client maximum.
func WithLimit(n int) SearchOption {
	return func(o *searchOptions) { o.limit = n }
}

// WithCommitteePattern also requires a committee label matching pattern, a
// raw SQL LIKE pattern such as "%社会福利%". It matches partial labels on
// every backend. Only the relational store evaluates it: an auto search goes
// straight there, and SourceEngine is rejected.
func WithCommitteePattern(pattern string) SearchOption {
	return func(o *searchOptions) { o.pattern = pattern }
}

func (c *Client) buildRequest(q string, opts []SearchOption) (request.Request, error) {
	o := searchOptions{source: SourceAuto}
	for _, fn := range opts {
		fn(&o)
	}
	src, ok := mode.Parse(string(o.source))
	if !ok {
		return request.Request{}, fmt.Errorf("%w: unknown source %q", domain.ErrInvalidRequest, o.source)
	}
	dates, err := filter.NewDateRange(o.from, o.to)
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	req, err := request.New(q, src, dates, o.limit, c.limits)
	if err == nil {
		req, err = req.WithCommitteePattern(o.pattern)
	}
	if err != nil {
		return request.Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return req, nil
}

// Search runs q through the query language and returns one page of hits,
// newest first when the relational store answers.
func (c *Client) Search(ctx context.Context, q string, opts ...SearchOption) (_ *SearchResult, err error) {
	start := time.Now()
	var source Source
	defer func() { c.obs.observe("search", start, err, "source", source) }()

	req, err := c.buildRequest(q, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	resp, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, len(resp.Page.Items))
	for i := range resp.Page.Items {
		hits[i] = fromInternalResult(&resp.Page.Items[i])
	}
	source = Source(resp.Page.Source)
	return &SearchResult{
		Hits:           hits,
		Total:          resp.Page.Total,
		Source:         source,
		FallbackReason: string(resp.Fallback),
		Advanced:       resp.Parsed.HasAdvancedSyntax(),
		ParseSuccess:   resp.Parsed.ParseSuccess(),
	}, nil
}

// Explain compiles q for the engine and the relational store without
// contacting either. backend selects the SQL dialect ("postgres", "mysql",
// "sqlite"); empty means the configured one.
func (c *Client) Explain(q, backend string, opts ...SearchOption) (Explanation, error) {
	req, err := c.buildRequest(q, opts)
	if err != nil {
		return Explanation{}, fmt.Errorf("explain: %w", err)
	}

	var b *predicate.Backend
	if backend != "" {
		parsed, err := predicate.ParseBackend(backend)
		if err != nil {
			return Explanation{}, fmt.Errorf("explain: %w: %w", domain.ErrInvalidRequest, err)
		}
		b = &parsed
	}

	ex := c.searchSvc.Explain(&req, b)
	return Explanation{
		Parsed:      ex.Parsed.DebugString(),
		MatchTerms:  ex.Parsed.MatchTerms(),
		EngineQuery: ex.EngineQuery,
		Backend:     ex.Backend.String(),
		Predicate:   ex.Predicate.String(),
		SQL:         ex.SQL,
		Args:        ex.Args,
	}, nil
}

func fromInternalResult(r *result.Result) Hit {
	return Hit{
		ID:          r.ID(),
		Score:       r.Score(),
		Title:       r.Title(),
		Speaker:     r.Speaker(),
		MeetingName: r.MeetingName(),
		Committees:  r.Committees(),
		Date:        r.Date(),
		Content:     r.Content(),
		Excerpt:     r.Excerpt(),
	}
}
