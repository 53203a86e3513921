package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/transcripts/internal/domain"
	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/excerpt"
	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
	"github.com/kailas-cloud/transcripts/internal/domain/search/query"
	"github.com/kailas-cloud/transcripts/internal/domain/search/request"
	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
	"github.com/kailas-cloud/transcripts/internal/logger"
	"github.com/kailas-cloud/transcripts/internal/metrics"
)

// DefaultEngineTimeout bounds the engine call before falling back.
const DefaultEngineTimeout = 1500 * time.Millisecond

// FallbackReason records why the relational store answered.
type FallbackReason string

// Fallback reasons.
const (
	FallbackNone     FallbackReason = ""
	FallbackTimeout  FallbackReason = "timeout"
	FallbackError    FallbackReason = "error"
	FallbackDisabled FallbackReason = "disabled"
	FallbackForced   FallbackReason = "forced"
	// FallbackPattern marks a committee pattern, which only the relational
	// store evaluates.
	FallbackPattern FallbackReason = "committee_pattern"
)

// Options configures the search service.
type Options struct {
	Backend       predicate.Backend
	EngineTimeout time.Duration
	ExcerptWidth  int
}

// Response is one answered search.
type Response struct {
	Page     result.Page
	Parsed   query.ParsedQuery
	Fallback FallbackReason
}

// Service parses queries, searches the engine and falls back to the
// relational store.
type Service struct {
	engine     Engine
	relational Relational
	preview    Previewer
	compiler   *predicate.Compiler
	timeout    time.Duration
	excerpt    excerpt.Options
}

// New creates a search service. engine may be nil when no engine is
// configured; every search then goes to the relational store.
func New(engine Engine, rel Relational, preview Previewer, opts Options) *Service {
	if opts.EngineTimeout <= 0 {
		opts.EngineTimeout = DefaultEngineTimeout
	}
	return &Service{
		engine:     engine,
		relational: rel,
		preview:    preview,
		compiler:   predicate.NewCompiler(opts.Backend),
		timeout:    opts.EngineTimeout,
		excerpt:    excerpt.Options{Width: opts.ExcerptWidth},
	}
}

// Search answers req from the source it names. Auto tries the engine first;
// the predicate is compiled only when the relational store is needed.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	start := time.Now()
	pq := query.Parse(req.Query())
	metrics.ObserveParse(pq.HasAdvancedSyntax(), pq.ParseSuccess())

	resp := Response{Parsed: pq}
	var err error

	switch req.Source() {
	case mode.Engine:
		if s.engine == nil {
			return resp, domain.ErrEngineDisabled
		}
		resp.Page, err = s.searchEngine(ctx, pq, req)
	case mode.Relational:
		resp.Fallback = FallbackForced
		resp.Page, err = s.searchRelational(ctx, pq, req)
	case mode.Auto:
		resp.Page, resp.Fallback, err = s.searchAuto(ctx, pq, req)
	default:
		return resp, fmt.Errorf("%w: unsupported source %q", domain.ErrInvalidRequest, req.Source())
	}

	if resp.Fallback != FallbackNone {
		metrics.SearchFallbackTotal.WithLabelValues(string(resp.Fallback)).Inc()
	}
	s.logQuery(ctx, pq, resp, err, time.Since(start))
	if err != nil {
		return resp, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}

	s.addExcerpts(&resp.Page, pq.MatchTerms())
	return resp, nil
}

func (s *Service) searchAuto(
	ctx context.Context, pq query.ParsedQuery, req *request.Request,
) (result.Page, FallbackReason, error) {
	if s.engine == nil {
		page, err := s.searchRelational(ctx, pq, req)
		return page, FallbackDisabled, err
	}
	if req.CommitteePattern() != "" {
		page, err := s.searchRelational(ctx, pq, req)
		return page, FallbackPattern, err
	}

	page, err := s.searchEngine(ctx, pq, req)
	if err == nil {
		return page, FallbackNone, nil
	}
	if ctx.Err() != nil {
		// caller canceled
		return result.Page{}, FallbackNone, ctx.Err()
	}

	reason := FallbackError
	if errors.Is(err, context.DeadlineExceeded) {
		reason = FallbackTimeout
	}
	logger.FromContext(ctx).Warn("engine search failed, falling back",
		zap.String("reason", string(reason)), zap.Error(err))

	page, relErr := s.searchRelational(ctx, pq, req)
	if relErr != nil {
		return result.Page{}, reason, errors.Join(err, relErr)
	}
	return page, reason, nil
}

func (s *Service) searchEngine(
	ctx context.Context, pq query.ParsedQuery, req *request.Request,
) (result.Page, error) {
	ectx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	page, err := s.engine.Search(ectx, clause.Compile(pq), req.Dates(), req.Limit())
	observe(mode.Engine, start, err)
	if err != nil {
		return result.Page{}, fmt.Errorf("engine: %w", err)
	}
	return page, nil
}

func (s *Service) searchRelational(
	ctx context.Context, pq query.ParsedQuery, req *request.Request,
) (result.Page, error) {
	start := time.Now()
	page, err := s.relational.Search(ctx, s.compiler.Compile(pq), req.Dates(), req.CommitteePattern(), req.Limit())
	observe(mode.Relational, start, err)
	if err != nil {
		return result.Page{}, fmt.Errorf("relational: %w", err)
	}
	return page, nil
}

func (s *Service) addExcerpts(page *result.Page, terms []string) {
	for i := range page.Items {
		page.Items[i] = page.Items[i].WithExcerpt(excerpt.Build(page.Items[i].Content(), terms, s.excerpt))
	}
}

func observe(src mode.Mode, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(src), status).Inc()
	metrics.SearchDuration.WithLabelValues(string(src)).Observe(time.Since(start).Seconds())
}

// logQuery emits the search_query event. The raw query is only logged at
// debug level.
func (s *Service) logQuery(ctx context.Context, pq query.ParsedQuery, resp Response, err error, took time.Duration) {
	log := logger.FromContext(ctx)
	fields := []zap.Field{
		zap.String("query_hash", QueryHash(pq.OriginalQuery())),
		zap.Bool("has_advanced_syntax", pq.HasAdvancedSyntax()),
		zap.Bool("parse_success", pq.ParseSuccess()),
		zap.Bool("explicit_booleans", pq.HasExplicitBooleans()),
		zap.Int("groups", len(pq.Groups())),
		zap.String("source", string(resp.Page.Source)),
		zap.String("fallback_reason", string(resp.Fallback)),
		zap.Int("results", len(resp.Page.Items)),
		zap.Duration("took", took),
	}
	if err != nil {
		log.Error("search_query", append(fields, zap.Error(err))...)
		return
	}
	log.Info("search_query", fields...)
	log.Debug("search_query_raw", zap.String("query", pq.OriginalQuery()))
}

// QueryHash is the telemetry identity of a raw query.
func QueryHash(raw string) string {
	return strconv.FormatUint(xxhash.Sum64String(raw), 16)
}
