package search

import (
	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
	"github.com/kailas-cloud/transcripts/internal/domain/search/query"
	"github.com/kailas-cloud/transcripts/internal/domain/search/request"
)

// Explanation holds every intermediate form of one query.
type Explanation struct {
	Parsed      query.ParsedQuery
	Clause      clause.Clause
	EngineQuery string
	Backend     predicate.Backend
	Predicate   predicate.Predicate
	SQL         string
	Args        []any
}

// Explain compiles req for both sides without contacting either. backend
// selects the SQL dialect; nil means the configured one.
func (s *Service) Explain(req *request.Request, backend *predicate.Backend) Explanation {
	pq := query.Parse(req.Query())
	c := clause.Compile(pq)

	compiler := s.compiler
	if backend != nil && *backend != compiler.Backend() {
		compiler = predicate.NewCompiler(*backend)
	}
	p := compiler.Compile(pq)

	ex := Explanation{
		Parsed:    pq,
		Clause:    c,
		Backend:   compiler.Backend(),
		Predicate: p,
	}
	if s.preview != nil {
		ex.EngineQuery = s.preview.Engine(c, req.Dates(), req.Limit())
		ex.SQL, ex.Args = s.preview.SQL(ex.Backend, p, req.Dates(), req.CommitteePattern(), req.Limit())
	}
	return ex
}
