package search

import (
	"encoding/json"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/db/elastic"
	"github.com/kailas-cloud/transcripts/internal/db/redis"
	"github.com/kailas-cloud/transcripts/internal/db/relational"
	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

// EngineElasticsearch selects the Elasticsearch request body in previews.
// Every other driver previews as a RediSearch query string.
const EngineElasticsearch = "elasticsearch"

// Preview implements usecase/search.Previewer with the stores' own
// renderers.
type Preview struct {
	engine string
	index  string
	table  string
	delim  string
}

// NewPreview creates a Preview for the given engine driver and table.
func NewPreview(engineDriver, index, table, delim string) *Preview {
	return &Preview{engine: engineDriver, index: index, table: table, delim: delim}
}

// Engine renders the request the engine store would send.
func (p *Preview) Engine(c clause.Clause, dates filter.DateRange, limit int) string {
	if p.engine == EngineElasticsearch {
		body, err := json.Marshal(elastic.BuildRequest(&db.EngineQuery{
			Index:        p.index,
			Clause:       c,
			Dates:        dates,
			Limit:        limit,
			ReturnFields: db.TranscriptFields(),
		}))
		if err != nil {
			return ""
		}
		return string(body)
	}
	return redis.RenderQuery(c, dates)
}

// SQL renders the page statement for backend b.
func (p *Preview) SQL(
	b predicate.Backend, pr predicate.Predicate, dates filter.DateRange, committeePattern string, limit int,
) (string, []any) {
	table := p.table
	if table == "" {
		table = relational.DefaultTable
	}
	page, _ := relational.BuildSearch(relational.DialectFor(b, p.delim), table, relational.Query{
		Predicate:        pr,
		Dates:            dates,
		Limit:            limit,
		CommitteePattern: committeePattern,
	})
	return page.SQL, page.Args
}
