package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
	"github.com/kailas-cloud/transcripts/internal/domain/search/request"
)

// explainOutput is what explain prints.
type explainOutput struct {
	Query       string          `json:"query"`
	Advanced    bool            `json:"has_advanced_syntax"`
	Explicit    bool            `json:"has_explicit_booleans"`
	Parsed      string          `json:"parsed"`
	MatchTerms  []string        `json:"match_terms"`
	Clause      json.RawMessage `json:"engine_clause"`
	EngineQuery string          `json:"engine_query"`
	Backend     string          `json:"backend"`
	Predicate   string          `json:"predicate"`
	SQL         string          `json:"sql"`
	Args        []any           `json:"args"`
}

// explainCommand compiles a query without connecting to either store.
func explainCommand(c *cli.Context) error {
	a, err := loadApp(c)
	if err != nil {
		return err
	}
	defer a.close()

	var backend *predicate.Backend
	if raw := c.String("backend"); raw != "" {
		b, err := predicate.ParseBackend(raw)
		if err != nil {
			return err
		}
		backend = &b
	}

	dates, err := filter.NewDateRange(c.String("from"), c.String("to"))
	if err != nil {
		return err
	}

	q := strings.Join(c.Args().Slice(), " ")
	req, err := request.New(q, mode.Auto, dates, c.Int("limit"), request.Limits{
		Default: a.cfg.Search.DefaultLimit,
		Max:     a.cfg.Search.MaxLimit,
	})
	if err == nil {
		req, err = req.WithCommitteePattern(c.String("committee-pattern"))
	}
	if err != nil {
		return err
	}

	ex := a.searchService().Explain(&req, backend)
	clause, err := json.Marshal(ex.Clause)
	if err != nil {
		return fmt.Errorf("marshal clause: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(explainOutput{
		Query:       q,
		Advanced:    ex.Parsed.HasAdvancedSyntax(),
		Explicit:    ex.Parsed.HasExplicitBooleans(),
		Parsed:      ex.Parsed.DebugString(),
		MatchTerms:  ex.Parsed.MatchTerms(),
		Clause:      clause,
		EngineQuery: ex.EngineQuery,
		Backend:     ex.Backend.String(),
		Predicate:   ex.Predicate.String(),
		SQL:         ex.SQL,
		Args:        ex.Args,
	})
}
