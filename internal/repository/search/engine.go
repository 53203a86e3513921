package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
)

// engineStore is the consumer interface for engine search (ISP).
type engineStore interface {
	Search(ctx context.Context, q *db.EngineQuery) (*db.SearchResult, error)
	PutDocuments(ctx context.Context, index string, docs []db.Document) error
}

// Engine implements usecase/search.Engine over a full-text engine.
type Engine struct {
	store engineStore
	index string
}

// NewEngine creates an engine repository reading index.
func NewEngine(s engineStore, index string) *Engine {
	return &Engine{store: s, index: index}
}

// Search runs the compiled clause and maps hits to results.
func (r *Engine) Search(
	ctx context.Context, c clause.Clause, dates filter.DateRange, limit int,
) (result.Page, error) {
	sr, err := r.store.Search(ctx, &db.EngineQuery{
		Index:        r.index,
		Clause:       c,
		Dates:        dates,
		Limit:        limit,
		ReturnFields: db.TranscriptFields(),
	})
	if err != nil {
		return result.Page{}, fmt.Errorf("engine search %s: %w", r.index, err)
	}
	return parseEngineResults(sr), nil
}

// Put writes results back into the index as documents.
func (r *Engine) Put(ctx context.Context, items []result.Result) error {
	if len(items) == 0 {
		return nil
	}
	docs := make([]db.Document, len(items))
	for i := range items {
		docs[i] = toDocument(&items[i])
	}
	if err := r.store.PutDocuments(ctx, r.index, docs); err != nil {
		return fmt.Errorf("put documents %s: %w", r.index, err)
	}
	return nil
}

func parseEngineResults(sr *db.SearchResult) result.Page {
	page := result.Page{Source: mode.Engine}
	if sr == nil || sr.Total == 0 {
		return page
	}
	page.Total = sr.Total
	page.Items = make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		page.Items = append(page.Items, result.New(entry.Key, entry.Score, parseEntryFields(entry.Fields), mode.Engine))
	}
	return page
}

// parseEntryFields maps flat engine fields onto a transcript. Unknown fields
// are ignored.
func parseEntryFields(fields map[string]string) result.Transcript {
	var t result.Transcript
	for k, v := range fields {
		switch k {
		case db.FieldTitle:
			t.Title = v
		case db.FieldContent:
			t.Content = v
		case db.FieldSpeaker:
			t.Speaker = v
		case db.FieldMeeting:
			t.MeetingName = v
		case db.FieldCommittees:
			t.Committees = db.SplitList(v, db.ListSeparator)
		case db.FieldDate:
			if d, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				t.Date = filter.FromUnixDay(d)
			}
		}
	}
	return t
}

func toDocument(r *result.Result) db.Document {
	t := r.Transcript()
	fields := map[string]string{
		db.FieldTitle:      t.Title,
		db.FieldContent:    t.Content,
		db.FieldSpeaker:    t.Speaker,
		db.FieldMeeting:    t.MeetingName,
		db.FieldCommittees: strings.Join(t.Committees, db.ListSeparator),
	}
	if !t.Date.IsZero() {
		fields[db.FieldDate] = strconv.FormatInt(filter.UnixDay(t.Date), 10)
	}
	return db.Document{ID: r.ID(), Fields: fields}
}
