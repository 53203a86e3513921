package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/db/relational"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
)

// rowStore is the consumer interface for relational reads (ISP).
type rowStore interface {
	Search(ctx context.Context, q relational.Query) (*relational.Page, error)
	Scan(ctx context.Context, batch int, fn func([]relational.Row) error) error
}

// Relational implements usecase/search.Relational over a SQL table.
type Relational struct {
	store rowStore
}

// NewRelational creates a relational repository.
func NewRelational(s rowStore) *Relational {
	return &Relational{store: s}
}

// Search runs the predicate. A non-empty committeePattern also requires a
// committee matching that raw LIKE pattern. A missing table reads as no
// results.
func (r *Relational) Search(
	ctx context.Context, p predicate.Predicate, dates filter.DateRange, committeePattern string, limit int,
) (result.Page, error) {
	page, err := r.store.Search(ctx, relational.Query{
		Predicate:        p,
		Dates:            dates,
		Limit:            limit,
		CommitteePattern: committeePattern,
	})
	if errors.Is(err, db.ErrTableNotFound) {
		return result.Page{Source: mode.Relational}, nil
	}
	if err != nil {
		return result.Page{}, fmt.Errorf("relational search: %w", err)
	}

	out := result.Page{Source: mode.Relational, Total: page.Total}
	if len(page.Rows) > 0 {
		out.Items = make([]result.Result, len(page.Rows))
		for i, row := range page.Rows {
			out.Items[i] = result.New(row.ID, 0, toTranscript(row), mode.Relational)
		}
	}
	return out, nil
}

// Each streams every stored transcript, batch at a time.
func (r *Relational) Each(ctx context.Context, batch int, fn func([]result.Result) error) error {
	err := r.store.Scan(ctx, batch, func(rows []relational.Row) error {
		items := make([]result.Result, len(rows))
		for i, row := range rows {
			items[i] = result.New(row.ID, 0, toTranscript(row), mode.Relational)
		}
		return fn(items)
	})
	if err != nil {
		return fmt.Errorf("relational scan: %w", err)
	}
	return nil
}

func toTranscript(row relational.Row) result.Transcript {
	t := result.Transcript{
		Title:       row.Title,
		Content:     row.Content,
		Speaker:     row.Speaker,
		MeetingName: row.MeetingName,
		Committees:  row.Committees,
	}
	if d, err := time.Parse(filter.DateLayout, row.Date); err == nil {
		t.Date = d
	}
	return t
}
