package search

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
	"github.com/kailas-cloud/transcripts/internal/domain/search/query"
	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
)

func TestEngineSearch_HappyPath(t *testing.T) {
	repo, ms := newTestEngine(t)
	c := clause.Compile(query.Parse("预算"))

	ms.searchFn = func(_ context.Context, q *db.EngineQuery) (*db.SearchResult, error) {
		if q.Index != "transcripts" {
			t.Errorf("unexpected index: %s", q.Index)
		}
		if q.Limit != 20 {
			t.Errorf("unexpected limit: %d", q.Limit)
		}
		if !reflect.DeepEqual(q.ReturnFields, db.TranscriptFields()) {
			t.Errorf("unexpected return fields: %v", q.ReturnFields)
		}
		return &db.SearchResult{
			Total: 7,
			Entries: []db.SearchEntry{{
				Key:   "42",
				Score: 1.5,
				Fields: map[string]string{
					"title":        "预算审查",
					"content":      "讨论教育经费",
					"speaker":      "张三",
					"meeting_name": "第一次会议",
					"committees":   "财经委员会,教育委员会",
					"date":         "19783",
					"__extra":      "ignored",
				},
			}},
		}, nil
	}

	page, err := repo.Search(context.Background(), c, filter.DateRange{}, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 7 || len(page.Items) != 1 || page.Source != mode.Engine {
		t.Fatalf("unexpected page: %+v", page)
	}
	got := page.Items[0]
	if got.ID() != "42" || got.Score() != 1.5 || got.Source() != mode.Engine {
		t.Errorf("unexpected result: id=%s score=%f", got.ID(), got.Score())
	}
	if got.Title() != "预算审查" || got.Speaker() != "张三" || got.MeetingName() != "第一次会议" {
		t.Errorf("unexpected transcript: %+v", got.Transcript())
	}
	if !reflect.DeepEqual(got.Committees(), []string{"财经委员会", "教育委员会"}) {
		t.Errorf("unexpected committees: %v", got.Committees())
	}
	if want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC); !got.Date().Equal(want) {
		t.Errorf("expected date %v, got %v", want, got.Date())
	}
}

func TestEngineSearch_Empty(t *testing.T) {
	repo, _ := newTestEngine(t)
	page, err := repo.Search(context.Background(), clause.All(), filter.DateRange{}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 0 || page.Items != nil || page.Source != mode.Engine {
		t.Errorf("unexpected page: %+v", page)
	}
}

func TestEngineSearch_ErrorWrapped(t *testing.T) {
	repo, ms := newTestEngine(t)
	ms.searchFn = func(context.Context, *db.EngineQuery) (*db.SearchResult, error) {
		return nil, db.ErrIndexNotFound
	}
	_, err := repo.Search(context.Background(), clause.All(), filter.DateRange{}, 5)
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestEngineSearch_BadDateIgnored(t *testing.T) {
	repo, ms := newTestEngine(t)
	ms.searchFn = func(context.Context, *db.EngineQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{{Key: "1", Fields: map[string]string{"date": "soon"}}}}, nil
	}
	page, _ := repo.Search(context.Background(), clause.All(), filter.DateRange{}, 5)
	if !page.Items[0].Date().IsZero() {
		t.Errorf("expected zero date, got %v", page.Items[0].Date())
	}
}

func TestEnginePut(t *testing.T) {
	repo, ms := newTestEngine(t)
	var got []db.Document
	ms.putDocumentsFn = func(_ context.Context, index string, docs []db.Document) error {
		if index != "transcripts" {
			t.Errorf("unexpected index: %s", index)
		}
		got = docs
		return nil
	}

	items := []result.Result{
		result.New("1", 0, result.Transcript{
			Title:      "预算",
			Committees: []string{"财经委员会", "教育委员会"},
			Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}, mode.Relational),
		result.New("2", 0, result.Transcript{Title: "无日期"}, mode.Relational),
	}
	if err := repo.Put(context.Background(), items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(got))
	}
	if got[0].ID != "1" || got[0].Fields["committees"] != "财经委员会,教育委员会" || got[0].Fields["date"] != "19783" {
		t.Errorf("unexpected first document: %+v", got[0])
	}
	if _, ok := got[1].Fields["date"]; ok {
		t.Errorf("expected no date field for undated transcript, got %+v", got[1].Fields)
	}
}

func TestEnginePut_Empty(t *testing.T) {
	repo, ms := newTestEngine(t)
	ms.putDocumentsFn = func(context.Context, string, []db.Document) error {
		t.Error("store must not be called for an empty batch")
		return nil
	}
	if err := repo.Put(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
