package redis

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/query"
)

const allFields = "@title|content|speaker|meeting_name|committees"

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	err := s.Ping(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Index Already Exists", "index already exists", true},
		{"UNKNOWN INDEX NAME", "unknown index name", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- documents.go tests ---

func TestPutDocuments_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(2)),
			mock.Result(mock.RedisInt64(2)),
		})

	s := NewStoreForTest(c)
	err := s.PutDocuments(context.Background(), "transcripts", []db.Document{
		{ID: "1", Fields: map[string]string{"title": "预算"}},
		{ID: "2", Fields: map[string]string{"title": "教育"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPutDocuments_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.ErrorResult(context.DeadlineExceeded)})

	s := NewStoreForTest(c)
	err := s.PutDocuments(context.Background(), "transcripts", []db.Document{
		{ID: "1", Fields: map[string]string{"title": "预算"}},
	})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
}

func TestPutDocuments_EmptyAndMissingID(t *testing.T) {
	s := NewStoreForTest(nil) // client not called
	if err := s.PutDocuments(context.Background(), "idx", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.PutDocuments(context.Background(), "idx", []db.Document{{}}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

// --- index.go tests ---

func TestCreateIndex_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE" && cmd[1] == "transcripts" &&
				slices.Contains(cmd, "LANGUAGE") && slices.Contains(cmd, "SORTABLE")
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	idx, err := db.TranscriptIndex("transcripts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.CreateIndex(context.Background(), idx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "test:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldText}},
	}
	err := s.CreateIndex(context.Background(), idx)
	if !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestCreateIndex_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	idx := &db.IndexDefinition{
		Name:   "test:idx",
		Fields: []db.IndexField{{Name: "f", Type: db.IndexFieldText}},
	}
	if err := s.CreateIndex(context.Background(), idx); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestEnsureIndex_ExistingIsNotAnError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	idx, _ := db.TranscriptIndex("transcripts")
	created, err := db.EnsureIndex(context.Background(), s, idx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("created = true for existing index")
	}
}

func TestDropIndex_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "test:idx")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c)
	err := s.DropIndex(context.Background(), "test:idx")
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestIndexExists(t *testing.T) {
	tests := []struct {
		name  string
		reply rueidis.RedisResult
		want  bool
	}{
		{"present", mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("test:idx"))), true},
		{"absent", mock.Result(mock.RedisError("Unknown Index name")), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			c := mock.NewClient(ctrl)
			c.EXPECT().
				Do(gomock.Any(), mock.Match("FT.INFO", "test:idx")).
				Return(tc.reply)

			exists, err := NewStoreForTest(c).IndexExists(context.Background(), "test:idx")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exists != tc.want {
				t.Errorf("exists = %v, want %v", exists, tc.want)
			}
		})
	}
}

func TestBuildCreateArgs(t *testing.T) {
	idx, _ := db.TranscriptIndex("transcripts")
	args, err := buildCreateArgs(idx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"transcripts", "ON", "HASH", "PREFIX", "1", "transcript:", "LANGUAGE", "chinese", "SCHEMA",
		"title", "TEXT", "content", "TEXT", "speaker", "TEXT", "meeting_name", "TEXT", "committees", "TEXT",
		"date", "NUMERIC", "SORTABLE",
	}
	if !slices.Equal(args, want) {
		t.Errorf("args = %v\nwant  %v", args, want)
	}

	if _, err := buildCreateArgs(&db.IndexDefinition{Name: "test"}); err == nil {
		t.Error("expected error for empty fields")
	}
}

func TestBuildFieldArgs(t *testing.T) {
	tests := []struct {
		name  string
		field db.IndexField
		want  []string
	}{
		{"text", db.IndexField{Name: "f", Type: db.IndexFieldText}, []string{"f", "TEXT"}},
		{"sortable", db.IndexField{Name: "d", Type: db.IndexFieldNumeric, Sortable: true}, []string{"d", "NUMERIC", "SORTABLE"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args, err := buildFieldArgs(&tc.field)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(args, tc.want) {
				t.Errorf("args = %v, want %v", args, tc.want)
			}
		})
	}

	if _, err := buildFieldArgs(&db.IndexField{Name: "f", Type: db.IndexFieldType(99)}); err == nil {
		t.Error("expected error for unknown type")
	}
}

// --- search.go tests ---

func TestSearch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	wantQuery := allFields + ":(预算) " + allFields + ":(教育)"
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == "transcripts" && cmd[2] == wantQuery &&
				slices.Contains(cmd, "WITHSCORES") && cmd[len(cmd)-1] == "2"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("transcript:42"),
			mock.RedisString("1.75"),
			mock.RedisArray(
				mock.RedisString("title"),
				mock.RedisString("预算与教育"),
			),
		)))

	s := NewStoreForTest(c)
	result, err := s.Search(context.Background(), &db.EngineQuery{
		Index:        "transcripts",
		Clause:       clause.Compile(query.Parse("预算 AND 教育")),
		Limit:        10,
		ReturnFields: db.TranscriptFields(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || len(result.Entries) != 1 {
		t.Fatalf("result = %+v", result)
	}
	e := result.Entries[0]
	if e.Key != "42" {
		t.Errorf("Key = %q, want prefix trimmed", e.Key)
	}
	if e.Score != 1.75 {
		t.Errorf("Score = %f", e.Score)
	}
	if e.Fields["title"] != "预算与教育" {
		t.Errorf("Fields = %v", e.Fields)
	}
}

func TestSearch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[2] == "*"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	result, err := s.Search(context.Background(), &db.EngineQuery{Index: "idx", Clause: clause.All(), Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 || len(result.Entries) != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestSearch_IndexMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("idx: no such index")))

	_, err := NewStoreForTest(c).Search(context.Background(), &db.EngineQuery{Index: "idx", Clause: clause.All(), Limit: 5})
	if !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	_, err := NewStoreForTest(c).Search(context.Background(), &db.EngineQuery{Index: "idx", Clause: clause.All(), Limit: 5})
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped deadline, got %v", err)
	}
}

func TestSearch_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	if _, err := s.Search(ctx, &db.EngineQuery{Limit: 10}); err == nil {
		t.Error("expected error for empty index name")
	}
	if _, err := s.Search(ctx, &db.EngineQuery{Index: "idx"}); err == nil {
		t.Error("expected error for limit=0")
	}
	if _, err := s.Search(ctx, &db.EngineQuery{Index: "idx", Limit: 1, Offset: -1}); err == nil {
		t.Error("expected error for negative offset")
	}
}

// --- query.go tests ---

func TestRenderQuery(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "*"},
		{"and group", "预算 AND 教育", allFields + ":(预算) " + allFields + ":(教育)"},
		{"or group with exclusion", "(预算 OR 教育) -协商",
			"(" + allFields + ":(预算) | " + allFields + ":(教育)) -" + allFields + ":(协商)"},
		{"field phrase", `title:"会议名称" speaker:王委员`, `@title:("会议名称") @speaker:(王委员)`},
		{"simple general words", "预算 教育", allFields + ":(预算 教育)"},
		{"multiple groups", "A OR B ( C",
			"(" + allFields + ":(A) | " + allFields + ":(B)) " + allFields + ":(C)"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderQuery(clause.Compile(query.Parse(tc.raw)), filter.DateRange{})
			if got != tc.want {
				t.Errorf("RenderQuery(%q)\n got  %s\n want %s", tc.raw, got, tc.want)
			}
		})
	}
}

func TestRenderQuery_DateFilter(t *testing.T) {
	both, _ := filter.NewDateRange("1970-01-02", "1970-01-03")
	from, _ := filter.NewDateRange("1970-01-11", "")

	if got := RenderQuery(clause.All(), both); got != "@date:[1 2]" {
		t.Errorf("match all + dates = %q", got)
	}
	got := RenderQuery(clause.Compile(query.Parse("speaker:王")), from)
	if want := "@speaker:(王) @date:[10 +inf]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderMatch_Escaping(t *testing.T) {
	m := clause.Match{Value: "foo@bar (x)", Fields: []string{"title"}, Mode: clause.BestFields, RequireAll: true}
	if got, want := renderMatch(m), `@title:(foo\@bar \(x\))`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	p := clause.Match{Value: `say "hi"`, Fields: []string{"content"}, Mode: clause.Phrase}
	if got, want := renderMatch(p), `@content:("say \"hi\"")`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	anyWord := clause.Match{Value: "a b", Fields: []string{"title"}}
	if got, want := renderMatch(anyWord), `@title:(a | b)`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderClause_OptionalShould(t *testing.T) {
	leaf := func(v string) clause.Clause {
		return clause.Leaf(clause.Match{Value: v, Fields: []string{"title"}, RequireAll: true})
	}
	c := clause.Clause{Must: []clause.Clause{leaf("a")}, Should: []clause.Clause{leaf("b"), leaf("c")}}
	if got, want := renderClause(c), "@title:(a) ~(@title:(b) | @title:(c))"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
