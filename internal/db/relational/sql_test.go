package relational

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
	"github.com/kailas-cloud/transcripts/internal/domain/search/predicate"
)

func titleAndNotCommittee(b predicate.Backend) predicate.Predicate {
	return predicate.And(
		predicate.Contains(predicate.ColumnTitle, "预算", b),
		predicate.Not(predicate.Contains(predicate.ColumnCommittees, "财经", b)),
	)
}

func TestRender_PerDialect(t *testing.T) {
	tests := []struct {
		backend predicate.Backend
		want    string
		args    []any
	}{
		{
			predicate.Postgres,
			`COALESCE(title, '') ILIKE $1 ESCAPE '!' AND NOT (COALESCE($2 = ANY(committees), false))`,
			[]any{"%预算%", "财经"},
		},
		{
			predicate.MySQL,
			`LOWER(COALESCE(title, '')) LIKE LOWER(?) ESCAPE '!' AND NOT (COALESCE(JSON_CONTAINS(committees, JSON_QUOTE(?)), 0) = 1)`,
			[]any{"%预算%", "财经"},
		},
		{
			predicate.SQLite,
			`instr(COALESCE(title, ''), ?) > 0 AND NOT (instr(COALESCE(committees, ''), ?) > 0)`,
			[]any{"预算", "财经"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.backend.String(), func(t *testing.T) {
			d := DialectFor(tc.backend, ",")
			b := NewBuilder(d.Placeholder())
			got := Render(d, b, titleAndNotCommittee(tc.backend))
			if got != tc.want {
				t.Errorf("Render =\n  %s\nwant\n  %s", got, tc.want)
			}
			if !reflect.DeepEqual(b.Args(), tc.args) {
				t.Errorf("args = %v, want %v", b.Args(), tc.args)
			}
		})
	}
}

func TestRender_NestedOrIsParenthesized(t *testing.T) {
	d := DialectFor(predicate.SQLite, ",")
	p := predicate.And(
		predicate.Or(
			predicate.Contains(predicate.ColumnTitle, "a", predicate.SQLite),
			predicate.Contains(predicate.ColumnContent, "b", predicate.SQLite),
		),
		predicate.Contains(predicate.ColumnSpeaker, "c", predicate.SQLite),
	)
	got := Render(d, NewBuilder(d.Placeholder()), p)
	want := `(instr(COALESCE(title, ''), ?) > 0 OR instr(COALESCE(content, ''), ?) > 0) AND instr(COALESCE(speaker, ''), ?) > 0`
	if got != want {
		t.Errorf("Render = %s", got)
	}
}

func TestRender_EmptyNodes(t *testing.T) {
	d := DialectFor(predicate.Postgres, "")
	b := NewBuilder(d.Placeholder())

	if got := Render(d, b, predicate.Empty()); got != "1=1" {
		t.Errorf("empty AND = %q", got)
	}
	if got := Render(d, b, predicate.Predicate{Kind: predicate.KindOr}); got != "1=0" {
		t.Errorf("empty OR = %q", got)
	}
	if b.Len() != 0 {
		t.Errorf("args = %v, want none", b.Args())
	}
}

func TestRender_PatternLeaf(t *testing.T) {
	leaf := predicate.NewLeaf(predicate.Leaf{
		Column:   predicate.ColumnCommittees,
		Value:    "%福利%",
		Operator: predicate.Pattern,
	})
	tests := []struct {
		backend predicate.Backend
		want    string
	}{
		{predicate.Postgres, `EXISTS (SELECT 1 FROM unnest(committees) AS c WHERE c ILIKE $1)`},
		{predicate.MySQL, `JSON_SEARCH(committees, 'one', ?) IS NOT NULL`},
		{predicate.SQLite, `COALESCE(committees, '') LIKE ?`},
	}
	for _, tc := range tests {
		d := DialectFor(tc.backend, ",")
		b := NewBuilder(d.Placeholder())
		if got := Render(d, b, leaf); got != tc.want {
			t.Errorf("%s: Render = %s", tc.backend, got)
		}
		if b.Args()[0] != "%福利%" {
			t.Errorf("%s: pattern must be bound verbatim, got %v", tc.backend, b.Args())
		}
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike("50%_off!"); got != "50!%!_off!!" {
		t.Errorf("escapeLike = %q", got)
	}
	if got := containsPattern("a_b"); got != "%a!_b%" {
		t.Errorf("containsPattern = %q", got)
	}
}

func TestWhere_TopLevelOrWithDates(t *testing.T) {
	d := DialectFor(predicate.Postgres, "")
	b := NewBuilder(d.Placeholder())
	dates, _ := filter.NewDateRange("2024-01-01", "2024-12-31")
	p := predicate.Or(
		predicate.Contains(predicate.ColumnTitle, "a", predicate.Postgres),
		predicate.Contains(predicate.ColumnTitle, "b", predicate.Postgres),
	)

	got := Where(d, b, p, dates)
	want := `(COALESCE(title, '') ILIKE $1 ESCAPE '!' OR COALESCE(title, '') ILIKE $2 ESCAPE '!')` +
		` AND date >= $3::date AND date <= $4::date`
	if got != want {
		t.Errorf("Where =\n  %s\nwant\n  %s", got, want)
	}
	if args := b.Args(); args[2] != "2024-01-01" || args[3] != "2024-12-31" {
		t.Errorf("date args = %v", args)
	}
}

func TestWhere_Empty(t *testing.T) {
	d := DialectFor(predicate.MySQL, "")
	if got := Where(d, NewBuilder(d.Placeholder()), predicate.Empty(), filter.DateRange{}); got != "1=1" {
		t.Errorf("Where = %q", got)
	}
}

func TestBuildSearch_Placeholders(t *testing.T) {
	d := DialectFor(predicate.Postgres, "")
	dates, _ := filter.NewDateRange("2024-01-01", "")
	page, count := BuildSearch(d, "transcripts", Query{
		Predicate: predicate.Contains(predicate.ColumnTitle, "预算", predicate.Postgres),
		Dates:     dates,
		Offset:    20,
		Limit:     10,
	})

	if !strings.HasSuffix(page.SQL, "ORDER BY date DESC, id DESC LIMIT $3 OFFSET $4") {
		t.Errorf("page SQL = %s", page.SQL)
	}
	if !strings.Contains(page.SQL, "to_char(date, 'YYYY-MM-DD')") {
		t.Errorf("page SQL must project date as text: %s", page.SQL)
	}
	if !reflect.DeepEqual(page.Args, []any{"%预算%", "2024-01-01", 10, 20}) {
		t.Errorf("page args = %v", page.Args)
	}

	wantCount := `SELECT COUNT(*) FROM transcripts WHERE COALESCE(title, '') ILIKE $1 ESCAPE '!' AND date >= $2::date`
	if count.SQL != wantCount {
		t.Errorf("count SQL = %s", count.SQL)
	}
	if len(count.Args) != 2 {
		t.Errorf("count args = %v", count.Args)
	}
}

func TestDecodeCommittees(t *testing.T) {
	pg := DialectFor(predicate.Postgres, "")
	got, err := pg.DecodeCommittees(`["财经委员会","教育委员会"]`)
	if err != nil || !reflect.DeepEqual(got, []string{"财经委员会", "教育委员会"}) {
		t.Errorf("postgres decode = %v, %v", got, err)
	}
	if _, err := pg.DecodeCommittees(`{a,b}`); err == nil {
		t.Error("expected error for non-JSON list")
	}

	lite := DialectFor(predicate.SQLite, ";")
	got, _ = lite.DecodeCommittees("财经委员会; 教育委员会")
	if !reflect.DeepEqual(got, []string{"财经委员会", "教育委员会"}) {
		t.Errorf("sqlite decode = %v", got)
	}
	if got, _ := lite.DecodeCommittees(""); got != nil {
		t.Errorf("empty decode = %v", got)
	}
}

func TestNew_RejectsBadTable(t *testing.T) {
	if _, err := New(nil, predicate.SQLite, "transcripts; DROP", ","); err == nil {
		t.Fatal("expected error for invalid table name")
	}
	e, err := New(nil, predicate.SQLite, "", ",")
	if err != nil || e.Table() != DefaultTable {
		t.Fatalf("New = (%v, %v)", e, err)
	}
}

func TestOpen_Validation(t *testing.T) {
	if _, err := Open(Config{Backend: predicate.SQLite}); err == nil {
		t.Error("expected error for empty dsn")
	}
	if _, err := Open(Config{Backend: predicate.SQLite, Driver: "bolt", DSN: "x.db"}); err == nil {
		t.Error("expected error for unknown sqlite driver")
	}
	if _, err := Open(Config{Backend: predicate.Postgres, DSN: "postgres://%zz"}); err == nil {
		t.Error("expected error for malformed postgres dsn")
	}
}

func TestBuildSearch_CommitteePattern(t *testing.T) {
	tests := []struct {
		backend predicate.Backend
		where   string
		tail    string
	}{
		{
			predicate.Postgres,
			`COALESCE(title, '') ILIKE $1 ESCAPE '!' AND EXISTS (SELECT 1 FROM unnest(committees) AS c WHERE c ILIKE $2)`,
			` LIMIT $3 OFFSET $4`,
		},
		{
			predicate.MySQL,
			`LOWER(COALESCE(title, '')) LIKE LOWER(?) ESCAPE '!' AND JSON_SEARCH(committees, 'one', ?) IS NOT NULL`,
			` LIMIT ? OFFSET ?`,
		},
		{
			predicate.SQLite,
			`instr(COALESCE(title, ''), ?) > 0 AND COALESCE(committees, '') LIKE ?`,
			` LIMIT ? OFFSET ?`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.backend.String(), func(t *testing.T) {
			page, count := BuildSearch(DialectFor(tc.backend, ","), DefaultTable, Query{
				Predicate:        predicate.Contains(predicate.ColumnTitle, "预算", tc.backend),
				Limit:            10,
				CommitteePattern: "%社会福利%",
			})

			wantPage := " WHERE " + tc.where + " ORDER BY date DESC, id DESC" + tc.tail
			if !strings.HasSuffix(page.SQL, wantPage) {
				t.Errorf("page SQL =\n  %s\nwant suffix\n  %s", page.SQL, wantPage)
			}
			if want := "SELECT COUNT(*) FROM transcripts WHERE " + tc.where; count.SQL != want {
				t.Errorf("count SQL =\n  %s\nwant\n  %s", count.SQL, want)
			}
			if len(page.Args) != 4 || page.Args[1] != "%社会福利%" {
				t.Errorf("page args = %v", page.Args)
			}
			if len(count.Args) != 2 || count.Args[1] != "%社会福利%" {
				t.Errorf("count args = %v", count.Args)
			}
		})
	}
}

func TestQueryFilter(t *testing.T) {
	if got := (Query{}).Filter(); !got.IsEmpty() {
		t.Errorf("Filter() = %s, want empty", got)
	}

	q := Query{
		Predicate: predicate.Or(
			predicate.Contains(predicate.ColumnTitle, "a", predicate.SQLite),
			predicate.Contains(predicate.ColumnTitle, "b", predicate.SQLite),
		),
		CommitteePattern: "%福利%",
	}
	want := `AND(OR(contains(title,"a"),contains(title,"b")),pattern(committees,"%福利%"))`
	if got := q.Filter().String(); got != want {
		t.Errorf("Filter() = %s, want %s", got, want)
	}
}
