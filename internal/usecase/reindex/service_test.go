package reindex

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
	"github.com/kailas-cloud/transcripts/internal/domain/search/result"
)

// --- Mocks ---

type mockSource struct {
	batches   [][]result.Result
	lastBatch int
}

func (m *mockSource) Each(_ context.Context, batch int, fn func([]result.Result) error) error {
	m.lastBatch = batch
	for _, b := range m.batches {
		if err := fn(b); err != nil {
			return err
		}
	}
	return nil
}

type mockSink struct {
	puts  int
	items int
	errAt int
	err   error
}

func (m *mockSink) Put(_ context.Context, items []result.Result) error {
	m.puts++
	if m.err != nil && m.puts == m.errAt {
		return m.err
	}
	m.items += len(items)
	return nil
}

func items(ids ...string) []result.Result {
	out := make([]result.Result, len(ids))
	for i, id := range ids {
		out[i] = result.New(id, 0, result.Transcript{}, mode.Relational)
	}
	return out
}

// --- Tests ---

func TestRun_CopiesAllBatches(t *testing.T) {
	src := &mockSource{batches: [][]result.Result{items("1", "2"), items("3")}}
	dst := &mockSink{}

	n, err := New(src, dst).WithBatchSize(2).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 || dst.items != 3 || dst.puts != 2 {
		t.Errorf("expected 3 items in 2 puts, got n=%d items=%d puts=%d", n, dst.items, dst.puts)
	}
	if src.lastBatch != 2 {
		t.Errorf("expected batch size 2, got %d", src.lastBatch)
	}
}

func TestRun_DefaultBatchSize(t *testing.T) {
	src := &mockSource{}
	if _, err := New(src, &mockSink{}).WithBatchSize(0).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.lastBatch != DefaultBatchSize {
		t.Errorf("expected default batch size, got %d", src.lastBatch)
	}
}

func TestRun_StopsOnSinkError(t *testing.T) {
	boom := errors.New("index full")
	src := &mockSource{batches: [][]result.Result{items("1"), items("2"), items("3")}}
	dst := &mockSink{err: boom, errAt: 2}

	n, err := New(src, dst).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if n != 1 || dst.puts != 2 {
		t.Errorf("expected to stop after second put, got n=%d puts=%d", n, dst.puts)
	}
}
