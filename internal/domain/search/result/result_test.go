package result

import (
	"testing"
	"time"

	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
)

func TestNew(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	r := New("t-1", 1.5, Transcript{
		Title:       "第三次会议",
		Speaker:     "王委员",
		MeetingName: "预算会议",
		Committees:  []string{"财经委员会"},
		Date:        date,
		Content:     "讨论预算",
	}, mode.Engine)

	if r.ID() != "t-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Score() != 1.5 {
		t.Errorf("Score() = %f", r.Score())
	}
	if r.Title() != "第三次会议" || r.Speaker() != "王委员" || r.MeetingName() != "预算会议" {
		t.Errorf("fields = %q %q %q", r.Title(), r.Speaker(), r.MeetingName())
	}
	if len(r.Committees()) != 1 || r.Committees()[0] != "财经委员会" {
		t.Errorf("Committees() = %v", r.Committees())
	}
	if !r.Date().Equal(date) {
		t.Errorf("Date() = %v", r.Date())
	}
	if r.Content() != "讨论预算" {
		t.Errorf("Content() = %q", r.Content())
	}
	if r.Source() != mode.Engine {
		t.Errorf("Source() = %q", r.Source())
	}
	if r.Excerpt() != "" {
		t.Errorf("Excerpt() = %q, want empty", r.Excerpt())
	}
}

func TestWithExcerpt_Copies(t *testing.T) {
	r := New("t-1", 0, Transcript{Content: "x"}, mode.Relational)
	withEx := r.WithExcerpt("<mark>x</mark>")

	if withEx.Excerpt() != "<mark>x</mark>" {
		t.Errorf("Excerpt() = %q", withEx.Excerpt())
	}
	if r.Excerpt() != "" {
		t.Error("WithExcerpt mutated the receiver")
	}
}
