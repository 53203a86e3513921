package result

import (
	"time"

	"github.com/kailas-cloud/transcripts/internal/domain/search/mode"
)

// Transcript is the stored content of a transcript segment.
type Transcript struct {
	Title       string
	Speaker     string
	MeetingName string
	Committees  []string
	Date        time.Time
	Content     string
}

// Result is a single search hit.
type Result struct {
	id         string
	score      float64
	transcript Transcript
	excerpt    string
	source     mode.Mode
}

// New creates a search result.
func New(id string, score float64, t Transcript, src mode.Mode) Result {
	return Result{id: id, score: score, transcript: t, source: src}
}

// WithExcerpt returns a copy of r carrying the highlighted excerpt.
func (r Result) WithExcerpt(excerpt string) Result {
	r.excerpt = excerpt
	return r
}

// ID returns the transcript identifier.
func (r *Result) ID() string { return r.id }

// Score returns the relevance score. Relational hits score zero.
func (r *Result) Score() float64 { return r.score }

// Transcript returns the stored transcript fields.
func (r *Result) Transcript() Transcript { return r.transcript }

// Title returns the transcript title.
func (r *Result) Title() string { return r.transcript.Title }

// Speaker returns the speaker name.
func (r *Result) Speaker() string { return r.transcript.Speaker }

// MeetingName returns the meeting name.
func (r *Result) MeetingName() string { return r.transcript.MeetingName }

// Committees returns the committee labels.
func (r *Result) Committees() []string { return r.transcript.Committees }

// Date returns the meeting date.
func (r *Result) Date() time.Time { return r.transcript.Date }

// Content returns the transcript text.
func (r *Result) Content() string { return r.transcript.Content }

// Excerpt returns the highlighted excerpt, empty until set.
func (r *Result) Excerpt() string { return r.excerpt }

// Source reports which store produced the hit.
func (r *Result) Source() mode.Mode { return r.source }

// Page is one page of hits plus the total match count.
type Page struct {
	Items  []Result
	Total  int
	Source mode.Mode
}
