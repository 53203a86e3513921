package db

import "strings"

// Transcript document fields, shared by engine indexes and relational rows.
const (
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldSpeaker    = "speaker"
	FieldMeeting    = "meeting_name"
	FieldCommittees = "committees"
	FieldDate       = "date"
)

// ListSeparator joins multi-valued fields inside a SearchEntry.
const ListSeparator = ","

// TranscriptPrefix is the key prefix of transcript hashes.
const TranscriptPrefix = "transcript:"

// TranscriptFields lists every stored field, in return order.
func TranscriptFields() []string {
	return []string{FieldTitle, FieldContent, FieldSpeaker, FieldMeeting, FieldCommittees, FieldDate}
}

// TranscriptIndex builds the transcript index. Date is stored as unix days.
func TranscriptIndex(name string) (*IndexDefinition, error) {
	return NewIndex(name).
		Prefix(TranscriptPrefix).
		Language("chinese").
		Text(FieldTitle).
		Text(FieldContent).
		Text(FieldSpeaker).
		Text(FieldMeeting).
		Text(FieldCommittees).
		SortableNumeric(FieldDate).
		Build()
}

// SplitList splits a joined multi-valued field, dropping blanks.
func SplitList(s, sep string) []string {
	if sep == "" {
		sep = ListSeparator
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
