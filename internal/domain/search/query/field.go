package query

import "strings"

// Field is a searchable transcript attribute a term can be scoped to.
type Field int

// Supported field scopes. FieldNone marks an unscoped term.
const (
	FieldNone Field = iota
	FieldTitle
	FieldSpeaker
	FieldMeeting
	FieldCommittee
)

// numFields sizes per-field arrays; keep it last-plus-one.
const numFields = int(FieldCommittee) + 1

var fieldNames = [numFields]string{
	FieldNone:      "",
	FieldTitle:     "title",
	FieldSpeaker:   "speaker",
	FieldMeeting:   "meeting",
	FieldCommittee: "committee",
}

func (f Field) String() string {
	if f < 0 || int(f) >= numFields {
		return "unknown"
	}
	return fieldNames[f]
}

// IsValid reports whether f is a concrete field scope.
func (f Field) IsValid() bool {
	return f > FieldNone && int(f) < numFields
}

// ParseField maps a prefix name (case-insensitive) to a Field.
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(name) {
	case "title":
		return FieldTitle, true
	case "speaker":
		return FieldSpeaker, true
	case "meeting":
		return FieldMeeting, true
	case "committee":
		return FieldCommittee, true
	default:
		return FieldNone, false
	}
}

// AllFields returns every concrete field in declaration order.
func AllFields() []Field {
	return []Field{FieldTitle, FieldSpeaker, FieldMeeting, FieldCommittee}
}
