package query

import (
	"strconv"
	"strings"
)

// DebugString returns a deterministic, human-readable form of the query for
// logs, the explain endpoint and tests.
//
// Explicit queries print as AND[a b] OR[c -d]; simple queries print their
// non-empty buckets in a fixed order.
func (q ParsedQuery) DebugString() string {
	var b strings.Builder
	if q.explicit {
		for i, g := range q.groups {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(g.Operator.String())
			b.WriteByte('[')
			for j, t := range g.Terms {
				if j > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t.String())
			}
			b.WriteByte(']')
		}
		return b.String()
	}

	section := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(label)
		b.WriteByte('=')
		b.WriteByte('[')
		for i, v := range values {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Quote(v))
		}
		b.WriteByte(']')
	}
	section("general", q.buckets.general)
	section("phrases", q.buckets.phrases)
	for _, f := range AllFields() {
		section(f.String(), termValues(q.buckets.fields[f]))
	}
	section("excluded", q.buckets.excludedTerms)
	section("excluded_phrases", q.buckets.excludedPhrases)
	for _, f := range AllFields() {
		section("excluded_"+f.String(), termValues(q.buckets.excludedFields[f]))
	}
	return b.String()
}
