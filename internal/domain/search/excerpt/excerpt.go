// Package excerpt cuts a short highlighted window out of transcript text
// around the first occurrence of any matched term.
package excerpt

import (
	"html"
	"sort"
	"strings"
)

// Defaults used when Options leaves a value unset.
const (
	DefaultWidth   = 160
	DefaultPreTag  = "<mark>"
	DefaultPostTag = "</mark>"
	ellipsis       = "…"
)

// Options controls the excerpt window and highlight markup.
type Options struct {
	// Width is the window size in runes, tags excluded.
	Width   int
	PreTag  string
	PostTag string
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.PreTag == "" && o.PostTag == "" {
		o.PreTag, o.PostTag = DefaultPreTag, DefaultPostTag
	}
	return o
}

type match struct{ start, end int } // rune offsets

// Build returns an HTML-escaped excerpt of text with every occurrence of
// terms wrapped in the highlight tags. Matching is case-insensitive. Without
// any match, the excerpt is the head of text.
func Build(text string, terms []string, opts Options) string {
	opts = opts.withDefaults()
	if text == "" {
		return ""
	}

	runes := []rune(text)
	folded := []rune(strings.ToLower(text))
	if len(folded) != len(runes) {
		// lowering changed rune count; fall back to exact matching
		folded = runes
	}
	matches := findMatches(folded, terms)

	start, end := window(len(runes), matches, opts.Width)

	var b strings.Builder
	if start > 0 {
		b.WriteString(ellipsis)
	}
	pos := start
	for _, m := range matches {
		if m.end <= start || m.start >= end {
			continue
		}
		ms, me := max(m.start, pos), min(m.end, end)
		if ms >= me {
			continue
		}
		b.WriteString(html.EscapeString(string(runes[pos:ms])))
		b.WriteString(opts.PreTag)
		b.WriteString(html.EscapeString(string(runes[ms:me])))
		b.WriteString(opts.PostTag)
		pos = me
	}
	b.WriteString(html.EscapeString(string(runes[pos:end])))
	if end < len(runes) {
		b.WriteString(ellipsis)
	}
	return b.String()
}

// findMatches returns non-overlapping matches sorted by start. Longer terms
// win where two terms overlap at the same position.
func findMatches(text []rune, terms []string) []match {
	var all []match
	for _, t := range terms {
		needle := []rune(strings.ToLower(strings.TrimSpace(t)))
		if len(needle) == 0 {
			continue
		}
		for i := 0; i+len(needle) <= len(text); {
			if runesEqual(text[i:i+len(needle)], needle) {
				all = append(all, match{i, i + len(needle)})
				i += len(needle)
				continue
			}
			i++
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		return all[i].end > all[j].end
	})

	out := all[:0]
	last := -1
	for _, m := range all {
		if m.start < last {
			continue
		}
		out = append(out, m)
		last = m.end
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// window centers a width-rune window on the first match, clamped to text.
func window(n int, matches []match, width int) (int, int) {
	if n <= width {
		return 0, n
	}
	if len(matches) == 0 {
		return 0, width
	}
	first := matches[0]
	start := first.start - (width-(first.end-first.start))/2
	start = max(start, 0)
	end := start + width
	if end > n {
		end = n
		start = max(n-width, 0)
	}
	return start, end
}
