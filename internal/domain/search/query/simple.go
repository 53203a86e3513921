package query

import (
	"regexp"
	"strings"
)

// buckets holds the flat simple-mode classification of a query.
type buckets struct {
	general         []string
	phrases         []string
	fields          [numFields][]Term
	excludedTerms   []string
	excludedPhrases []string
	excludedFields  [numFields][]Term
}

func (b *buckets) add(t Term) {
	switch {
	case t.Type == TermField && t.Excluded:
		b.excludedFields[t.Field] = append(b.excludedFields[t.Field], t)
	case t.Type == TermField:
		b.fields[t.Field] = append(b.fields[t.Field], t)
	case t.Type == TermPhrase && t.Excluded:
		b.excludedPhrases = append(b.excludedPhrases, t.Value)
	case t.Type == TermPhrase:
		b.phrases = append(b.phrases, t.Value)
	case t.Excluded:
		b.excludedTerms = append(b.excludedTerms, t.Value)
	default:
		b.general = append(b.general, t.Value)
	}
}

func (b *buckets) empty() bool {
	if len(b.general)+len(b.phrases)+len(b.excludedTerms)+len(b.excludedPhrases) > 0 {
		return false
	}
	for i := range b.fields {
		if len(b.fields[i]) > 0 || len(b.excludedFields[i]) > 0 {
			return false
		}
	}
	return true
}

// fieldPhrases lists quoted field values, included and excluded.
func (b *buckets) fieldPhrases() []string {
	var out []string
	for i := range b.fields {
		for _, list := range [][]Term{b.fields[i], b.excludedFields[i]} {
			for _, t := range list {
				if t.Phrase {
					out = append(out, t.Value)
				}
			}
		}
	}
	return out
}

// extractSimple classifies every term token into flat buckets. Parentheses
// carry no meaning without operators and are skipped.
func extractSimple(toks []Token, original string) buckets {
	var b buckets
	for i := 0; i < len(toks); {
		term, next, ok := classifyAt(toks, i)
		if ok {
			b.add(term)
		}
		i = next
	}

	spans := quotedSpans(original, b.phrases, b.excludedPhrases, b.fieldPhrases())
	if len(spans) > 0 {
		b.general, b.phrases = promotePhrases(b.general, b.phrases, spans)
		b.excludedTerms, b.excludedPhrases = promotePhrases(b.excludedTerms, b.excludedPhrases, spans)
	}
	return b
}

var quotedSpanRe = regexp.MustCompile(`"([^"]+)"|'([^']+)'|“([^”]+)”|「([^」]+)」|『([^』]+)』`)

// quotedSpans scans the original query for quote-delimited content that the
// token stream no longer reports as a phrase. This happens when a
// preprocessor strips quotes before tokenizing.
func quotedSpans(original string, known ...[]string) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, list := range known {
		for _, p := range list {
			seen[collapseSpaces(p)] = struct{}{}
		}
	}

	spans := make(map[string]struct{})
	for _, m := range quotedSpanRe.FindAllStringSubmatch(original, -1) {
		for _, g := range m[1:] {
			if g == "" {
				continue
			}
			g = collapseSpaces(g)
			if _, dup := seen[g]; !dup && g != "" {
				spans[g] = struct{}{}
			}
		}
	}
	return spans
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// promotePhrases moves general terms that reproduce a quoted span into the
// phrase list. A run of consecutive terms whose space-join equals a span
// collapses into one phrase; the longest run wins.
func promotePhrases(terms, phrases []string, spans map[string]struct{}) (kept, promoted []string) {
	promoted = phrases
	for i := 0; i < len(terms); {
		j := longestSpanRun(terms, i, spans)
		if j == i {
			kept = append(kept, terms[i])
			i++
			continue
		}
		promoted = append(promoted, strings.Join(terms[i:j], " "))
		i = j
	}
	return kept, promoted
}

// longestSpanRun returns the largest j > i such that terms[i:j] joins to a
// span, or i when none does.
func longestSpanRun(terms []string, i int, spans map[string]struct{}) int {
	best := i
	var sb strings.Builder
	for j := i; j < len(terms); j++ {
		if j > i {
			sb.WriteByte(' ')
		}
		sb.WriteString(terms[j])
		if _, ok := spans[sb.String()]; ok {
			best = j + 1
		}
	}
	return best
}
