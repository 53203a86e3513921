package query

import "strings"

// ParsedQuery is the structured form of a raw search-box query. It is built
// once per request and never mutated; accessors return copies.
//
// When HasExplicitBooleans is true the query is described by Groups;
// otherwise by the flat term buckets.
type ParsedQuery struct {
	original          string
	explicit          bool
	groups            []BooleanGroup
	buckets           buckets
	hasAdvancedSyntax bool
	parseSuccess      bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithPreprocessor rewrites the raw query before tokenizing. The original
// string is still used for OriginalQuery and quoted-span detection.
func WithPreprocessor(fn func(string) string) Option {
	return func(p *Parser) { p.preprocess = fn }
}

// Parser turns raw queries into ParsedQuery values. It is stateless and safe
// for concurrent use.
type Parser struct {
	preprocess func(string) string
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, o := range opts {
		o(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse parses raw with the default parser.
func Parse(raw string) ParsedQuery { return defaultParser.Parse(raw) }

// Parse never fails. Irregular input is resolved best-effort; an unexpected
// panic while classifying yields a degraded query whose only general term is
// the whole raw string, with ParseSuccess false.
func (p *Parser) Parse(raw string) (pq ParsedQuery) {
	defer func() {
		if r := recover(); r != nil {
			pq = degraded(raw)
		}
	}()

	input := raw
	if p.preprocess != nil {
		input = p.preprocess(raw)
	}
	if strings.TrimSpace(input) == "" {
		return ParsedQuery{original: raw, parseSuccess: true}
	}

	toks := Tokenize(input)
	pq = ParsedQuery{original: raw, parseSuccess: true}

	if hasOperator(toks) {
		pq.explicit = true
		pq.groups = newGrouper(toks).groups()
		if len(pq.groups) == 0 {
			pq.groups = operatorWords(toks)
		}
		pq.hasAdvancedSyntax = true
		return pq
	}

	pq.buckets = extractSimple(toks, raw)
	pq.hasAdvancedSyntax = advancedSimple(toks, &pq.buckets)
	return pq
}

func degraded(raw string) ParsedQuery {
	pq := ParsedQuery{original: raw}
	if strings.TrimSpace(raw) != "" {
		pq.buckets.general = []string{raw}
	}
	return pq
}

// advancedSimple reports syntax beyond plain words: phrases, field scopes,
// exclusions or parentheses.
func advancedSimple(toks []Token, b *buckets) bool {
	for _, t := range toks {
		if t.Kind != TokTerm || t.Neg {
			return true
		}
	}
	return len(b.phrases) > 0 || len(b.excludedPhrases) > 0
}

// NewGrouped builds an explicit-boolean ParsedQuery from ready-made groups.
// Groups without terms are dropped.
func NewGrouped(original string, groups ...BooleanGroup) ParsedQuery {
	pq := ParsedQuery{original: original, explicit: true, hasAdvancedSyntax: true, parseSuccess: true}
	for _, g := range groups {
		if len(g.Terms) > 0 {
			pq.groups = append(pq.groups, g.clone())
		}
	}
	return pq
}

// OriginalQuery returns the raw query as received.
func (q ParsedQuery) OriginalQuery() string { return q.original }

// HasExplicitBooleans reports whether the query used free-standing AND/OR.
func (q ParsedQuery) HasExplicitBooleans() bool { return q.explicit }

// HasAdvancedSyntax reports use of operators, phrases, fields, exclusions or
// parentheses. It is informational only.
func (q ParsedQuery) HasAdvancedSyntax() bool { return q.hasAdvancedSyntax }

// ParseSuccess is false only for degraded queries.
func (q ParsedQuery) ParseSuccess() bool { return q.parseSuccess }

// Groups returns the boolean groups of an explicit query.
func (q ParsedQuery) Groups() []BooleanGroup {
	out := make([]BooleanGroup, len(q.groups))
	for i, g := range q.groups {
		out[i] = g.clone()
	}
	return out
}

// GeneralTerms returns included unscoped words.
func (q ParsedQuery) GeneralTerms() []string { return cloneStrings(q.buckets.general) }

// QuotedPhrases returns included unscoped phrases.
func (q ParsedQuery) QuotedPhrases() []string { return cloneStrings(q.buckets.phrases) }

// ExcludedTerms returns excluded unscoped words.
func (q ParsedQuery) ExcludedTerms() []string { return cloneStrings(q.buckets.excludedTerms) }

// ExcludedPhrases returns excluded unscoped phrases.
func (q ParsedQuery) ExcludedPhrases() []string { return cloneStrings(q.buckets.excludedPhrases) }

// FieldTerms returns included terms scoped to f.
func (q ParsedQuery) FieldTerms(f Field) []Term {
	if !f.IsValid() {
		return nil
	}
	return cloneTerms(q.buckets.fields[f])
}

// FieldValues returns the values of included terms scoped to f.
func (q ParsedQuery) FieldValues(f Field) []string {
	if !f.IsValid() {
		return nil
	}
	return termValues(q.buckets.fields[f])
}

// ExcludedFieldTerms returns excluded terms scoped to f.
func (q ParsedQuery) ExcludedFieldTerms(f Field) []Term {
	if !f.IsValid() {
		return nil
	}
	return cloneTerms(q.buckets.excludedFields[f])
}

// IsEmpty reports whether the query holds no terms at all.
func (q ParsedQuery) IsEmpty() bool {
	return len(q.groups) == 0 && q.buckets.empty()
}

// MatchTerms lists the included values worth highlighting, in query order
// and without duplicates.
func (q ParsedQuery) MatchTerms() []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)
	add := func(v string) {
		if _, ok := seen[v]; ok || v == "" {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	if q.explicit {
		for _, g := range q.groups {
			for _, t := range g.Included() {
				add(t.Value)
			}
		}
		return out
	}
	for _, v := range q.buckets.general {
		add(v)
	}
	for _, v := range q.buckets.phrases {
		add(v)
	}
	for _, f := range AllFields() {
		for _, t := range q.buckets.fields[f] {
			add(t.Value)
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneTerms(t []Term) []Term {
	if len(t) == 0 {
		return nil
	}
	out := make([]Term, len(t))
	copy(out, t)
	return out
}

func termValues(t []Term) []string {
	if len(t) == 0 {
		return nil
	}
	out := make([]string, len(t))
	for i := range t {
		out[i] = t[i].Value
	}
	return out
}
