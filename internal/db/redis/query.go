package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/transcripts/internal/db"
	"github.com/kailas-cloud/transcripts/internal/domain/search/clause"
	"github.com/kailas-cloud/transcripts/internal/domain/search/filter"
)

// RenderQuery renders the clause tree plus the date pre-filter into one
// FT.SEARCH query string (DIALECT 2).
func RenderQuery(c clause.Clause, dates filter.DateRange) string {
	q := renderClause(c)
	df := buildDateFilter(dates)
	switch {
	case df == "":
		return q
	case q == "*":
		return df
	default:
		return q + " " + df
	}
}

// renderClause renders c in RediSearch syntax. Intersection is a space,
// union is '|' inside parens, negation is a '-' prefix.
func renderClause(c clause.Clause) string {
	switch {
	case c.MatchAll:
		return "*"
	case c.Match != nil:
		return renderMatch(*c.Match)
	}
	parts := boolParts(c)
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func boolParts(c clause.Clause) []string {
	var parts []string
	for _, m := range c.Must {
		parts = append(parts, renderNested(m))
	}
	if len(c.Should) > 0 {
		alts := make([]string, len(c.Should))
		for i, sh := range c.Should {
			alts[i] = renderNested(sh)
		}
		group := "(" + strings.Join(alts, " | ") + ")"
		if c.MinimumShouldMatch == 0 && len(c.Must) > 0 {
			// optional, only affects scoring
			group = "~" + group
		}
		parts = append(parts, group)
	}
	for _, m := range c.MustNot {
		parts = append(parts, "-"+renderNested(m))
	}
	return parts
}

// renderNested renders a child node, parenthesized when it spans more than
// one part.
func renderNested(c clause.Clause) string {
	if !c.IsBool() {
		return renderClause(c)
	}
	parts := boolParts(c)
	switch len(parts) {
	case 0:
		return "*"
	case 1:
		return parts[0]
	default:
		return "(" + strings.Join(parts, " ") + ")"
	}
}

func renderMatch(m clause.Match) string {
	var body string
	if m.Mode == clause.Phrase {
		body = `"` + escapeQuery(strings.TrimSpace(m.Value)) + `"`
	} else {
		words := strings.Fields(m.Value)
		if len(words) == 0 {
			return "*"
		}
		for i, w := range words {
			words[i] = escapeQuery(w)
		}
		sep := " "
		if !m.RequireAll {
			sep = " | "
		}
		body = strings.Join(words, sep)
	}

	if len(m.Fields) == 0 {
		return "(" + body + ")"
	}
	return "@" + strings.Join(m.Fields, "|") + ":(" + body + ")"
}

// buildDateFilter renders an inclusive NUMERIC range over unix days.
func buildDateFilter(r filter.DateRange) string {
	if r.IsEmpty() {
		return ""
	}
	lo, loOK, hi, hiOK := r.UnixDays()

	minBound := "-inf"
	maxBound := "+inf"
	if loOK {
		minBound = strconv.FormatInt(lo, 10)
	}
	if hiOK {
		maxBound = strconv.FormatInt(hi, 10)
	}
	return fmt.Sprintf("@%s:[%s %s]", db.FieldDate, minBound, maxBound)
}

// --- Query helpers ---

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`,`, `\,`,
	`.`, `\.`,
)
