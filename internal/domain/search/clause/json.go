package clause

import "encoding/json"

// MarshalJSON renders the clause as Elasticsearch Query DSL.
func (c Clause) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.dsl())
}

func (c Clause) dsl() map[string]any {
	switch {
	case c.MatchAll:
		return map[string]any{"match_all": map[string]any{}}
	case c.Match != nil:
		return c.Match.dsl()
	}

	body := map[string]any{}
	if len(c.Must) > 0 {
		body["must"] = dslList(c.Must)
	}
	if len(c.Should) > 0 {
		body["should"] = dslList(c.Should)
		if c.MinimumShouldMatch > 0 {
			body["minimum_should_match"] = c.MinimumShouldMatch
		}
	}
	if len(c.MustNot) > 0 {
		body["must_not"] = dslList(c.MustNot)
	}
	return map[string]any{"bool": body}
}

func dslList(cs []Clause) []map[string]any {
	out := make([]map[string]any, len(cs))
	for i := range cs {
		out[i] = cs[i].dsl()
	}
	return out
}

func (m *Match) dsl() map[string]any {
	if len(m.Fields) == 1 {
		if m.Mode == Phrase {
			return map[string]any{"match_phrase": map[string]any{
				m.Fields[0]: map[string]any{"query": m.Value},
			}}
		}
		q := map[string]any{"query": m.Value}
		if m.RequireAll {
			q["operator"] = "and"
		}
		return map[string]any{"match": map[string]any{m.Fields[0]: q}}
	}

	q := map[string]any{
		"query":  m.Value,
		"fields": m.Fields,
		"type":   m.Mode.String(),
	}
	if m.Mode == BestFields && m.RequireAll {
		q["operator"] = "and"
	}
	return map[string]any{"multi_match": q}
}
