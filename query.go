package itm

import "fmt"

// Query is an Elasticsearch-style search query accepted by the
// exploration search endpoints.
type Query map[string]any

// TermQuery builds a filter query matching records whose field equals
// value exactly.
func TermQuery(field, value string) Query {
	return Query{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": map[string]any{
					"term": map[string]any{
						field: value,
					},
				},
			},
		},
	}
}

// defaultEndpointsQuery builds the query used when listing recently
// seen endpoints: components observed in the last days days, excluding
// unregistered components, components with unknown versions, and picp
// components. A kind of "*" matches all component kinds.
func defaultEndpointsQuery(kind string, days int) Query {
	must := []any{
		map[string]any{
			"range": map[string]any{
				"event.observedAt": map[string]any{
					"gte": fmt.Sprintf("now-%dd", days),
				},
			},
		},
	}
	if kind != "*" {
		must = append(must, map[string]any{
			"match_phrase": map[string]any{
				"component.kind": kind,
			},
		})
	}

	mustNot := []any{
		map[string]any{
			"match": map[string]any{
				"component.version": "unknown",
			},
		},
		map[string]any{
			"match_phrase": map[string]any{
				"component.status.code": "it:component:status:unregistered",
			},
		},
		map[string]any{
			"match_phrase": map[string]any{
				"component.kind": "it:component:picp",
			},
		},
	}

	return Query{
		"query": map[string]any{
			"bool": map[string]any{
				"must":     must,
				"must_not": mustNot,
			},
		},
	}
}
