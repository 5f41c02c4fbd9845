package itm

// Entity names accepted by the search endpoints as the entityTypes
// query parameter.
const (
	EntityPredicate   = "predicate"
	EntityTag         = "tag"
	EntityRule        = "rule"
	EntityTargetGroup = "target-group"
	EntityComponent   = "component"
	EntityEvent       = "event"
	EntityCASB        = "casb"
	EntityEndpoint    = "endpoint"
	EntityAudit       = "audit"
)

// Well-known resource kinds.
const (
	KindAgentSaaS   = "agent:saas"
	KindUpdaterSaaS = "updater:saas"
	KindCustomMatch = "it:predicate:custom:match"
)

// Record is a schemaless API document. Most ITM resources are returned
// as free-form JSON objects whose shape varies by kind, so the client
// models them as maps with typed accessors.
type Record map[string]any

// ID returns the record's "id" field, or "" when absent.
func (r Record) ID() string {
	return r.Str("id")
}

// Kind returns the record's "kind" field, or "" when absent.
func (r Record) Kind() string {
	return r.Str("kind")
}

// Alias returns the record's "alias" field, or "" when absent.
func (r Record) Alias() string {
	return r.Str("alias")
}

// Extent returns the record's "extent" field, or "" when absent.
func (r Record) Extent() string {
	return r.Str("extent")
}

// Str returns the named field as a string, or "" when the field is
// absent or not a string.
func (r Record) Str(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// Child returns the named field as a nested Record. It returns nil when
// the field is absent or not an object, so lookups can be chained.
func (r Record) Child(key string) Record {
	switch v := r[key].(type) {
	case Record:
		return v
	case map[string]any:
		return Record(v)
	default:
		return nil
	}
}

// Children returns the named field as a slice of Records, skipping
// elements that are not objects.
func (r Record) Children(key string) []Record {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case Record:
			out = append(out, v)
		case map[string]any:
			out = append(out, Record(v))
		}
	}
	return out
}

// Strings returns the named field as a slice of strings, skipping
// elements of other types.
func (r Record) Strings(key string) []string {
	list, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Stats holds result statistics reported by search endpoints.
type Stats struct {
	Total int `json:"total"`
}

// Meta is the "_meta" envelope attached to list and search responses.
type Meta struct {
	Stats *Stats `json:"stats,omitempty"`
}

// Status is the "_status" envelope reported alongside some responses.
// The code is a string, for example "200".
type Status struct {
	Status string `json:"status,omitempty"`
}

// PageOptions configures offset pagination for list requests.
type PageOptions struct {
	Offset int
	Limit  int
}

// Page represents one page of list or search results.
type Page struct {
	Data   []Record `json:"data"`
	Meta   *Meta    `json:"_meta,omitempty"`
	Status *Status  `json:"_status,omitempty"`

	// Offset and Limit echo the request that produced this page.
	Offset int `json:"-"`
	Limit  int `json:"-"`
}

// Total returns the total result count reported by the server, or -1
// when the response carried no statistics.
func (p *Page) Total() int {
	if p.Meta != nil && p.Meta.Stats != nil {
		return p.Meta.Stats.Total
	}
	return -1
}

// HasMore returns true if there are more pages available.
func (p *Page) HasMore() bool {
	if len(p.Data) == 0 {
		return false
	}
	if total := p.Total(); total >= 0 {
		return p.Offset+len(p.Data) < total
	}
	// Without a total, assume a full page means more may follow.
	return p.Limit > 0 && len(p.Data) >= p.Limit
}

// NextOffset returns the offset for the next page.
func (p *Page) NextOffset() int {
	return p.Offset + len(p.Data)
}
