package itm

// Write-shape resource types. The API returns full documents with
// server-managed fields (id, extent, timestamps) that it rejects on
// writes; each New* constructor trims a read document down to the
// accepted write shape.

// Pattern is one key/value match pattern attached to a predicate.
type Pattern struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Predicate is the write shape of a depot predicate (conditions are
// predicates of kind it:predicate:custom:match).
type Predicate struct {
	Alias      string    `json:"alias,omitempty"`
	Kind       string    `json:"kind,omitempty"`
	Definition Record    `json:"definition,omitempty"`
	Patterns   []Pattern `json:"patterns,omitempty"`
	Predicates []Record  `json:"predicates,omitempty"`
	Purposes   []string  `json:"purposes,omitempty"`
	Lists      []string  `json:"lists,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Details    Record    `json:"details,omitempty"`
	Risk       Record    `json:"risk,omitempty"`
}

// NewPredicate builds a Predicate write shape from a full API document.
func NewPredicate(rec Record) *Predicate {
	p := &Predicate{
		Alias:      rec.Alias(),
		Kind:       rec.Kind(),
		Definition: rec.Child("definition"),
		Predicates: rec.Children("predicates"),
		Purposes:   rec.Strings("purposes"),
		Lists:      rec.Strings("lists"),
		Tags:       rec.Strings("tags"),
		Details:    rec.Child("details"),
		Risk:       rec.Child("risk"),
	}
	for _, pat := range rec.Children("patterns") {
		p.Patterns = append(p.Patterns, Pattern{
			Key:   pat.Str("key"),
			Value: pat.Str("value"),
		})
	}
	return p
}

// Refs returns every {"$ref": id} object nested inside the predicate
// definition. The returned maps alias the definition, so assigning a
// new "$ref" value remaps the reference in place.
func (p *Predicate) Refs() []Record {
	var refs []Record
	collectRefs(p.Definition, &refs)
	return refs
}

func collectRefs(node any, refs *[]Record) {
	switch v := node.(type) {
	case Record:
		if _, ok := v["$ref"]; ok {
			*refs = append(*refs, v)
			return
		}
		for _, child := range v {
			collectRefs(child, refs)
		}
	case map[string]any:
		collectRefs(Record(v), refs)
	case []any:
		for _, child := range v {
			collectRefs(child, refs)
		}
	}
}

// Rule is the write shape of a ruler rule.
type Rule struct {
	Alias      string   `json:"alias,omitempty"`
	Kind       string   `json:"kind,omitempty"`
	Status     string   `json:"status,omitempty"`
	Definition Record   `json:"definition,omitempty"`
	Predicate  Record   `json:"predicate,omitempty"`
	Actions    []Record `json:"actions,omitempty"`
	Options    []Record `json:"options,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Details    Record   `json:"details,omitempty"`
}

// NewRule builds a Rule write shape from a full API document.
func NewRule(rec Record) *Rule {
	return &Rule{
		Alias:      rec.Alias(),
		Kind:       rec.Kind(),
		Status:     rec.Str("status"),
		Definition: rec.Child("definition"),
		Predicate:  rec.Child("predicate"),
		Actions:    rec.Children("actions"),
		Options:    rec.Children("options"),
		Tags:       rec.Strings("tags"),
		Details:    rec.Child("details"),
	}
}

// Tag is the write shape of a depot tag.
type Tag struct {
	Name    string `json:"name,omitempty"`
	Alias   string `json:"alias,omitempty"`
	Status  string `json:"status,omitempty"`
	Details Record `json:"details,omitempty"`
	Extent  string `json:"extent,omitempty"`
}

// NewTag builds a Tag write shape from a full API document. Extent is
// always set to "tenant": public tags cannot be created through the
// API, only referenced.
func NewTag(rec Record) *Tag {
	return &Tag{
		Name:    rec.Str("name"),
		Alias:   rec.Alias(),
		Status:  rec.Str("status"),
		Details: rec.Child("details"),
		Extent:  "tenant",
	}
}

// Dictionary term matching types.
const (
	TermCaseSensitive   = "CaseSensitive"
	TermCaseInsensitive = "CaseInsensitive"
)

// DictionaryEntry is a single term in a user-defined dictionary.
type DictionaryEntry struct {
	Term   string `json:"term"`
	Type   string `json:"type,omitempty"`
	Weight int    `json:"weight,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// Dictionary is the write shape of a user-defined DLP dictionary.
type Dictionary struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Entries     []DictionaryEntry `json:"entries,omitempty"`
}

// NewDictionary builds a Dictionary write shape from a full API document.
func NewDictionary(rec Record) *Dictionary {
	d := &Dictionary{
		Name:        rec.Str("name"),
		Description: rec.Str("description"),
	}
	for _, entry := range rec.Children("entries") {
		d.Entries = append(d.Entries, DictionaryEntry{
			Term:   entry.Str("term"),
			Type:   entry.Str("type"),
			Weight: intField(entry, "weight"),
			Count:  intField(entry, "count"),
		})
	}
	return d
}

// Target is one delivery target inside a notification target group.
type Target struct {
	Kind      string   `json:"kind,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
	Template  string   `json:"template,omitempty"`
	Locale    string   `json:"locale,omitempty"`
}

// NewTarget builds a Target write shape from a full API document,
// dropping the server-assigned id.
func NewTarget(rec Record) Target {
	return Target{
		Kind:      rec.Kind(),
		Addresses: rec.Strings("addresses"),
		Template:  rec.Str("template"),
		Locale:    rec.Str("locale"),
	}
}

// TargetGroup is the write shape of a notification policy
// (target group).
type TargetGroup struct {
	Alias   string   `json:"alias,omitempty"`
	Status  string   `json:"status,omitempty"`
	Details Record   `json:"details,omitempty"`
	Targets []Target `json:"targets,omitempty"`
}

// NewTargetGroup builds a TargetGroup write shape from a full API
// document, rebuilding each target without its id.
func NewTargetGroup(rec Record) *TargetGroup {
	g := &TargetGroup{
		Alias:   rec.Alias(),
		Status:  rec.Str("status"),
		Details: rec.Child("details"),
	}
	for _, target := range rec.Children("targets") {
		g.Targets = append(g.Targets, NewTarget(target))
	}
	return g
}

// AgentPolicy is the write shape of a registry agent policy. Policy
// holds the inner policy document (match rules, rule refs, options).
type AgentPolicy struct {
	Alias  string `json:"alias,omitempty"`
	Policy Record `json:"policy,omitempty"`
}

// NewAgentPolicy builds an AgentPolicy write shape from a full API
// document.
func NewAgentPolicy(rec Record) *AgentPolicy {
	return &AgentPolicy{
		Alias:  rec.Alias(),
		Policy: rec.Child("policy"),
	}
}

// RuleRefs returns the rule references attached to the policy, or nil
// when it has none. The returned maps alias the policy document.
func (p *AgentPolicy) RuleRefs() []Record {
	return p.Policy.Child("refs").Child("rules").Children("rules")
}

// SetRuleRefs replaces the policy's rule reference list.
func (p *AgentPolicy) SetRuleRefs(refs []Record) {
	if p.Policy == nil {
		p.Policy = Record{}
	}
	rules := make([]any, len(refs))
	for i, ref := range refs {
		rules[i] = map[string]any(ref)
	}
	setNested(p.Policy, rules, "refs", "rules", "rules")
}

// SetMatch replaces the policy's match block.
func (p *AgentPolicy) SetMatch(match Record) {
	if p.Policy == nil {
		p.Policy = Record{}
	}
	p.Policy["match"] = map[string]any(match)
}

// MatchUsers replaces the policy match block with a simple rule that
// applies the policy to the given usernames.
func (p *AgentPolicy) MatchUsers(usernames []string) {
	users := make([]any, len(usernames))
	for i, u := range usernames {
		users[i] = u
	}
	p.SetMatch(Record{
		"simple": map[string]any{
			"rules": []any{
				map[string]any{"user.username": users},
			},
		},
		"modifiers": map[string]any{
			"evaluation": map[string]any{
				"unknownFieldsAs": true,
			},
		},
	})
}

func setNested(r Record, value any, keys ...string) {
	node := r
	for _, key := range keys[:len(keys)-1] {
		child := node.Child(key)
		if child == nil {
			child = Record{}
			node[key] = map[string]any(child)
		}
		node = child
	}
	node[keys[len(keys)-1]] = value
}

func intField(r Record, key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
