// Package compendium holds the reference entities shared by the search features
package compendium

// Resource is a list endpoint on the D&D 5e API
type Resource string

// Resources served by the remote API
const (
	ResourceRaces    Resource = "races"
	ResourceClasses  Resource = "classes"
	ResourceMonsters Resource = "monsters"
	ResourceSpells   Resource = "spells"
)

// String returns the path segment for the resource
func (r Resource) String() string {
	return string(r)
}

// IndexEntry is a lightweight reference returned by a list endpoint
type IndexEntry struct {
	ID   string
	Name string
}

// DetailRecord is a fully resolved entity. Fields holds the decoded JSON
// object as returned by the API and is passed to renderers untouched.
type DetailRecord struct {
	ID     string
	Name   string
	Fields map[string]any
}

// Field returns the raw value of a top level field
func (r *DetailRecord) Field(name string) (any, bool) {
	if r == nil || r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[name]
	return v, ok
}

// Filter is an exact-match constraint on one field of a detail record
type Filter struct {
	Field string
	Value any
}

// Query is the user input for a search
type Query struct {
	Text   string
	Filter *Filter
}
