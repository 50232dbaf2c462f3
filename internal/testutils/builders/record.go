// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
)

// RecordBuilder provides a fluent interface for building test DetailRecord instances
type RecordBuilder struct {
	record *compendium.DetailRecord
}

// NewRecordBuilder creates a builder with the index and name fields set the
// way the API returns them
func NewRecordBuilder(id, name string) *RecordBuilder {
	return &RecordBuilder{
		record: &compendium.DetailRecord{
			ID:   id,
			Name: name,
			Fields: map[string]any{
				"index": id,
				"name":  name,
			},
		},
	}
}

// NewSpellBuilder creates a spell record at the given level
func NewSpellBuilder(id, name string, level int) *RecordBuilder {
	return NewRecordBuilder(id, name).With("level", float64(level))
}

// NewMonsterBuilder creates a monster record with the given challenge rating
func NewMonsterBuilder(id, name string, cr float64) *RecordBuilder {
	return NewRecordBuilder(id, name).With("challenge_rating", cr)
}

// With sets a raw field. Numbers should be float64 to match decoded JSON.
func (b *RecordBuilder) With(field string, value any) *RecordBuilder {
	b.record.Fields[field] = value
	return b
}

// WithStrings sets a field to a JSON array of strings
func (b *RecordBuilder) WithStrings(field string, values ...string) *RecordBuilder {
	items := make([]any, len(values))
	for i, v := range values {
		items[i] = v
	}
	return b.With(field, items)
}

// WithNamed sets a field to a JSON object carrying a name
func (b *RecordBuilder) WithNamed(field, name string) *RecordBuilder {
	return b.With(field, map[string]any{"name": name})
}

// WithEntries sets a field to a JSON array of {"name","desc"} objects
func (b *RecordBuilder) WithEntries(field string, pairs ...[2]string) *RecordBuilder {
	items := make([]any, len(pairs))
	for i, p := range pairs {
		items[i] = map[string]any{"name": p[0], "desc": p[1]}
	}
	return b.With(field, items)
}

// Build returns the built record
func (b *RecordBuilder) Build() *compendium.DetailRecord {
	return b.record
}
