package search

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
)

// normalize trims and lower-cases user text before matching
func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// matchText keeps entries whose name contains text, case-insensitively.
// Blank text keeps every entry.
func matchText(entries []*compendium.IndexEntry, text string) []*compendium.IndexEntry {
	needle := normalize(text)
	if needle == "" {
		return entries
	}

	matched := make([]*compendium.IndexEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), needle) {
			matched = append(matched, entry)
		}
	}
	return matched
}

func truncate(entries []*compendium.IndexEntry, limit int) []*compendium.IndexEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func applyFilter(records []*compendium.DetailRecord, filter *compendium.Filter) []*compendium.DetailRecord {
	kept := make([]*compendium.DetailRecord, 0, len(records))
	for _, record := range records {
		if matchesFilter(record, filter) {
			kept = append(kept, record)
		}
	}
	return kept
}

// matchesFilter compares numerically when both sides are numbers and falls
// back to deep equality otherwise.
func matchesFilter(record *compendium.DetailRecord, filter *compendium.Filter) bool {
	value, ok := record.Field(filter.Field)
	if !ok {
		return false
	}

	want, wantNumeric := toFloat(filter.Value)
	got, gotNumeric := toFloat(value)
	if wantNumeric || gotNumeric {
		return wantNumeric && gotNumeric && want == got
	}

	return reflect.DeepEqual(value, filter.Value)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
