package render

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
)

// Detail records are opaque JSON, so every accessor tolerates a missing or
// differently shaped field and falls back.

func text(record *compendium.DetailRecord, field, fallback string) string {
	v, ok := record.Field(field)
	if !ok {
		return fallback
	}
	switch s := v.(type) {
	case string:
		if s != "" {
			return s
		}
	case float64:
		return formatNumber(s)
	}
	return fallback
}

func number(record *compendium.DetailRecord, field string, fallback float64) float64 {
	v, ok := record.Field(field)
	if !ok {
		return fallback
	}
	if f, ok := v.(float64); ok {
		return f
	}
	return fallback
}

// nestedName reads {"field": {"name": "..."}}.
func nestedName(record *compendium.DetailRecord, field string) string {
	v, _ := record.Field(field)
	if obj, ok := v.(map[string]any); ok {
		if name, ok := obj["name"].(string); ok {
			return name
		}
	}
	return ""
}

// joined joins a JSON array of strings.
func joined(record *compendium.DetailRecord, field, sep string) (string, bool) {
	v, _ := record.Field(field)
	items, ok := v.([]any)
	if !ok || len(items) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, sep), true
}

type namedEntry struct {
	Name string
	Desc string
}

// namedEntries reads up to limit {"name","desc"} objects from a JSON array.
func namedEntries(record *compendium.DetailRecord, field string, limit int) []namedEntry {
	v, _ := record.Field(field)
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []namedEntry
	for _, item := range items {
		if len(out) == limit {
			break
		}
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name, _ := obj["name"].(string)
		desc, _ := obj["desc"].(string)
		out = append(out, namedEntry{Name: name, Desc: desc})
	}
	return out
}

// armorClass reads the first armor_class entry's value.
func armorClass(record *compendium.DetailRecord) float64 {
	v, _ := record.Field("armor_class")
	switch ac := v.(type) {
	case []any:
		if len(ac) > 0 {
			if obj, ok := ac[0].(map[string]any); ok {
				if value, ok := obj["value"].(float64); ok {
					return value
				}
			}
		}
	case float64:
		return ac
	}
	return 0
}

// walkSpeed reads speed.walk.
func walkSpeed(record *compendium.DetailRecord) string {
	v, _ := record.Field("speed")
	if obj, ok := v.(map[string]any); ok {
		if walk, ok := obj["walk"].(string); ok && walk != "" {
			return walk
		}
	}
	return "0 ft."
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
