package compendium

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-compendium/internal/errors"
)

// Fan-out caps per feature
const (
	DefaultSpellCap   = 20
	DefaultMonsterCap = 15
)

// Feature names
const (
	FeatureSpells   = "spells"
	FeatureMonsters = "monsters"
)

// FilterKind decides how a raw filter value is parsed
type FilterKind int

// Filter kinds
const (
	FilterKindNone FilterKind = iota
	FilterKindInteger
	FilterKindFloat
)

// Feature binds a searchable resource to its cap, its structured filter and
// the ids shown before the user searches.
type Feature struct {
	Name        string
	Resource    Resource
	Noun        string
	Cap         int
	FilterField string
	FilterKind  FilterKind
	// FilterParam is the short query parameter users type, e.g. "cr"
	FilterParam string
	PopularIDs  []string
}

// SpellsFeature returns the spell search defaults
func SpellsFeature() *Feature {
	return &Feature{
		Name:        FeatureSpells,
		Resource:    ResourceSpells,
		Noun:        "spells",
		Cap:         DefaultSpellCap,
		FilterField: "level",
		FilterKind:  FilterKindInteger,
		FilterParam: "level",
		PopularIDs:  []string{"fireball", "magic-missile", "cure-wounds", "shield", "counterspell"},
	}
}

// MonstersFeature returns the monster search defaults
func MonstersFeature() *Feature {
	return &Feature{
		Name:        FeatureMonsters,
		Resource:    ResourceMonsters,
		Noun:        "monsters",
		Cap:         DefaultMonsterCap,
		FilterField: "challenge_rating",
		FilterKind:  FilterKindFloat,
		FilterParam: "cr",
		PopularIDs:  []string{"dragon", "goblin", "owlbear", "beholder", "tarrasque"},
	}
}

// Validate checks that the feature can drive a search
func (f *Feature) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("Name", f.Name, vb)
	errors.ValidateRequired("Resource", f.Resource.String(), vb)
	if f.Cap <= 0 {
		vb.Field("Cap", "must be positive")
	}
	if f.FilterKind != FilterKindNone && f.FilterField == "" {
		vb.RequiredField("FilterField")
	}

	return vb.Build()
}

// ParseFilter turns raw user input into a Filter on the feature's designated
// field. Blank input means no filter.
func (f *Feature) ParseFilter(raw string) (*Filter, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	switch f.FilterKind {
	case FilterKindInteger:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.InvalidArgumentf("%s must be a whole number, got %q", f.FilterParam, raw).
				WithMeta("feature", f.Name)
		}
		return &Filter{Field: f.FilterField, Value: float64(v)}, nil
	case FilterKindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.InvalidArgumentf("%s must be a number, got %q", f.FilterParam, raw).
				WithMeta("feature", f.Name)
		}
		return &Filter{Field: f.FilterField, Value: v}, nil
	default:
		return nil, errors.InvalidArgumentf("%s does not support filtering", f.Name)
	}
}
