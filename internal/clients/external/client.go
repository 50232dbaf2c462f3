// Package external is the location for the typed dnd5e-api client used by
// character creation
package external

//go:generate mockgen -destination=mock/mock_client.go -package=externalmock github.com/KirkDiggler/rpg-compendium/internal/clients/external Client

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/errors"
	"github.com/KirkDiggler/rpg-compendium/internal/metrics"
)

// Client defines the interface for race and class lookups
type Client interface {
	// ListRaces returns race references for selection menus
	ListRaces(ctx context.Context) ([]*Reference, error)

	// ListClasses returns class references for selection menus
	ListClasses(ctx context.Context) ([]*Reference, error)

	// GetRaceData fetches race information from external source
	GetRaceData(ctx context.Context, raceID string) (*RaceData, error)

	// GetClassData fetches class information from external source
	GetClassData(ctx context.Context, classID string) (*ClassData, error)
}

// dnd5eAPI is the subset of dnd5e.Interface this package calls
type dnd5eAPI interface {
	ListRaces() ([]*entities.ReferenceItem, error)
	GetRace(key string) (*entities.Race, error)
	ListClasses() ([]*entities.ReferenceItem, error)
	GetClass(key string) (*entities.Class, error)
}

type client struct {
	dnd5eClient dnd5eAPI
}

// Config contains configuration options for the external client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 10 seconds)
	HTTPTimeout time.Duration
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if cfg.HTTPTimeout < 0 {
		return errors.InvalidArgument("HTTPTimeout must not be negative")
	}
	return nil
}

// New creates a new external client with the given configuration.
// Responses are never cached; every lookup goes to the API.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		Timeout:   cfg.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  httpClient,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create D&D 5e API client")
	}

	return &client{
		dnd5eClient: baseClient,
	}, nil
}

// toAPIFormat accepts either an API index ("half-elf") or a prefixed constant
// ("RACE_HALF_ELF") and returns the API index.
func toAPIFormat(id string) string {
	id = strings.TrimSpace(id)
	for _, prefix := range []string{"RACE_", "CLASS_"} {
		if strings.HasPrefix(id, prefix) {
			id = strings.TrimPrefix(id, prefix)
			break
		}
	}
	return strings.ToLower(strings.ReplaceAll(id, "_", "-"))
}

func (c *client) ListRaces(ctx context.Context) ([]*Reference, error) {
	refs, err := observe(ctx, compendium.ResourceRaces, metrics.KindIndex, c.dnd5eClient.ListRaces)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list races")
	}
	slog.Debug("Got race references", "count", len(refs))
	return toReferences(refs), nil
}

func (c *client) ListClasses(ctx context.Context) ([]*Reference, error) {
	refs, err := observe(ctx, compendium.ResourceClasses, metrics.KindIndex, c.dnd5eClient.ListClasses)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list classes")
	}
	slog.Debug("Got class references", "count", len(refs))
	return toReferences(refs), nil
}

func (c *client) GetRaceData(ctx context.Context, raceID string) (*RaceData, error) {
	apiID := toAPIFormat(raceID)
	if apiID == "" {
		return nil, errors.InvalidArgument("race id is required")
	}

	race, err := observe(ctx, compendium.ResourceRaces, metrics.KindDetail, func() (*entities.Race, error) {
		return c.dnd5eClient.GetRace(apiID)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get race %s (api: %s)", raceID, apiID)
	}
	if race == nil {
		return nil, errors.NotFoundf("race %s not found", raceID)
	}

	return convertRace(race), nil
}

func (c *client) GetClassData(ctx context.Context, classID string) (*ClassData, error) {
	apiID := toAPIFormat(classID)
	if apiID == "" {
		return nil, errors.InvalidArgument("class id is required")
	}

	class, err := observe(ctx, compendium.ResourceClasses, metrics.KindDetail, func() (*entities.Class, error) {
		return c.dnd5eClient.GetClass(apiID)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get class %s (api: %s)", classID, apiID)
	}
	if class == nil {
		return nil, errors.NotFoundf("class %s not found", classID)
	}

	return convertClass(class), nil
}

// observe runs a dnd5e-api call, which takes no context, after checking that
// the caller is still waiting, and records it in the API metrics.
func observe[T any](ctx context.Context, resource compendium.Resource, kind string, call func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, errors.Wrap(err, "request abandoned")
	}

	start := time.Now()
	out, err := call()
	if err != nil {
		err = errors.WrapWithCode(err, errors.CodeUnavailable, "D&D 5e API call failed")
	}
	metrics.ObserveAPIRequest(resource.String(), kind, errors.GetCode(err).String(), time.Since(start))

	return out, err
}

// Conversion functions

func toReferences(refs []*entities.ReferenceItem) []*Reference {
	out := make([]*Reference, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		out = append(out, &Reference{ID: ref.Key, Name: ref.Name})
	}
	return out
}

func convertRace(race *entities.Race) *RaceData {
	bonuses := make([]AbilityBonus, 0, len(race.AbilityBonuses))
	for _, bonus := range race.AbilityBonuses {
		if bonus.AbilityScore != nil {
			bonuses = append(bonuses, AbilityBonus{
				Ability: bonus.AbilityScore.Name,
				Bonus:   int(bonus.Bonus),
			})
		}
	}

	traits := make([]string, len(race.Traits))
	for i, trait := range race.Traits {
		traits[i] = trait.Name
	}

	return &RaceData{
		ID:             race.Key,
		Name:           race.Name,
		Size:           race.Size,
		Speed:          int(race.Speed),
		AbilityBonuses: bonuses,
		Traits:         traits,
	}
}

func convertClass(class *entities.Class) *ClassData {
	proficiencies := make([]string, 0,
		len(class.ArmorProficiencies)+len(class.WeaponProficiencies)+len(class.ToolProficiencies))
	for _, armor := range class.ArmorProficiencies {
		proficiencies = append(proficiencies, armor.Name)
	}
	for _, weapon := range class.WeaponProficiencies {
		proficiencies = append(proficiencies, weapon.Name)
	}
	for _, tool := range class.ToolProficiencies {
		proficiencies = append(proficiencies, tool.Name)
	}

	savingThrows := make([]string, len(class.SavingThrows))
	for i, st := range class.SavingThrows {
		savingThrows[i] = st.Name
	}

	return &ClassData{
		ID:            class.Key,
		Name:          class.Name,
		HitDie:        int(class.HitDie),
		Proficiencies: proficiencies,
		SavingThrows:  savingThrows,
	}
}
