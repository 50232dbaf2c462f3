package v1alpha1

import (
	"github.com/KirkDiggler/rpg-compendium/internal/clients/external"
	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-compendium/internal/render"
)

type resultResponse struct {
	Status       string           `json:"status"`
	InvocationID string           `json:"invocation_id,omitempty"`
	Records      []map[string]any `json:"records"`
	Reason       string           `json:"reason,omitempty"`
	Message      string           `json:"message,omitempty"`
	Error        *errorResponse   `json:"error,omitempty"`
}

type errorEnvelope struct {
	Status string         `json:"status"`
	Error  *errorResponse `json:"error"`
}

type errorResponse struct {
	Kind    string              `json:"kind"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type optionsResponse struct {
	Races   []option `json:"races"`
	Classes []option `json:"classes"`
}

type createCharacterRequest struct {
	Name  string `json:"name"`
	Race  string `json:"race"`
	Class string `json:"class"`
}

type abilityBonus struct {
	Ability string `json:"ability"`
	Bonus   int    `json:"bonus"`
}

type raceResponse struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Size           string         `json:"size"`
	Speed          int            `json:"speed"`
	AbilityBonuses []abilityBonus `json:"ability_bonuses"`
	Traits         []string       `json:"traits"`
}

type classResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	HitDie        int      `json:"hit_die"`
	Proficiencies []string `json:"proficiencies"`
	SavingThrows  []string `json:"saving_throws"`
}

type characterResponse struct {
	Name  string         `json:"name"`
	Race  *raceResponse  `json:"race"`
	Class *classResponse `json:"class"`
}

func renderMessage(feature *compendium.Feature, result *compendium.Result) string {
	return render.Message(feature, result)
}

func toOptions(refs []*external.Reference) []option {
	out := make([]option, 0, len(refs))
	for _, ref := range refs {
		out = append(out, option{ID: ref.ID, Name: ref.Name})
	}
	return out
}

func toCharacterResponse(c *character.Character) *characterResponse {
	resp := &characterResponse{Name: c.Name}

	if c.Race != nil {
		bonuses := make([]abilityBonus, len(c.Race.AbilityBonuses))
		for i, b := range c.Race.AbilityBonuses {
			bonuses[i] = abilityBonus{Ability: b.Ability, Bonus: b.Bonus}
		}
		resp.Race = &raceResponse{
			ID:             c.Race.ID,
			Name:           c.Race.Name,
			Size:           c.Race.Size,
			Speed:          c.Race.Speed,
			AbilityBonuses: bonuses,
			Traits:         c.Race.Traits,
		}
	}

	if c.Class != nil {
		resp.Class = &classResponse{
			ID:            c.Class.ID,
			Name:          c.Class.Name,
			HitDie:        c.Class.HitDie,
			Proficiencies: c.Class.Proficiencies,
			SavingThrows:  c.Class.SavingThrows,
		}
	}

	return resp
}
