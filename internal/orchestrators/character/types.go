package character

import (
	"github.com/KirkDiggler/rpg-compendium/internal/clients/external"
)

// ListOptionsInput defines the request for the race and class menus
type ListOptionsInput struct{}

// ListOptionsOutput defines the response for the race and class menus
type ListOptionsOutput struct {
	Races   []*external.Reference
	Classes []*external.Reference
}

// CreateCharacterInput defines the request for creating a character
type CreateCharacterInput struct {
	Name    string
	RaceID  string
	ClassID string
}

// CreateCharacterOutput defines the response for creating a character
type CreateCharacterOutput struct {
	Character *Character
}

// Character pairs a chosen name with the looked up race and class.
// Nothing is stored; the value only lives as long as the response.
type Character struct {
	Name  string
	Race  *external.RaceData
	Class *external.ClassData
}
