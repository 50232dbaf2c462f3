// Package testutils provides shared fixtures for tests
package testutils

import (
	"github.com/KirkDiggler/rpg-compendium/internal/clients/external"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/character"
)

// TestCharacterName is the default character name for test fixtures
const TestCharacterName = "Thorin Oakenshield"

// CreateTestRace returns a dwarf with a single ability bonus
func CreateTestRace() *external.RaceData {
	return &external.RaceData{
		ID:    "dwarf",
		Name:  "Dwarf",
		Size:  "Medium",
		Speed: 25,
		AbilityBonuses: []external.AbilityBonus{
			{Ability: "CON", Bonus: 2},
		},
		Traits: []string{"Darkvision", "Dwarven Resilience", "Stonecunning"},
	}
}

// CreateTestClass returns a fighter with more proficiencies than a card shows
func CreateTestClass() *external.ClassData {
	return &external.ClassData{
		ID:     "fighter",
		Name:   "Fighter",
		HitDie: 10,
		Proficiencies: []string{
			"All armor", "Shields", "Simple Weapons", "Martial Weapons",
			"Light Crossbow", "Handaxe",
		},
		SavingThrows: []string{"STR", "CON"},
	}
}

// CreateTestCharacter assembles the fixture race and class
func CreateTestCharacter() *character.Character {
	return &character.Character{
		Name:  TestCharacterName,
		Race:  CreateTestRace(),
		Class: CreateTestClass(),
	}
}
