package external

// Reference is a selectable race or class
type Reference struct {
	ID   string
	Name string
}

// AbilityBonus is a racial ability score increase
type AbilityBonus struct {
	Ability string
	Bonus   int
}

// RaceData represents race information from external source
type RaceData struct {
	ID             string
	Name           string
	Size           string
	Speed          int
	AbilityBonuses []AbilityBonus
	Traits         []string
}

// ClassData represents class information from external source
type ClassData struct {
	ID            string
	Name          string
	HitDie        int
	Proficiencies []string
	SavingThrows  []string
}
