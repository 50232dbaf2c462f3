package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/character"
)

// Card list limits
const (
	maxSpecialAbilities = 3
	maxActions          = 2
	maxProficiencies    = 5
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Message returns the user-facing text for a result that carries no records.
// Superseded invocations and successes have no message.
func Message(feature *compendium.Feature, result *compendium.Result) string {
	switch {
	case result.IsFailure():
		if result.Kind == compendium.ErrorKindCanceled {
			return ""
		}
		return fmt.Sprintf("Error loading %s. Please try again.", feature.Noun)
	case result.IsEmpty():
		switch result.Reason {
		case compendium.EmptyReasonFiltered:
			return fmt.Sprintf("No %s match your criteria.", feature.Noun)
		case compendium.EmptyReasonNoneLoaded:
			return fmt.Sprintf("Use the search form above to find %s.", feature.Noun)
		default:
			return fmt.Sprintf("No %s found. Try a different search term.", feature.Noun)
		}
	}
	return ""
}

// Terminal renders results as styled cards
type Terminal struct {
	out     io.Writer
	printer *message.Printer
}

// NewTerminal creates a renderer writing to out
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:     out,
		printer: message.NewPrinter(language.English),
	}
}

// Result writes the cards for a successful result or the matching message.
// A superseded invocation writes nothing.
func (t *Terminal) Result(feature *compendium.Feature, result *compendium.Result) error {
	if result.IsFailure() && result.Kind == compendium.ErrorKindCanceled {
		return nil
	}

	if !result.IsSuccess() {
		msg := Message(feature, result)
		if result.Reason == compendium.EmptyReasonNoneLoaded {
			msg = fmt.Sprintf("Use `search %s` to find %s.", feature.Name, feature.Noun)
		}
		style := noticeStyle
		if result.IsFailure() {
			style = errorStyle
		}
		_, err := fmt.Fprintln(t.out, style.Render(msg))
		return err
	}

	var b strings.Builder
	for _, record := range result.Records {
		b.WriteString(t.Card(feature, record))
		b.WriteString("\n")
	}
	_, err := io.WriteString(t.out, b.String())
	return err
}

// Card renders one record in the layout for its feature
func (t *Terminal) Card(feature *compendium.Feature, record *compendium.DetailRecord) string {
	switch feature.Resource {
	case compendium.ResourceSpells:
		return cardStyle.Render(spellCard(record))
	case compendium.ResourceMonsters:
		return cardStyle.Render(t.monsterCard(record))
	default:
		return cardStyle.Render(titleStyle.Render(record.Name))
	}
}

func spellCard(record *compendium.DetailRecord) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(record.Name))
	b.WriteString("\n")

	levelText := "Level " + formatNumber(number(record, "level", 0))
	if number(record, "level", 0) == 0 {
		levelText = "Cantrip"
	}
	b.WriteString(subtitleStyle.Render(strings.TrimSpace(levelText + " " + nestedName(record, "school"))))
	b.WriteString("\n\n")

	components, ok := joined(record, "components", ", ")
	if !ok {
		components = "None"
	}
	writeLine(&b, "Casting Time", text(record, "casting_time", "Unknown"))
	writeLine(&b, "Range", text(record, "range", "Unknown"))
	writeLine(&b, "Components", components)
	writeLine(&b, "Duration", text(record, "duration", "Unknown"))

	desc, ok := joined(record, "desc", " ")
	if !ok {
		desc = "No description available."
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Description:"))
	b.WriteString("\n")
	b.WriteString(desc)

	if higher, ok := joined(record, "higher_level", " "); ok {
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("At Higher Levels:"))
		b.WriteString("\n")
		b.WriteString(higher)
	}

	return b.String()
}

func (t *Terminal) monsterCard(record *compendium.DetailRecord) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(record.Name))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("%s %s, %s",
		text(record, "size", "Unknown"),
		text(record, "type", "Unknown"),
		text(record, "alignment", "Unaligned"))))
	b.WriteString("\n\n")

	writeLine(&b, "CR", formatNumber(number(record, "challenge_rating", 0)))
	writeLine(&b, "XP", t.printer.Sprintf("%d", int64(number(record, "xp", 0))))
	writeLine(&b, "HP", formatNumber(number(record, "hit_points", 0)))
	writeLine(&b, "AC", formatNumber(armorClass(record)))
	writeLine(&b, "Speed", walkSpeed(record))

	abilities := []struct{ label, field string }{
		{"STR", "strength"},
		{"DEX", "dexterity"},
		{"CON", "constitution"},
		{"INT", "intelligence"},
		{"WIS", "wisdom"},
		{"CHA", "charisma"},
	}
	scores := make([]string, len(abilities))
	for i, a := range abilities {
		scores[i] = fmt.Sprintf("%s %s", labelStyle.Render(a.label), formatNumber(number(record, a.field, 10)))
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(scores, "  "))

	writeEntries(&b, "Special Abilities:", namedEntries(record, "special_abilities", maxSpecialAbilities))
	writeEntries(&b, "Actions:", namedEntries(record, "actions", maxActions))

	return b.String()
}

// Character renders a created character
func (t *Terminal) Character(c *character.Character) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render(c.Name))
	b.WriteString("\n\n")

	if c.Race != nil {
		writeLine(&b, "Race", c.Race.Name)
		writeLine(&b, "Size", c.Race.Size)
		writeLine(&b, "Speed", fmt.Sprintf("%d ft.", c.Race.Speed))
	}
	if c.Class != nil {
		writeLine(&b, "Class", c.Class.Name)
		writeLine(&b, "Hit Die", fmt.Sprintf("d%d", c.Class.HitDie))
	}

	if c.Race != nil {
		bonuses := make([]string, len(c.Race.AbilityBonuses))
		for i, bonus := range c.Race.AbilityBonuses {
			bonuses[i] = fmt.Sprintf("%s: %+d", bonus.Ability, bonus.Bonus)
		}
		writeList(&b, "Ability Score Bonuses:", bonuses)
	}

	if c.Class != nil {
		profs := c.Class.Proficiencies
		if len(profs) > maxProficiencies {
			profs = profs[:maxProficiencies]
		}
		writeList(&b, fmt.Sprintf("Proficiencies (%s):", c.Class.Name), profs)
		writeList(&b, "Saving Throws:", c.Class.SavingThrows)
	}

	_, err := fmt.Fprintln(t.out, cardStyle.Render(b.String()))
	return err
}

// Options renders the race and class menus
func (t *Terminal) Options(out *character.ListOptionsOutput) error {
	races := make([]string, len(out.Races))
	for i, r := range out.Races {
		races[i] = fmt.Sprintf("%s (%s)", r.Name, r.ID)
	}
	classes := make([]string, len(out.Classes))
	for i, c := range out.Classes {
		classes[i] = fmt.Sprintf("%s (%s)", c.Name, c.ID)
	}

	var b strings.Builder
	writeList(&b, "Races:", races)
	writeList(&b, "Classes:", classes)

	_, err := fmt.Fprintln(t.out, strings.TrimLeft(b.String(), "\n"))
	return err
}

// Error renders a failed operation outside the search pipeline
func (t *Terminal) Error(msg string) error {
	_, err := fmt.Fprintln(t.out, errorStyle.Render(msg))
	return err
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label + ":"))
	b.WriteString(" ")
	b.WriteString(value)
	b.WriteString("\n")
}

func writeList(b *strings.Builder, heading string, items []string) {
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(heading))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("  • ")
		b.WriteString(item)
		b.WriteString("\n")
	}
}

func writeEntries(b *strings.Builder, heading string, entries []namedEntry) {
	if len(entries) == 0 {
		return
	}
	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = fmt.Sprintf("%s: %s", e.Name, e.Desc)
	}
	b.WriteString("\n")
	writeList(b, heading, items)
}
