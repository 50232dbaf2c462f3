package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-compendium/internal/errors"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-compendium/internal/render"
)

var (
	characterName  string
	characterRace  string
	characterClass string
)

var characterCmd = &cobra.Command{
	Use:     "character",
	Short:   "Create a character from a race and class",
	Example: `  rpg-compendium character --name Thorin --race dwarf --class fighter`,
	Args:    cobra.NoArgs,
	RunE:    runCharacter,
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the races and classes a character can use",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

func init() {
	characterCmd.Flags().StringVar(&characterName, "name", "", "Character name")
	characterCmd.Flags().StringVar(&characterRace, "race", "", "Race id, for example dwarf or half-elf")
	characterCmd.Flags().StringVar(&characterClass, "class", "", "Class id, for example wizard")
}

func runCharacter(cmd *cobra.Command, _ []string) error {
	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	term := render.NewTerminal(cmd.OutOrStdout())

	out, err := svc.character.CreateCharacter(cmd.Context(), &character.CreateCharacterInput{
		Name:    characterName,
		RaceID:  characterRace,
		ClassID: characterClass,
	})
	if err != nil {
		if errors.IsInvalidArgument(err) {
			return errors.New(errors.CodeInvalidArgument, "please fill in all fields (--name, --race, --class)")
		}
		_ = term.Error("Failed to create character. Please try again.")
		return err
	}

	return term.Character(out.Character)
}

func runOptions(cmd *cobra.Command, _ []string) error {
	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	out, err := svc.character.ListOptions(cmd.Context(), &character.ListOptionsInput{})
	if err != nil {
		return err
	}

	return render.NewTerminal(cmd.OutOrStdout()).Options(out)
}
