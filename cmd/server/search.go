package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/search"
	"github.com/KirkDiggler/rpg-compendium/internal/render"
)

var searchFilter string

var searchCmd = &cobra.Command{
	Use:   "search spells|monsters [text...]",
	Short: "Search spells or monsters by name",
	Long: `Search narrows the index by case-insensitive substring, loads up to the
feature's cap of detail records and applies the optional --filter
(spell level or monster challenge rating).`,
	Example: `  rpg-compendium search spells fire --filter 3
  rpg-compendium search monsters dragon --filter 17`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var popularCmd = &cobra.Command{
	Use:       "popular spells|monsters",
	Short:     "Show the popular spells or monsters",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{compendium.FeatureSpells, compendium.FeatureMonsters},
	RunE:      runPopular,
}

func init() {
	searchCmd.Flags().StringVar(&searchFilter, "filter", "", "Exact spell level or monster challenge rating")
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	feature, err := svc.feature(args[0])
	if err != nil {
		return err
	}

	filter, err := feature.ParseFilter(searchFilter)
	if err != nil {
		return err
	}

	out, err := svc.search.Search(cmd.Context(), &search.SearchInput{
		Feature: feature,
		Query: compendium.Query{
			Text:   strings.Join(args[1:], " "),
			Filter: filter,
		},
	})
	if err != nil {
		return err
	}

	return render.NewTerminal(cmd.OutOrStdout()).Result(feature, out.Result)
}

func runPopular(cmd *cobra.Command, args []string) error {
	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	feature, err := svc.feature(args[0])
	if err != nil {
		return err
	}

	out, err := svc.search.Preload(cmd.Context(), &search.PreloadInput{Feature: feature})
	if err != nil {
		return err
	}

	return render.NewTerminal(cmd.OutOrStdout()).Result(feature, out.Result)
}
