package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/search"
	"github.com/KirkDiggler/rpg-compendium/internal/render"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive spells|monsters",
	Short: "Search as you type",
	Long: `Interactive reads one query per line from stdin in the form "text" or
"text|filter". Every line starts a new search and abandons the one before it,
so only the newest query's results are printed. Popular records are shown first.`,
	Args: cobra.ExactArgs(1),
	RunE: runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	svc, err := newServices(cfg)
	if err != nil {
		return err
	}

	feature, err := svc.feature(args[0])
	if err != nil {
		return err
	}

	term := render.NewTerminal(cmd.OutOrStdout())
	target := render.NewTarget(func(result *compendium.Result) {
		if err := term.Result(feature, result); err != nil {
			slog.Warn("Failed to render result", "error", err)
		}
	})
	defer target.Close()

	ctx := cmd.Context()
	var wg sync.WaitGroup

	start := func(fn func(ctx context.Context) *compendium.Result) {
		// Begin runs on the reading goroutine so tickets follow input order.
		runCtx, ticket := target.Begin(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			target.Commit(ticket, fn(runCtx))
		}()
	}

	start(func(ctx context.Context) *compendium.Result {
		out, err := svc.search.Preload(ctx, &search.PreloadInput{Feature: feature})
		if err != nil {
			return compendium.Failure(compendium.ErrorKindNetwork, err)
		}
		return out.Result
	})

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		text, rawFilter, _ := strings.Cut(scanner.Text(), "|")

		filter, err := feature.ParseFilter(rawFilter)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
			continue
		}

		query := compendium.Query{Text: text, Filter: filter}
		start(func(ctx context.Context) *compendium.Result {
			out, err := svc.search.Search(ctx, &search.SearchInput{Feature: feature, Query: query})
			if err != nil {
				return compendium.Failure(compendium.ErrorKindNetwork, err)
			}
			return out.Result
		})
	}

	wg.Wait()
	return scanner.Err()
}
