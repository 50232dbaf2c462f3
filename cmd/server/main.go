// Package main is the entry point for the rpg-compendium CLI and server
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-compendium/cmd/server/client"
	"github.com/KirkDiggler/rpg-compendium/internal/config"
)

var (
	configPath string
	logLevel   string

	// cfg is loaded before any command runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "rpg-compendium",
	Short: "D&D 5e spell, monster and character lookup",
	Long: `rpg-compendium searches spells and monsters and builds characters from the
public D&D 5e API, either from the terminal or as a JSON HTTP service.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("COMPENDIUM_CONFIG"), "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(popularCmd)
	rootCmd.AddCommand(characterCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(client.ClientCmd)
}

func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}
	cfg = loaded

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	return nil
}
