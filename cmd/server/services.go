package main

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-compendium/internal/clients/api"
	"github.com/KirkDiggler/rpg-compendium/internal/clients/external"
	"github.com/KirkDiggler/rpg-compendium/internal/config"
	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-compendium/internal/orchestrators/search"
	"github.com/KirkDiggler/rpg-compendium/internal/pkg/idgen"
)

// services bundles everything a command needs
type services struct {
	search    search.Service
	character character.Service
	features  map[string]*compendium.Feature
}

func newServices(cfg *config.Config) (*services, error) {
	apiClient, err := api.New(&api.Config{
		BaseURL:           cfg.API.BaseURL,
		RequestTimeout:    cfg.RequestTimeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create api client: %w", err)
	}

	externalClient, err := external.New(&external.Config{
		BaseURL:     cfg.API.BaseURL,
		HTTPTimeout: cfg.RequestTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create external client: %w", err)
	}

	searchService, err := search.NewOrchestrator(&search.Config{
		Client:      apiClient,
		IDGenerator: idgen.NewUUID("inv"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create search orchestrator: %w", err)
	}

	characterService, err := character.NewOrchestrator(&character.Config{
		ExternalClient: externalClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create character orchestrator: %w", err)
	}

	return &services{
		search:    searchService,
		character: characterService,
		features:  cfg.SearchFeatures(),
	}, nil
}

func (s *services) feature(name string) (*compendium.Feature, error) {
	feature, ok := s.features[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown feature %q, expected %s or %s",
			name, compendium.FeatureSpells, compendium.FeatureMonsters)
	}
	return feature, nil
}
