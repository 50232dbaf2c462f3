// Package character implements the character orchestrator
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/rpg-compendium/internal/orchestrators/character Service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-compendium/internal/clients/external"
	"github.com/KirkDiggler/rpg-compendium/internal/errors"
)

// Service defines the character creation operations
type Service interface {
	// ListOptions returns the races and classes a character can pick from
	ListOptions(ctx context.Context, input *ListOptionsInput) (*ListOptionsOutput, error)

	// CreateCharacter looks up the chosen race and class and assembles a character
	CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error)
}

// Config holds the dependencies for the character orchestrator
type Config struct {
	ExternalClient external.Client
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ExternalClient == nil {
		vb.RequiredField("ExternalClient")
	}

	return vb.Build()
}

type orchestrator struct {
	externalClient external.Client
}

// NewOrchestrator creates a new character orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		externalClient: cfg.ExternalClient,
	}, nil
}

func (o *orchestrator) ListOptions(ctx context.Context, _ *ListOptionsInput) (*ListOptionsOutput, error) {
	var races, classes []*external.Reference

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		races, err = o.externalClient.ListRaces(gctx)
		if err != nil {
			return errors.WrapWithCode(err, errors.CodeUnavailable, "Failed to load races")
		}
		return nil
	})
	g.Go(func() error {
		var err error
		classes, err = o.externalClient.ListClasses(gctx)
		if err != nil {
			return errors.WrapWithCode(err, errors.CodeUnavailable, "Failed to load classes")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Failed to load character options", "error", err)
		return nil, err
	}

	slog.Debug("Loaded character options", "races", len(races), "classes", len(classes))

	return &ListOptionsOutput{
		Races:   races,
		Classes: classes,
	}, nil
}

func (o *orchestrator) CreateCharacter(ctx context.Context, input *CreateCharacterInput) (*CreateCharacterOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", input.Name, vb)
	errors.ValidateRequired("race_id", input.RaceID, vb)
	errors.ValidateRequired("class_id", input.ClassID, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "please fill in all fields")
	}

	var (
		race  *external.RaceData
		class *external.ClassData
	)

	// Both lookups must succeed; a character is never built from half the data.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		race, err = o.externalClient.GetRaceData(gctx, input.RaceID)
		if err != nil {
			return errors.Wrapf(err, "failed to get race %s", input.RaceID)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		class, err = o.externalClient.GetClassData(gctx, input.ClassID)
		if err != nil {
			return errors.Wrapf(err, "failed to get class %s", input.ClassID)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Failed to create character",
			"race_id", input.RaceID,
			"class_id", input.ClassID,
			"error", err)
		return nil, err
	}

	slog.Info("Created character",
		"name", strings.TrimSpace(input.Name),
		"race", race.ID,
		"class", class.ID)

	return &CreateCharacterOutput{
		Character: &Character{
			Name:  strings.TrimSpace(input.Name),
			Race:  race,
			Class: class,
		},
	}, nil
}
