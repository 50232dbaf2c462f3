// Package search implements the fetch, filter and fan-out pipeline behind
// spell and monster lookups
package search

//go:generate mockgen -destination=mock/mock_service.go -package=searchmock github.com/KirkDiggler/rpg-compendium/internal/orchestrators/search Service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/rpg-compendium/internal/clients/api"
	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/errors"
	"github.com/KirkDiggler/rpg-compendium/internal/metrics"
	"github.com/KirkDiggler/rpg-compendium/internal/pkg/idgen"
)

// Service runs search and preload invocations.
// Both always return a Result; the error return is reserved for bad input.
type Service interface {
	// Search fetches the index, narrows it by text, fetches up to Cap details
	// all-or-nothing and applies the structured filter.
	Search(ctx context.Context, input *SearchInput) (*SearchOutput, error)

	// Preload fetches records by id, dropping the ones that fail.
	Preload(ctx context.Context, input *PreloadInput) (*PreloadOutput, error)
}

// Config holds the dependencies for the search orchestrator
type Config struct {
	Client      api.Client
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	client api.Client
	idGen  idgen.Generator
}

// NewOrchestrator creates a new search orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		client: cfg.Client,
		idGen:  cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateFeature(input.Feature); err != nil {
		return nil, err
	}

	invocationID := o.idGen.Generate()
	logger := slog.With(
		"invocation_id", invocationID,
		"feature", input.Feature.Name,
		"operation", OperationSearch,
	)
	logger.Debug("Search started", "text", input.Query.Text, "filtered", input.Query.Filter != nil)

	result := o.search(ctx, logger, input.Feature, input.Query)

	metrics.ObserveInvocation(input.Feature.Name, OperationSearch, string(result.Status))
	logResult(logger, result)

	return &SearchOutput{
		InvocationID: invocationID,
		Result:       result,
	}, nil
}

func (o *orchestrator) search(
	ctx context.Context,
	logger *slog.Logger,
	feature *compendium.Feature,
	query compendium.Query,
) *compendium.Result {
	index, err := o.client.ListIndex(ctx, feature.Resource)
	if err != nil {
		return failure(ctx, errors.Wrapf(err, "failed to list %s", feature.Resource))
	}

	matched := matchText(index, query.Text)
	logger.Debug("Index narrowed", "index_size", len(index), "matched", len(matched))
	if len(matched) == 0 {
		return compendium.Empty(compendium.EmptyReasonNoMatch)
	}

	// Truncation happens before the structured filter, so a record that
	// matches the filter but sits past the cap is never seen.
	candidates := truncate(matched, feature.Cap)
	metrics.ObserveFanout(feature.Name, OperationSearch, len(candidates))

	records, err := o.fetchAll(ctx, feature, candidates)
	if err != nil {
		return failure(ctx, err)
	}

	if query.Filter != nil {
		records = applyFilter(records, query.Filter)
		if len(records) == 0 {
			return compendium.Empty(compendium.EmptyReasonFiltered)
		}
	}

	return compendium.Success(records)
}

// fetchAll loads every entry's detail record concurrently. The first failure
// cancels the rest and no partial slice is returned.
func (o *orchestrator) fetchAll(
	ctx context.Context,
	feature *compendium.Feature,
	entries []*compendium.IndexEntry,
) ([]*compendium.DetailRecord, error) {
	records := make([]*compendium.DetailRecord, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feature.Cap)

	for i, entry := range entries {
		g.Go(func() error {
			record, err := o.client.GetRecord(gctx, feature.Resource, entry.ID)
			if err != nil {
				return errors.Wrapf(err, "failed to get %s %s", feature.Resource, entry.ID)
			}
			records[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

func (o *orchestrator) Preload(ctx context.Context, input *PreloadInput) (*PreloadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateFeature(input.Feature); err != nil {
		return nil, err
	}

	ids := input.IDs
	if ids == nil {
		ids = input.Feature.PopularIDs
	}

	invocationID := o.idGen.Generate()
	logger := slog.With(
		"invocation_id", invocationID,
		"feature", input.Feature.Name,
		"operation", OperationPreload,
	)

	metrics.ObserveFanout(input.Feature.Name, OperationPreload, len(ids))

	records := make([]*compendium.DetailRecord, len(ids))
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(idx int, key string) {
			defer wg.Done()

			record, err := o.client.GetRecord(ctx, input.Feature.Resource, key)
			if err != nil {
				logger.Warn("Dropping record that failed to load", "id", key, "error", err)
				return
			}
			records[idx] = record
		}(i, id)
	}

	wg.Wait()

	loaded := make([]*compendium.DetailRecord, 0, len(records))
	for _, record := range records {
		if record != nil {
			loaded = append(loaded, record)
		}
	}

	result := compendium.Success(loaded)
	if len(loaded) == 0 {
		result = compendium.Empty(compendium.EmptyReasonNoneLoaded)
	}

	metrics.ObserveInvocation(input.Feature.Name, OperationPreload, string(result.Status))
	logResult(logger, result)

	return &PreloadOutput{
		InvocationID: invocationID,
		Result:       result,
	}, nil
}

func validateFeature(feature *compendium.Feature) error {
	if feature == nil {
		return errors.InvalidArgument("feature is required")
	}
	if err := feature.Validate(); err != nil {
		return errors.Wrapf(err, "invalid feature %q", feature.Name)
	}
	return nil
}

// failure classifies a pipeline error. An invocation whose own context was
// canceled was superseded, everything else is reported as a network error.
func failure(ctx context.Context, err error) *compendium.Result {
	if ctx.Err() != nil && errors.IsCanceled(ctx.Err()) {
		return compendium.Failure(compendium.ErrorKindCanceled, err)
	}
	return compendium.Failure(compendium.ErrorKindNetwork, err)
}

func logResult(logger *slog.Logger, result *compendium.Result) {
	switch result.Status {
	case compendium.StatusFailure:
		if result.Kind == compendium.ErrorKindCanceled {
			logger.Debug("Invocation superseded", "error", result.Cause)
			return
		}
		logger.Error("Invocation failed", "kind", result.Kind, "error", result.Cause)
	case compendium.StatusEmpty:
		logger.Info("Invocation matched nothing", "reason", result.Reason)
	default:
		logger.Info("Invocation finished", "records", len(result.Records))
	}
}
