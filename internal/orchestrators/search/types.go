package search

import (
	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
)

// Operation labels used in logs and metrics
const (
	OperationSearch  = "search"
	OperationPreload = "preload"
)

// SearchInput defines the request for a text and filter search
type SearchInput struct {
	Feature *compendium.Feature
	Query   compendium.Query
}

// SearchOutput defines the response for a search
type SearchOutput struct {
	InvocationID string
	Result       *compendium.Result
}

// PreloadInput defines the request for loading records by id.
// A nil IDs slice loads the feature's popular ids.
type PreloadInput struct {
	Feature *compendium.Feature
	IDs     []string
}

// PreloadOutput defines the response for a preload
type PreloadOutput struct {
	InvocationID string
	Result       *compendium.Result
}
