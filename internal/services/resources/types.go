package resources

import (
	"github.com/KirkDiggler/aura/internal/models"
	"github.com/sirupsen/logrus"
)

// FilterAll matches every resource type
const FilterAll = "all"

// Config holds configuration for the resource service
type Config struct {
	// Catalog defaults to the built-in library when nil
	Catalog []*models.Resource

	Logger logrus.FieldLogger
}

// ListInput contains the active filter and search text
type ListInput struct {
	// Filter is FilterAll or a resource type; empty means FilterAll
	Filter string

	Query string
}

// ListOutput contains the matching resources
type ListOutput struct {
	Resources []*models.Resource

	// Label describes the active filter, e.g. `Showing: Audio • Search: "sleep"`
	Label string

	// Empty is set when nothing matches
	Empty bool
}

// CountsOutput contains the library counters
type CountsOutput struct {
	Total  int
	ByType map[models.ResourceType]int

	// Chip is the total in words, e.g. "6 resources available"
	Chip string
}
