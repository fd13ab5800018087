package resources

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/KirkDiggler/aura/internal/models"
	"github.com/sirupsen/logrus"
)

// service implements the Service interface
type service struct {
	catalog []*models.Resource
	log     logrus.FieldLogger
}

// New creates a new resource service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	catalog := cfg.Catalog
	if catalog == nil {
		var err error
		catalog, err = DefaultCatalog()
		if err != nil {
			return nil, err
		}
	}

	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &service{
		catalog: catalog,
		log:     log,
	}, nil
}

// List returns the resources matching a type filter and a search query
func (s *service) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	filter := strings.ToLower(strings.TrimSpace(input.Filter))
	if filter == "" {
		filter = FilterAll
	}
	if filter != FilterAll && !models.ResourceType(filter).IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, input.Filter)
	}

	query := strings.TrimSpace(input.Query)
	needle := strings.ToLower(query)

	matches := make([]*models.Resource, 0, len(s.catalog))
	for _, res := range s.catalog {
		if filter != FilterAll && string(res.Type) != filter {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(res.Title), needle) &&
			!strings.Contains(strings.ToLower(res.Description), needle) {
			continue
		}
		matches = append(matches, res)
	}

	s.log.WithFields(logrus.Fields{
		"filter":  filter,
		"query":   query,
		"matches": len(matches),
	}).Debug("listed resources")

	return &ListOutput{
		Resources: matches,
		Label:     Label(filter, query),
		Empty:     len(matches) == 0,
	}, nil
}

// Counts returns the per-type counters shown on the filter buttons
func (s *service) Counts(ctx context.Context) (*CountsOutput, error) {
	byType := make(map[models.ResourceType]int, len(models.ResourceTypes))
	for _, t := range models.ResourceTypes {
		byType[t] = 0
	}
	for _, res := range s.catalog {
		byType[res.Type]++
	}

	return &CountsOutput{
		Total:  len(s.catalog),
		ByType: byType,
		Chip:   Chip(len(s.catalog)),
	}, nil
}

// Label renders the "Showing:" line for a filter and query
func Label(filter, query string) string {
	name := "All"
	if filter != "" && filter != FilterAll {
		runes := []rune(filter)
		runes[0] = unicode.ToUpper(runes[0])
		name = string(runes)
	}

	label := "Showing: " + name
	if query != "" {
		label += ` • Search: "` + query + `"`
	}
	return label
}

// Chip renders the total resource count
func Chip(total int) string {
	if total == 1 {
		return "1 resource available"
	}
	return fmt.Sprintf("%d resources available", total)
}
