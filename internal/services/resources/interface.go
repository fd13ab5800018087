package resources

import "context"

// Service browses the wellness resource library
type Service interface {
	// List returns the resources matching a type filter and a search query
	List(ctx context.Context, input *ListInput) (*ListOutput, error)

	// Counts returns the per-type counters shown on the filter buttons
	Counts(ctx context.Context) (*CountsOutput, error)
}
