package server

import "context"

// HealthService defines behaviour for readiness probes. The identity
// resolver satisfies it by probing its store.
type HealthService interface {
	Probe(ctx context.Context) error
}
