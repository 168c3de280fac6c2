// Package alerts defines the boundary to the hosted secret-alert API,
// treated as an external collaborator (spec.md §1): this engine only
// needs a way to list a repository's currently-open alerts, never how
// they were fetched.
package alerts

import "context"

// Alert is one open secret-scanning alert as reported by a
// code-hosting service, shaped to match the fields pkg/snapshot needs
// to render a CSV row (original_source/secretscanning/patterns.py
// SecretScanningAlert).
type Alert struct {
	SecretType            string
	SecretTypeDisplayName string
	Secret                string
	Path                  string
	StartLine             int
	EndLine               int
	StartColumn           int
	EndColumn             int
}

// Client lists the open secret-scanning alerts for a repository.
type Client interface {
	ListOpen(ctx context.Context, repo string) ([]Alert, error)
}

// NullClient is a Client that never has any alerts, standing in for
// the out-of-scope hosted API client (spec.md §1) so callers that only
// need a concrete Client for wiring have one.
type NullClient struct{}

// ListOpen always returns an empty, non-nil slice.
func (NullClient) ListOpen(ctx context.Context, repo string) ([]Alert, error) {
	return []Alert{}, nil
}
