// Package mock resolves inbound mock requests to stored endpoint definitions
// and shapes the synthesized response.
package mock

import (
	"context"
	"errors"
	"fmt"

	"github.com/iamtinsae/mockify/internal/model"
)

// ErrNotFound is returned when no endpoint matches a lookup key. It does not
// say which part of the key failed to match.
var ErrNotFound = errors.New("end point not found")

// Key identifies an endpoint from the outside.
type Key = model.EndpointKey

// EndpointFinder looks up an endpoint, with its ordered schema fields, by
// exact match on all four key components. It returns (nil, nil) when nothing
// matches. When several endpoints match it returns the first in its own
// stable order.
type EndpointFinder interface {
	FindEndpoint(ctx context.Context, key Key) (*model.Endpoint, error)
}

// Resolver maps lookup keys to endpoints.
type Resolver struct {
	finder EndpointFinder
}

// NewResolver returns a Resolver reading from f.
func NewResolver(f EndpointFinder) *Resolver {
	return &Resolver{finder: f}
}

// Resolve returns the endpoint matching key. An empty route means "/".
// Missing projects, resources and endpoints all return ErrNotFound; store
// failures are returned wrapped and are not ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, key Key) (*model.Endpoint, error) {
	if key.Route == "" {
		key.Route = "/"
	}
	if key.ProjectSlug == "" || key.ResourceName == "" || !key.Method.IsValid() {
		return nil, ErrNotFound
	}

	ep, err := r.finder.FindEndpoint(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("find endpoint: %w", err)
	}
	if ep == nil {
		return nil, ErrNotFound
	}
	return ep, nil
}
