package store

import (
	"context"
	"errors"

	"github.com/iamtinsae/mockify/internal/model"
)

var (
	// ErrNotFound is returned when a record addressed by id or slug does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would violate a uniqueness constraint.
	ErrConflict = errors.New("conflict")
)

// Store defines the persistence interface for mock API definitions.
// Deleting a project, resource or endpoint removes everything under it.
type Store interface {
	// Projects
	CreateProject(ctx context.Context, project *model.Project) error
	GetProject(ctx context.Context, id string) (*model.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error) // includes resources, endpoints and schemas
	ListProjects(ctx context.Context, creatorID string) ([]*model.Project, error)
	ListAllProjects(ctx context.Context) ([]*model.Project, error) // full trees, for export

	// Resources
	CreateResource(ctx context.Context, resource *model.Resource) error
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	DeleteResource(ctx context.Context, id string) error

	// Endpoints
	CreateEndpoint(ctx context.Context, endpoint *model.Endpoint) error // stores schemas too
	GetEndpoint(ctx context.Context, id string) (*model.Endpoint, error)
	DeleteEndpoint(ctx context.Context, id string) error

	// Mock lookup. FindEndpoint matches all four key components exactly and
	// returns (nil, nil) when nothing matches.
	FindEndpoint(ctx context.Context, key model.EndpointKey) (*model.Endpoint, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
