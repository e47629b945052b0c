// Package client provides the interface the mockify CLI uses to talk to a
// mockify server and an HTTP/JSON implementation of it.
package client

import (
	"context"
	"encoding/json"

	"github.com/iamtinsae/mockify/internal/model"
)

// MockifyClient is the interface all CLI commands use to reach the server.
type MockifyClient interface {
	// Projects
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*model.Project, error)
	ListProjects(ctx context.Context) ([]*model.Project, error)
	GetProject(ctx context.Context, slug string) (*model.Project, error)

	// Resources
	CreateResource(ctx context.Context, projectSlug, name string) (*model.Resource, error)
	DeleteResource(ctx context.Context, id string) error

	// Endpoints
	CreateEndpoint(ctx context.Context, resourceID string, req *CreateEndpointRequest) (*model.Endpoint, error)
	DeleteEndpoint(ctx context.Context, id string) error

	// Mock calls
	Call(ctx context.Context, method, path string) (*CallResult, error)

	// Events
	StreamEvents(ctx context.Context, topics []string, fn func(Event) error) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateProjectRequest holds parameters for creating a project. An empty
// slug is derived from the name by the server.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug,omitempty"`
}

// SchemaField is one name/type pair of an endpoint schema.
type SchemaField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateEndpointRequest holds parameters for creating an endpoint.
type CreateEndpointRequest struct {
	Name      string        `json:"name"`
	Route     string        `json:"route"`
	Method    string        `json:"method"`
	IsList    bool          `json:"is_list"`
	ListLimit *int          `json:"list_limit,omitempty"`
	Schemas   []SchemaField `json:"schemas"`
}

// CallResult is the raw outcome of a mock call. Any status is a result,
// not an error.
type CallResult struct {
	Status int
	Body   json.RawMessage
}

// Event is one server-sent event from the admin event stream.
type Event struct {
	ID    string
	Topic string
	Data  json.RawMessage
}
