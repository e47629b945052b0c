package model

import (
	"strings"
	"time"
)

// Project is the root of a mock API definition. Its slug is the first path
// segment of every mock request.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Slug        string    `json:"slug"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated by tree queries, not stored in the projects table.
	Resources []*Resource `json:"resources,omitempty"`
}

// Resource groups endpoints under a project. Its name is the second path
// segment of every mock request.
type Resource struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Endpoints []*Endpoint `json:"endpoints,omitempty"`
}

// Endpoint is a route and method under a resource together with the schema
// used to synthesize its responses.
type Endpoint struct {
	ID         string     `json:"id"`
	ResourceID string     `json:"resource_id"`
	Name       string     `json:"name"`
	Route      string     `json:"route"`
	Method     HTTPMethod `json:"method"`
	IsList     bool       `json:"is_list"`
	// ListLimit is stored metadata only; list responses do not use it.
	ListLimit *int          `json:"list_limit,omitempty"`
	Schemas   []SchemaField `json:"schemas"`
	CreatedAt time.Time     `json:"created_at"`
}

// SchemaField declares one key of a synthesized record.
type SchemaField struct {
	ID         int64        `json:"id,omitempty"`
	EndpointID string       `json:"endpoint_id,omitempty"`
	Name       string       `json:"name"`
	Type       SemanticType `json:"type"`
	Position   int          `json:"position"`
}

// NormalizeRoute maps an empty route to "/" and ensures a leading slash.
// Trailing slashes and everything else are kept as given.
func NormalizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	if !strings.HasPrefix(route, "/") {
		return "/" + route
	}
	return route
}

// EndpointKey identifies an endpoint from the outside: the project slug and
// resource name from the URL, the route after them, and the HTTP method.
type EndpointKey struct {
	ProjectSlug  string
	ResourceName string
	Route        string
	Method       HTTPMethod
}
