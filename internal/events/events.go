package events

import (
	"context"
	"time"

	"github.com/iamtinsae/mockify/internal/model"
)

// Event topic constants
const (
	TopicProjectCreated  = "mockify.project.created"
	TopicResourceCreated = "mockify.resource.created"
	TopicResourceDeleted = "mockify.resource.deleted"
	TopicEndpointCreated = "mockify.endpoint.created"
	TopicEndpointDeleted = "mockify.endpoint.deleted"
	TopicMockServed      = "mockify.mock.served"

	// TopicAll matches every mockify topic.
	TopicAll = "mockify.>"
)

// Event types

type ProjectCreated struct {
	Project *model.Project `json:"project"`
}

type ResourceCreated struct {
	ProjectSlug string          `json:"project_slug"`
	Resource    *model.Resource `json:"resource"`
}

type ResourceDeleted struct {
	ResourceID string `json:"resource_id"`
}

type EndpointCreated struct {
	Endpoint *model.Endpoint `json:"endpoint"`
}

type EndpointDeleted struct {
	EndpointID string `json:"endpoint_id"`
}

// MockServed is emitted once per request on the mock surface, including misses.
type MockServed struct {
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	Status     int           `json:"status"`
	EndpointID string        `json:"endpoint_id,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
