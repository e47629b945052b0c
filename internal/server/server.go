package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iamtinsae/mockify/internal/events"
	"github.com/iamtinsae/mockify/internal/mock"
	"github.com/iamtinsae/mockify/internal/store"
)

// CreatorHeader carries the id of the user who owns admin resources.
const CreatorHeader = "X-Mockify-User"

// AnonymousCreator owns resources created without CreatorHeader.
const AnonymousCreator = "anonymous"

// MockServer serves mock endpoints and the admin API that defines them.
type MockServer struct {
	store     store.Store
	engine    *mock.Engine
	publisher events.Publisher
	hub       *eventHub
}

// NewMockServer returns a MockServer backed by the given store, engine and publisher.
func NewMockServer(s store.Store, e *mock.Engine, p events.Publisher) *MockServer {
	if p == nil {
		p = &events.NoopPublisher{}
	}
	return &MockServer{
		store:     s,
		engine:    e,
		publisher: p,
		hub:       newEventHub(),
	}
}

// publish sends an event to the bus and to connected stream clients.
// Failures are logged and never reach the caller.
func (s *MockServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event for stream", "topic", topic, "error", err)
		return
	}
	s.hub.broadcast(topic, payload)
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// creatorFrom returns the requesting user's id.
func creatorFrom(r *http.Request) string {
	if v := r.Header.Get(CreatorHeader); v != "" {
		return v
	}
	return AnonymousCreator
}
