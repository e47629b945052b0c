package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/iamtinsae/mockify/internal/mock"
	"github.com/iamtinsae/mockify/internal/model"
	"github.com/iamtinsae/mockify/internal/store/memory"
)

// mockStore is an in-memory store with injectable failures.
type mockStore struct {
	*memory.MemoryStore
	findErr error
	pingErr error
}

func (m *mockStore) FindEndpoint(ctx context.Context, key mock.Key) (*model.Endpoint, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.MemoryStore.FindEndpoint(ctx, key)
}

func (m *mockStore) Ping(ctx context.Context) error { return m.pingErr }

// recordingPublisher keeps every published topic.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

type testEnv struct {
	srv     *MockServer
	store   *mockStore
	pub     *recordingPublisher
	handler http.Handler
}

func newTestEnv(t *testing.T, authToken string, opts ...mock.EngineOption) *testEnv {
	t.Helper()
	ms := &mockStore{MemoryStore: memory.New()}
	pub := &recordingPublisher{}
	engine := mock.NewEngine(mock.NewResolver(ms), opts...)
	srv := NewMockServer(ms, engine, pub)
	return &testEnv{srv: srv, store: ms, pub: pub, handler: srv.NewHTTPHandler(authToken)}
}

// do sends a request as the given user and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set(CreatorHeader, user)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// seedDemo writes project "demo" owned by alice with resource "users" and
// the given endpoints.
func (e *testEnv) seedDemo(t *testing.T, endpoints ...*model.Endpoint) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	if err := e.store.CreateProject(ctx, &model.Project{ID: "prj-1", Name: "Demo", Slug: "demo", CreatorID: "alice", CreatedAt: now}); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := e.store.CreateResource(ctx, &model.Resource{ID: "res-1", ProjectID: "prj-1", Name: "users", CreatedAt: now}); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	for _, ep := range endpoints {
		ep.ResourceID = "res-1"
		ep.CreatedAt = now
		if err := e.store.CreateEndpoint(ctx, ep); err != nil {
			t.Fatalf("CreateEndpoint: %v", err)
		}
	}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v (body=%q)", err, rec.Body.String())
	}
}

func fields(pairs ...string) []model.SchemaField {
	var out []model.SchemaField
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, model.SchemaField{Name: pairs[i], Type: model.SemanticType(pairs[i+1])})
	}
	return out
}

var errTest = errors.New("test failure")

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
