// Package memory implements store.Store in process memory. It backs the
// server when no database URL is configured and is handy in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iamtinsae/mockify/internal/model"
	"github.com/iamtinsae/mockify/internal/store"
)

// MemoryStore holds every record in maps guarded by a single mutex.
// Records are copied on the way in and out so callers never share state.
type MemoryStore struct {
	mu        sync.RWMutex
	projects  map[string]*model.Project
	resources map[string]*model.Resource
	endpoints map[string]*model.Endpoint
	nextField int64
}

var _ store.Store = (*MemoryStore)(nil)

// New returns an empty MemoryStore.
func New() *MemoryStore {
	return &MemoryStore{
		projects:  make(map[string]*model.Project),
		resources: make(map[string]*model.Resource),
		endpoints: make(map[string]*model.Endpoint),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

// RunInTransaction runs fn against a private copy of the store and adopts
// the copy only when fn succeeds. Other callers block until it returns, and
// fn must use tx rather than s.
func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.clone()
	if err := fn(tx); err != nil {
		return err
	}
	s.projects, s.resources, s.endpoints, s.nextField = tx.projects, tx.resources, tx.endpoints, tx.nextField
	return nil
}

// clone deep-copies every record. Caller must hold s.mu.
func (s *MemoryStore) clone() *MemoryStore {
	c := New()
	for id, p := range s.projects {
		cp := *p
		c.projects[id] = &cp
	}
	for id, r := range s.resources {
		cp := *r
		c.resources[id] = &cp
	}
	for id, e := range s.endpoints {
		c.endpoints[id] = copyEndpoint(e)
	}
	c.nextField = s.nextField
	return c
}

func (s *MemoryStore) CreateProject(ctx context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[p.ID]; ok {
		return fmt.Errorf("%w: project id %s", store.ErrConflict, p.ID)
	}
	for _, existing := range s.projects {
		if existing.Slug == p.Slug {
			return fmt.Errorf("%w: slug %s", store.ErrConflict, p.Slug)
		}
	}
	cp := *p
	cp.Resources = nil
	s.projects[p.ID] = &cp
	return nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.projects {
		if p.Slug == slug {
			return s.tree(p), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *MemoryStore) ListProjects(ctx context.Context, creatorID string) ([]*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Project
	for _, p := range s.projects {
		if p.CreatorID == creatorID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) ListAllProjects(ctx context.Context) ([]*model.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, s.tree(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (s *MemoryStore) CreateResource(ctx context.Context, r *model.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[r.ProjectID]; !ok {
		return fmt.Errorf("%w: project %s", store.ErrNotFound, r.ProjectID)
	}
	if _, ok := s.resources[r.ID]; ok {
		return fmt.Errorf("%w: resource id %s", store.ErrConflict, r.ID)
	}
	for _, existing := range s.resources {
		if existing.ProjectID == r.ProjectID && existing.Name == r.Name {
			return fmt.Errorf("%w: resource %s", store.ErrConflict, r.Name)
		}
	}
	cp := *r
	cp.Endpoints = nil
	s.resources[r.ID] = &cp
	return nil
}

func (s *MemoryStore) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resources[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) DeleteResource(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.resources, id)
	for eid, e := range s.endpoints {
		if e.ResourceID == id {
			delete(s.endpoints, eid)
		}
	}
	return nil
}

func (s *MemoryStore) CreateEndpoint(ctx context.Context, e *model.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[e.ResourceID]; !ok {
		return fmt.Errorf("%w: resource %s", store.ErrNotFound, e.ResourceID)
	}
	if _, ok := s.endpoints[e.ID]; ok {
		return fmt.Errorf("%w: endpoint id %s", store.ErrConflict, e.ID)
	}
	for _, existing := range s.endpoints {
		if existing.ResourceID == e.ResourceID && existing.Route == e.Route && existing.Method == e.Method {
			return fmt.Errorf("%w: %s %s", store.ErrConflict, e.Method, e.Route)
		}
	}

	for i := range e.Schemas {
		s.nextField++
		e.Schemas[i].ID = s.nextField
		e.Schemas[i].EndpointID = e.ID
		e.Schemas[i].Position = i
	}
	s.endpoints[e.ID] = copyEndpoint(e)
	return nil
}

func (s *MemoryStore) GetEndpoint(ctx context.Context, id string) (*model.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.endpoints[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return copyEndpoint(e), nil
}

func (s *MemoryStore) DeleteEndpoint(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.endpoints[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.endpoints, id)
	return nil
}

// FindEndpoint returns the earliest-created endpoint matching key, or
// (nil, nil) when nothing matches.
func (s *MemoryStore) FindEndpoint(ctx context.Context, key model.EndpointKey) (*model.Endpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *model.Endpoint
	for _, e := range s.endpoints {
		if e.Route != key.Route || e.Method != key.Method {
			continue
		}
		r, ok := s.resources[e.ResourceID]
		if !ok || r.Name != key.ResourceName {
			continue
		}
		p, ok := s.projects[r.ProjectID]
		if !ok || p.Slug != key.ProjectSlug {
			continue
		}
		if best == nil || createdBefore(e.CreatedAt, e.ID, best.CreatedAt, best.ID) {
			best = e
		}
	}
	if best == nil {
		return nil, nil
	}
	return copyEndpoint(best), nil
}

// tree builds a deep copy of p with its resources and endpoints attached.
// Caller must hold s.mu.
func (s *MemoryStore) tree(p *model.Project) *model.Project {
	cp := *p
	cp.Resources = nil
	for _, r := range s.resources {
		if r.ProjectID != p.ID {
			continue
		}
		rc := *r
		rc.Endpoints = nil
		for _, e := range s.endpoints {
			if e.ResourceID == r.ID {
				rc.Endpoints = append(rc.Endpoints, copyEndpoint(e))
			}
		}
		sort.Slice(rc.Endpoints, func(i, j int) bool {
			a, b := rc.Endpoints[i], rc.Endpoints[j]
			return createdBefore(a.CreatedAt, a.ID, b.CreatedAt, b.ID)
		})
		cp.Resources = append(cp.Resources, &rc)
	}
	sort.Slice(cp.Resources, func(i, j int) bool {
		return createdBefore(cp.Resources[i].CreatedAt, cp.Resources[i].ID, cp.Resources[j].CreatedAt, cp.Resources[j].ID)
	})
	return &cp
}

func copyEndpoint(e *model.Endpoint) *model.Endpoint {
	cp := *e
	cp.Schemas = append([]model.SchemaField{}, e.Schemas...)
	if e.ListLimit != nil {
		n := *e.ListLimit
		cp.ListLimit = &n
	}
	return &cp
}

// createdBefore orders by creation time, then id.
func createdBefore(at time.Time, id string, bt time.Time, bid string) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return id < bid
}
