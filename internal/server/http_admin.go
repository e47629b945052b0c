package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iamtinsae/mockify/internal/events"
	"github.com/iamtinsae/mockify/internal/idgen"
	"github.com/iamtinsae/mockify/internal/model"
	"github.com/iamtinsae/mockify/internal/store"
)

type createProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

type createResourceInput struct {
	Name string `json:"name"`
}

type schemaFieldInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type createEndpointInput struct {
	Name      string             `json:"name"`
	Route     string             `json:"route"`
	Method    string             `json:"method"`
	IsList    bool               `json:"is_list"`
	ListLimit *int               `json:"list_limit"`
	Schemas   []schemaFieldInput `json:"schemas"`
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return inputError("invalid JSON body: " + err.Error())
	}
	return nil
}

// handleCreateProject handles POST /_admin/v1/projects.
func (s *MockServer) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in createProjectInput
	if err := decodeBody(r, &in); err != nil {
		writeAdminError(w, err, "project")
		return
	}

	p, err := s.createProject(r.Context(), creatorFrom(r), in)
	if err != nil {
		writeAdminError(w, err, "project")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *MockServer) createProject(ctx context.Context, creator string, in createProjectInput) (*model.Project, error) {
	p := &model.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Slug:        in.Slug,
		CreatorID:   creator,
		CreatedAt:   time.Now().UTC(),
		Resources:   []*model.Resource{},
	}
	if err := model.ValidateProject(p); err != nil {
		return nil, err
	}

	var err error
	if p.ID, err = idgen.ProjectID(); err != nil {
		return nil, err
	}
	if p.Slug == "" {
		if p.Slug, err = idgen.Slug(p.Name); err != nil {
			return nil, err
		}
	}

	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	s.publish(ctx, events.TopicProjectCreated, events.ProjectCreated{Project: p})
	return p, nil
}

// handleListProjects handles GET /_admin/v1/projects.
func (s *MockServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context(), creatorFrom(r))
	if err != nil {
		writeAdminError(w, err, "projects")
		return
	}
	if projects == nil {
		projects = []*model.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// handleGetProject handles GET /_admin/v1/projects/{slug}. Projects owned by
// someone else are reported as not found.
func (s *MockServer) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.ownedProjectBySlug(r.Context(), r.PathValue("slug"), creatorFrom(r))
	if err != nil {
		writeAdminError(w, err, "project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleCreateResource handles POST /_admin/v1/projects/{slug}/resources.
func (s *MockServer) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var in createResourceInput
	if err := decodeBody(r, &in); err != nil {
		writeAdminError(w, err, "resource")
		return
	}

	ctx := r.Context()
	p, err := s.ownedProjectBySlug(ctx, r.PathValue("slug"), creatorFrom(r))
	if err != nil {
		writeAdminError(w, err, "project")
		return
	}

	res := &model.Resource{
		ProjectID: p.ID,
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: time.Now().UTC(),
		Endpoints: []*model.Endpoint{},
	}
	if err := model.ValidateResource(res); err != nil {
		writeAdminError(w, err, "resource")
		return
	}
	if res.ID, err = idgen.ResourceID(); err != nil {
		writeAdminError(w, err, "resource")
		return
	}
	if err := s.store.CreateResource(ctx, res); err != nil {
		writeAdminError(w, err, "resource")
		return
	}

	s.publish(ctx, events.TopicResourceCreated, events.ResourceCreated{ProjectSlug: p.Slug, Resource: res})
	writeJSON(w, http.StatusCreated, res)
}

// handleDeleteResource handles DELETE /_admin/v1/resources/{id}.
func (s *MockServer) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if _, err := s.ownedResource(ctx, id, creatorFrom(r)); err != nil {
		writeAdminError(w, err, "resource")
		return
	}
	if err := s.store.DeleteResource(ctx, id); err != nil {
		writeAdminError(w, err, "resource")
		return
	}

	s.publish(ctx, events.TopicResourceDeleted, events.ResourceDeleted{ResourceID: id})
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateEndpoint handles POST /_admin/v1/resources/{id}/endpoints.
func (s *MockServer) handleCreateEndpoint(w http.ResponseWriter, r *http.Request) {
	var in createEndpointInput
	if err := decodeBody(r, &in); err != nil {
		writeAdminError(w, err, "endpoint")
		return
	}

	ctx := r.Context()
	res, err := s.ownedResource(ctx, r.PathValue("id"), creatorFrom(r))
	if err != nil {
		writeAdminError(w, err, "resource")
		return
	}

	e := &model.Endpoint{
		ResourceID: res.ID,
		Name:       strings.TrimSpace(in.Name),
		Route:      model.NormalizeRoute(in.Route),
		Method:     model.HTTPMethod(in.Method),
		IsList:     in.IsList,
		ListLimit:  in.ListLimit,
		Schemas:    make([]model.SchemaField, 0, len(in.Schemas)),
		CreatedAt:  time.Now().UTC(),
	}
	for _, f := range in.Schemas {
		e.Schemas = append(e.Schemas, model.SchemaField{Name: f.Name, Type: model.SemanticType(f.Type)})
	}
	if err := model.ValidateEndpoint(e); err != nil {
		writeAdminError(w, err, "endpoint")
		return
	}
	if e.ID, err = idgen.EndpointID(); err != nil {
		writeAdminError(w, err, "endpoint")
		return
	}
	if err := s.store.CreateEndpoint(ctx, e); err != nil {
		writeAdminError(w, err, "endpoint")
		return
	}

	s.publish(ctx, events.TopicEndpointCreated, events.EndpointCreated{Endpoint: e})
	writeJSON(w, http.StatusCreated, e)
}

// handleDeleteEndpoint handles DELETE /_admin/v1/endpoints/{id}.
func (s *MockServer) handleDeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	e, err := s.store.GetEndpoint(ctx, id)
	if err != nil {
		writeAdminError(w, err, "endpoint")
		return
	}
	if _, err := s.ownedResource(ctx, e.ResourceID, creatorFrom(r)); err != nil {
		writeAdminError(w, err, "endpoint")
		return
	}
	if err := s.store.DeleteEndpoint(ctx, id); err != nil {
		writeAdminError(w, err, "endpoint")
		return
	}

	s.publish(ctx, events.TopicEndpointDeleted, events.EndpointDeleted{EndpointID: id})
	w.WriteHeader(http.StatusNoContent)
}

// ownedProjectBySlug loads a project tree and hides it from other creators.
func (s *MockServer) ownedProjectBySlug(ctx context.Context, slug, creator string) (*model.Project, error) {
	p, err := s.store.GetProjectBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if p.CreatorID != creator {
		return nil, fmt.Errorf("project %s: %w", slug, store.ErrNotFound)
	}
	return p, nil
}

// ownedResource loads a resource whose project belongs to creator.
func (s *MockServer) ownedResource(ctx context.Context, id, creator string) (*model.Resource, error) {
	res, err := s.store.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.store.GetProject(ctx, res.ProjectID)
	if err != nil {
		return nil, err
	}
	if p.CreatorID != creator {
		return nil, fmt.Errorf("resource %s: %w", id, store.ErrNotFound)
	}
	return res, nil
}
