// Package seed loads mock API definitions from a YAML file and writes them
// through a store.Store, so a server can start with endpoints already defined.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iamtinsae/mockify/internal/idgen"
	"github.com/iamtinsae/mockify/internal/model"
	"github.com/iamtinsae/mockify/internal/store"
)

// DefaultCreator owns seeded projects that do not name a creator.
const DefaultCreator = "seed"

// File is the top-level document.
type File struct {
	Projects []Project `yaml:"projects"`
}

type Project struct {
	Name        string     `yaml:"name"`
	Slug        string     `yaml:"slug"`
	Description string     `yaml:"description"`
	Creator     string     `yaml:"creator"`
	Resources   []Resource `yaml:"resources"`
}

type Resource struct {
	Name      string     `yaml:"name"`
	Endpoints []Endpoint `yaml:"endpoints"`
}

type Endpoint struct {
	Name      string  `yaml:"name"`
	Route     string  `yaml:"route"`
	Method    string  `yaml:"method"`
	List      bool    `yaml:"list"`
	ListLimit *int    `yaml:"list_limit"`
	Fields    []Field `yaml:"fields"`
}

type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Summary counts what Apply wrote.
type Summary struct {
	Projects  int
	Resources int
	Endpoints int
	Skipped   []string // slugs that already existed
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode parses a seed document. Unknown keys are rejected.
func Decode(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &f, nil
}

// Apply validates every definition and writes each project, with its
// resources and endpoints, in its own transaction. A project whose slug
// already exists is skipped whole. A project that fails to write leaves
// nothing behind.
func Apply(ctx context.Context, s store.Store, f *File) (*Summary, error) {
	sum := &Summary{}
	now := time.Now().UTC()

	for i, pd := range f.Projects {
		tree, err := build(pd, now)
		if err != nil {
			return sum, fmt.Errorf("projects[%d]: %w", i, err)
		}

		if pd.Slug != "" {
			_, err := s.GetProjectBySlug(ctx, pd.Slug)
			if err == nil {
				sum.Skipped = append(sum.Skipped, pd.Slug)
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return sum, fmt.Errorf("look up project %s: %w", pd.Slug, err)
			}
		}

		err = s.RunInTransaction(ctx, func(tx store.Store) error {
			return write(ctx, tx, tree)
		})
		if err != nil {
			return sum, fmt.Errorf("project %s: %w", tree.Slug, err)
		}

		sum.Projects++
		for _, r := range tree.Resources {
			sum.Resources++
			sum.Endpoints += len(r.Endpoints)
		}
	}
	return sum, nil
}

// build converts a definition into a validated model tree with fresh ids.
func build(pd Project, now time.Time) (*model.Project, error) {
	p := &model.Project{
		Name:        pd.Name,
		Description: pd.Description,
		Slug:        pd.Slug,
		CreatorID:   pd.Creator,
		CreatedAt:   now,
	}
	if p.CreatorID == "" {
		p.CreatorID = DefaultCreator
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

	for ri, rd := range pd.Resources {
		r := &model.Resource{ProjectID: p.ID, Name: rd.Name, CreatedAt: now}
		if err := model.ValidateResource(r); err != nil {
			return nil, fmt.Errorf("resources[%d]: %w", ri, err)
		}
		if r.ID, err = idgen.ResourceID(); err != nil {
			return nil, err
		}

		for ei, ed := range rd.Endpoints {
			e := &model.Endpoint{
				ResourceID: r.ID,
				Name:       ed.Name,
				Route:      model.NormalizeRoute(ed.Route),
				Method:     model.HTTPMethod(ed.Method),
				IsList:     ed.List,
				ListLimit:  ed.ListLimit,
				Schemas:    make([]model.SchemaField, 0, len(ed.Fields)),
				CreatedAt:  now,
			}
			for _, fd := range ed.Fields {
				e.Schemas = append(e.Schemas, model.SchemaField{Name: fd.Name, Type: model.SemanticType(fd.Type)})
			}
			if err := model.ValidateEndpoint(e); err != nil {
				return nil, fmt.Errorf("resources[%d].endpoints[%d]: %w", ri, ei, err)
			}
			if e.ID, err = idgen.EndpointID(); err != nil {
				return nil, err
			}
			r.Endpoints = append(r.Endpoints, e)
		}
		p.Resources = append(p.Resources, r)
	}
	return p, nil
}

func write(ctx context.Context, tx store.Store, p *model.Project) error {
	if err := tx.CreateProject(ctx, p); err != nil {
		return err
	}
	for _, r := range p.Resources {
		if err := tx.CreateResource(ctx, r); err != nil {
			return fmt.Errorf("resource %s: %w", r.Name, err)
		}
		for _, e := range r.Endpoints {
			if err := tx.CreateEndpoint(ctx, e); err != nil {
				return fmt.Errorf("endpoint %s %s%s: %w", e.Method, r.Name, e.Route, err)
			}
		}
	}
	return nil
}
