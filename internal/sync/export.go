package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/iamtinsae/mockify/internal/model"
)

// ExportVersion is the format version written in the header line.
const ExportVersion = "1"

// ProjectLister is the part of store.Store an export reads from.
type ProjectLister interface {
	ListAllProjects(ctx context.Context) ([]*model.Project, error)
}

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	ProjectCount  int       `json:"project_count"`
	ResourceCount int       `json:"resource_count"`
	EndpointCount int       `json:"endpoint_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes a header line followed by one line per project, each
// carrying the project's full tree of resources, endpoints and schemas.
// Projects are sorted by slug.
func ExportJSONL(ctx context.Context, s ProjectLister, w io.Writer) error {
	projects, err := s.ListAllProjects(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Slug < projects[j].Slug
	})

	h := header{
		Version:      ExportVersion,
		Type:         "header",
		Timestamp:    time.Now().UTC(),
		ProjectCount: len(projects),
	}
	for _, p := range projects {
		h.ResourceCount += len(p.Resources)
		for _, r := range p.Resources {
			h.EndpointCount += len(r.Endpoints)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	for _, p := range projects {
		if err := enc.Encode(record{Type: "project", Data: p}); err != nil {
			return fmt.Errorf("encode project %s: %w", p.Slug, err)
		}
	}
	return nil
}
