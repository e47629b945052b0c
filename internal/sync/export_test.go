package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestExportJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), &fakeLister{projects: demoProjects()}, &buf); err != nil {
		t.Fatalf("ExportJSONL: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if h.Version != ExportVersion || h.Type != "header" {
		t.Errorf("header = %+v", h)
	}
	if h.ProjectCount != 2 || h.ResourceCount != 1 || h.EndpointCount != 2 {
		t.Errorf("counts = %d/%d/%d, want 2/1/2", h.ProjectCount, h.ResourceCount, h.EndpointCount)
	}

	// Projects follow in slug order.
	wantSlugs := []string{"demo", "zeta"}
	for i, line := range lines[1:] {
		var rec struct {
			Type string `json:"type"`
			Data struct {
				Slug string `json:"slug"`
			} `json:"data"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("decode line %d: %v", i+1, err)
		}
		if rec.Type != "project" || rec.Data.Slug != wantSlugs[i] {
			t.Errorf("line %d = %s/%s, want project/%s", i+1, rec.Type, rec.Data.Slug, wantSlugs[i])
		}
	}
}

func TestExportJSONL_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), &fakeLister{}, &buf); err != nil {
		t.Fatalf("ExportJSONL: %v", err)
	}
	if lines := nonEmptyLines(buf.String()); len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}
