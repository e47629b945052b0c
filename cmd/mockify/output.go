package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/iamtinsae/mockify/internal/model"
	"github.com/iamtinsae/mockify/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printProjectList(w io.Writer, projects []*model.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "no projects")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tNAME\tID\tCREATED")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			p.Slug,
			ui.Truncate(p.Name, 40),
			ui.RenderMuted(p.ID),
			p.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d projects\n", len(projects))
}

// printProjectTree prints a project with every resource and endpoint, each
// endpoint shown with the mock URL path it answers on.
func printProjectTree(w io.Writer, p *model.Project) {
	fmt.Fprintf(w, "%s %s\n", ui.RenderAccent(p.Slug), ui.RenderMuted("("+p.ID+")"))
	if p.Name != "" {
		fmt.Fprintf(w, "  name:        %s\n", p.Name)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "  description: %s\n", p.Description)
	}
	fmt.Fprintf(w, "  creator:     %s\n", p.CreatorID)

	if len(p.Resources) == 0 {
		fmt.Fprintln(w, "\n  no resources")
		return
	}
	for _, r := range p.Resources {
		fmt.Fprintf(w, "\n  %s %s\n", r.Name, ui.RenderMuted("("+r.ID+")"))
		for _, e := range r.Endpoints {
			printEndpointLine(w, p.Slug, r.Name, e)
		}
	}
}

func printEndpointLine(w io.Writer, projectSlug, resourceName string, e *model.Endpoint) {
	shape := "single"
	if e.IsList {
		shape = "list"
	}
	fmt.Fprintf(w, "    %s /%s/%s%s  %s %s\n",
		ui.RenderMethod(string(e.Method)),
		projectSlug, resourceName, e.Route,
		ui.RenderMuted(shape),
		ui.RenderMuted(e.ID),
	)
	for _, f := range e.Schemas {
		fmt.Fprintf(w, "           %-16s %s\n", f.Name, f.Type)
	}
}
