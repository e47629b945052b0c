package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iamtinsae/mockify/internal/client"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Short:   "Create and inspect projects",
	GroupID: "define",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slug, _ := cmd.Flags().GetString("slug")
		desc, _ := cmd.Flags().GetString("description")

		p, err := mockifyClient.CreateProject(context.Background(), &client.CreateProjectRequest{
			Name:        args[0],
			Slug:        slug,
			Description: desc,
		})
		if err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		if jsonOutput {
			printJSON(p)
			return nil
		}
		fmt.Printf("Created project %s (%s)\n", p.Slug, p.ID)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := mockifyClient.ListProjects(context.Background())
		if err != nil {
			return fmt.Errorf("listing projects: %w", err)
		}
		if jsonOutput {
			printJSON(projects)
			return nil
		}
		printProjectList(os.Stdout, projects)
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Show a project with its resources and endpoints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := mockifyClient.GetProject(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("getting project: %w", err)
		}
		if jsonOutput {
			printJSON(p)
			return nil
		}
		printProjectTree(os.Stdout, p)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().String("slug", "", "URL slug (derived from the name when empty)")
	projectCreateCmd.Flags().String("description", "", "project description")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
}
