package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resourceCmd = &cobra.Command{
	Use:     "resource",
	Short:   "Add and remove resources",
	GroupID: "define",
}

var resourceCreateCmd = &cobra.Command{
	Use:   "create <project-slug> <name>",
	Short: "Add a resource to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := mockifyClient.CreateResource(context.Background(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("creating resource: %w", err)
		}
		if jsonOutput {
			printJSON(r)
			return nil
		}
		fmt.Printf("Created resource %s (%s)\n", r.Name, r.ID)
		return nil
	},
}

var resourceDeleteCmd = &cobra.Command{
	Use:   "delete <resource-id>",
	Short: "Delete a resource and all of its endpoints",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mockifyClient.DeleteResource(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting resource: %w", err)
		}
		fmt.Printf("Deleted resource %s\n", args[0])
		return nil
	},
}

func init() {
	resourceCmd.AddCommand(resourceCreateCmd)
	resourceCmd.AddCommand(resourceDeleteCmd)
}
