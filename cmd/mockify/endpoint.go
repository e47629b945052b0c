package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iamtinsae/mockify/internal/client"
	"github.com/iamtinsae/mockify/internal/model"
)

var endpointCmd = &cobra.Command{
	Use:     "endpoint",
	Short:   "Add and remove endpoints",
	GroupID: "define",
}

var endpointCreateCmd = &cobra.Command{
	Use:   "create <resource-id>",
	Short: "Add an endpoint to a resource",
	Long: `Add an endpoint to a resource.

Each --field is name:TYPE, where TYPE is one of:
  ` + typeList() + `

Example:
  mockify endpoint create res-1a2b3c4d5e --route / --method GET --list \
    --field id:ID --field name:NAME --field born:DATE`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		route, _ := cmd.Flags().GetString("route")
		method, _ := cmd.Flags().GetString("method")
		isList, _ := cmd.Flags().GetBool("list")
		rawFields, _ := cmd.Flags().GetStringArray("field")

		fields, err := parseFields(rawFields)
		if err != nil {
			return err
		}

		req := &client.CreateEndpointRequest{
			Name:    name,
			Route:   route,
			Method:  strings.ToUpper(method),
			IsList:  isList,
			Schemas: fields,
		}
		if cmd.Flags().Changed("list-limit") {
			n, _ := cmd.Flags().GetInt("list-limit")
			req.ListLimit = &n
		}

		e, err := mockifyClient.CreateEndpoint(context.Background(), args[0], req)
		if err != nil {
			return fmt.Errorf("creating endpoint: %w", err)
		}
		if jsonOutput {
			printJSON(e)
			return nil
		}
		fmt.Printf("Created endpoint %s\n", e.ID)
		printEndpointLine(os.Stdout, "<project>", "<resource>", e)
		return nil
	},
}

var endpointDeleteCmd = &cobra.Command{
	Use:   "delete <endpoint-id>",
	Short: "Delete an endpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mockifyClient.DeleteEndpoint(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting endpoint: %w", err)
		}
		fmt.Printf("Deleted endpoint %s\n", args[0])
		return nil
	},
}

// parseFields parses name:TYPE pairs. Type names are matched case-insensitively
// and checked against the semantic type registry.
func parseFields(raw []string) ([]client.SchemaField, error) {
	fields := make([]client.SchemaField, 0, len(raw))
	for _, s := range raw {
		name, typ, ok := strings.Cut(s, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q: expected name:TYPE", s)
		}
		t, err := model.ParseSemanticType(strings.ToUpper(strings.TrimSpace(typ)))
		if err != nil {
			return nil, fmt.Errorf("invalid field %q: %w", s, err)
		}
		fields = append(fields, client.SchemaField{Name: name, Type: t.String()})
	}
	return fields, nil
}

func typeList() string {
	types := model.SemanticTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}

func init() {
	endpointCreateCmd.Flags().String("name", "", "endpoint name")
	endpointCreateCmd.Flags().String("route", "/", "route below the resource, e.g. / or /all")
	endpointCreateCmd.Flags().String("method", "GET", "HTTP method")
	endpointCreateCmd.Flags().Bool("list", false, "respond with a list of records")
	endpointCreateCmd.Flags().Int("list-limit", 0, "list limit stored with the endpoint")
	endpointCreateCmd.Flags().StringArray("field", nil, "schema field as name:TYPE (repeatable)")

	endpointCmd.AddCommand(endpointCreateCmd)
	endpointCmd.AddCommand(endpointDeleteCmd)
}
