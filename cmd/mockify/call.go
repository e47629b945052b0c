package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iamtinsae/mockify/internal/ui"
)

var callCmd = &cobra.Command{
	Use:   "call [METHOD] <path>",
	Short: "Call a mock endpoint and print the response",
	Long: `Call a mock endpoint and print the response.

The path is /<project-slug>/<resource-name>/<route>, for example:
  mockify call /demo-1a2b3c4d/users/
  mockify call POST /demo-1a2b3c4d/users/all`,
	GroupID: "mocks",
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		method, path := http.MethodGet, args[0]
		if len(args) == 2 {
			method, path = strings.ToUpper(args[0]), args[1]
		}

		res, err := mockifyClient.Call(context.Background(), method, path)
		if err != nil {
			return fmt.Errorf("calling mock: %w", err)
		}

		if !jsonOutput {
			fmt.Fprintf(os.Stderr, "%s %s -> %s\n", ui.RenderMethod(method), path, ui.RenderStatus(res.Status))
		}
		var pretty bytes.Buffer
		if json.Indent(&pretty, res.Body, "", "  ") == nil {
			fmt.Println(pretty.String())
		} else {
			fmt.Println(string(res.Body))
		}
		if res.Status >= 400 {
			return fmt.Errorf("mock responded %d", res.Status)
		}
		return nil
	},
}
