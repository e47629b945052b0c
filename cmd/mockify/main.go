package main

import (
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iamtinsae/mockify/internal/client"
	"github.com/iamtinsae/mockify/internal/ui"
)

var (
	httpURL    string
	authToken  string
	user       string
	jsonOutput bool

	mockifyClient client.MockifyClient
)

// defaultUser prefers MOCKIFY_USER, then the git user name.
func defaultUser() string {
	if s := os.Getenv("MOCKIFY_USER"); s != "" {
		return s
	}
	if u := activeRemoteUser(); u != "" {
		return u
	}
	out, err := exec.Command("git", "config", "user.name").Output()
	if err == nil {
		return strings.TrimSpace(string(out))
	}
	return ""
}

func defaultHTTPURL() string {
	if s := os.Getenv("MOCKIFY_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("MOCKIFY_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:           "mockify <command>",
	Short:         "Define mock REST APIs and serve fake data for them",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		mockifyClient = client.NewHTTPClient(httpURL, authToken, user)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if mockifyClient != nil {
			mockifyClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "url", defaultHTTPURL(), "mockify server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for the admin API")
	rootCmd.PersistentFlags().StringVar(&user, "user", defaultUser(), "identity that owns created projects")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "define", Title: "Definitions:"},
		&cobra.Group{ID: "mocks", Title: "Mocks:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Definitions
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(endpointCmd)

	// Mocks
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
