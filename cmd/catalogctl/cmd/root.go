package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/imgcatalog/backend/internal/client"
	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8080"

var (
	flagJSON      bool
	flagServerURL string

	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "catalogctl manages a catalog server from the terminal",
	Long: `catalogctl lists and edits categories, products and users on a
catalog server, and uploads images to its remote store.

  catalogctl categories ls          List categories
  catalogctl products ls            List products
  catalogctl upload banner.png      Upload an image`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		apiClient = client.NewClient(serverURL())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagServerURL, "server", "", "Server URL (default: $CATALOG_SERVER or "+defaultServerURL+")")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func serverURL() string {
	if flagServerURL != "" {
		return flagServerURL
	}
	if env := os.Getenv("CATALOG_SERVER"); env != "" {
		return env
	}
	return defaultServerURL
}

func parseIDArg(value string) (uint, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return uint(id), nil
}
