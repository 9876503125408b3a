package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ringstats-backend/apiclient"
)

var (
	apiURL     string
	apiToken   string
	homeDir    string
	jsonOutput bool
	client     *apiclient.Client
)

var rootCmd = &cobra.Command{
	Use:   "ringstats",
	Short: "Terminal client for the RingStats API",
	Long: `ringstats browses the RingStats wrestler collection from the terminal.

Example usage:
  ringstats wrestlers --search cody     # Search by name
  ringstats wrestler 16                 # Profile with career stats
  ringstats dashboard                   # Collection-wide statistics
  ringstats filter --promotion AEW --min-rating 9
  ringstats favorites add 16            # Save a local favorite
  ringstats news --sort top_week`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := apiclient.New(apiURL, apiclient.WithToken(apiToken))
		if err != nil {
			return fmt.Errorf("configure client: %w", err)
		}
		client = c
		return nil
	},
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("RINGSTATS_API", "http://localhost:5000/api"), "API base url")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", os.Getenv("RINGSTATS_TOKEN"), "bearer token for authenticated routes")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", defaultHome(), "directory for local client state")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultHome() string {
	if v := os.Getenv("RINGSTATS_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ringstats"
	}
	return filepath.Join(home, ".ringstats")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
