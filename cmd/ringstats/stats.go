package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ringstats-backend/models"
	"ringstats-backend/wrestlers"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show collection-wide statistics",
	Long: `Fetch the collection and compute the dashboard locally.

With --server the dashboard computed (and cached) by the API is shown instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, _ := cmd.Flags().GetBool("server")

		var d *wrestlers.Dashboard
		if server {
			var err error
			if d, err = client.Dashboard(cmd.Context()); err != nil {
				return err
			}
		} else {
			ws, err := client.Wrestlers(cmd.Context(), "")
			if err != nil {
				return err
			}
			d = wrestlers.ComputeDashboard(ws)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"dashboard": d})
		}
		renderDashboard(cmd.OutOrStdout(), d)
		return nil
	},
}

var filterFlags = []struct {
	flag, key, usage string
}{
	{"name", "name", "name or nickname substring"},
	{"promotion", "promotion", "exact promotion"},
	{"brand", "brand", "exact brand"},
	{"min-rating", "minRating", "lowest average rating"},
	{"max-rating", "maxRating", "highest average rating"},
	{"min-age", "minAge", "lowest age"},
	{"max-age", "maxAge", "highest age"},
	{"experience", "experience", "exact experience band"},
	{"style", "wrestlingStyle", "exact wrestling style"},
	{"hometown", "hometown", "exact hometown"},
}

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Advanced search over the collection",
	Long: `Apply the advanced filter to the collection. Empty fields do not
constrain the result and unparseable numeric bounds are ignored.

Examples:
  ringstats filter --promotion WWE --min-age 30 --max-age 40
  ringstats filter --name rainmaker
  ringstats filter --options           # Show dropdown values`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if showOptions, _ := cmd.Flags().GetBool("options"); showOptions {
			opts, err := client.FilterOptions(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), opts)
			}
			renderOptions(cmd, opts)
			return nil
		}

		values := map[string]string{}
		for _, f := range filterFlags {
			v, _ := cmd.Flags().GetString(f.flag)
			values[f.key] = v
		}
		filter := wrestlers.FilterFromQuery(func(key string) string { return values[key] })

		var (
			ws  []models.Wrestler
			err error
		)
		if server, _ := cmd.Flags().GetBool("server"); server {
			ws, err = client.Filter(ctx, filter)
		} else {
			ws, err = client.Wrestlers(ctx, "")
			ws = filter.Apply(ws)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), ws)
		}
		renderWrestlers(cmd.OutOrStdout(), ws)
		return nil
	},
}

func renderOptions(cmd *cobra.Command, opts wrestlers.FilterOptions) {
	out := cmd.OutOrStdout()
	groups := []struct {
		title  string
		values []string
	}{
		{"Promotions", opts.Promotions},
		{"Brands", opts.Brands},
		{"Experience", opts.Experiences},
		{"Wrestling styles", opts.WrestlingStyles},
		{"Hometowns", opts.Hometowns},
	}
	for _, g := range groups {
		fmt.Fprintln(out, sectionStyle.Render(g.title))
		for _, v := range g.values {
			fmt.Fprintf(out, "  %s\n", v)
		}
	}
}

func init() {
	rootCmd.AddCommand(dashboardCmd, filterCmd)
	dashboardCmd.Flags().Bool("server", false, "use the dashboard computed by the API")

	for _, f := range filterFlags {
		filterCmd.Flags().String(f.flag, "", f.usage)
	}
	filterCmd.Flags().Bool("server", false, "run the filter on the API")
	filterCmd.Flags().Bool("options", false, "list the values offered for each field")
}
