package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ringstats-backend/apiclient"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the API is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := client.Health(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), h)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", goodStyle.Render(h.Message), dimStyle.Render(h.Environment+" "+h.Timestamp))
		return nil
	},
}

var wrestlersCmd = &cobra.Command{
	Use:     "wrestlers",
	Aliases: []string{"ls"},
	Short:   "List wrestlers",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		ws, err := client.Wrestlers(cmd.Context(), search)
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

var wrestlerCmd = &cobra.Command{
	Use:   "wrestler <id>",
	Short: "Show one wrestler with career statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := client.Wrestler(ctx, args[0])
		if errors.Is(err, apiclient.ErrNotFound) {
			return fmt.Errorf("wrestler %s not found", args[0])
		}
		if err != nil {
			return err
		}
		stats, err := client.WrestlerStats(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{"wrestler": w, "stats": stats})
		}
		renderWrestler(cmd.OutOrStdout(), w, stats)
		return nil
	},
}

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show today's featured wrestler",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := client.Daily(cmd.Context())
		if errors.Is(err, apiclient.ErrNotFound) {
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("No wrestler scheduled for today."))
			return nil
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), w)
		}
		fmt.Fprintln(cmd.OutOrStdout(), wrestlerLine(w))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd, wrestlersCmd, wrestlerCmd, dailyCmd)
	wrestlersCmd.Flags().String("search", "", "case-insensitive name substring")
}
