package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ringstats-backend/apiclient"
	"ringstats-backend/favorites"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage locally saved favorite wrestlers",
	Long: `Favorites are snapshots of wrestler records saved in favorites.json
under the --home directory (default $RINGSTATS_HOME or ~/.ringstats).`,
}

func openFavorites(cmd *cobra.Command) (*favorites.Store, error) {
	port := favorites.FilePersistence{Path: filepath.Join(homeDir, "favorites.json")}
	return favorites.Open(cmd.Context(), port)
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openFavorites(cmd)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), store.List())
		}
		renderWrestlers(cmd.OutOrStdout(), store.List())
		return nil
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Save a wrestler as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openFavorites(cmd)
		if err != nil {
			return err
		}
		w, err := client.Wrestler(cmd.Context(), args[0])
		if errors.Is(err, apiclient.ErrNotFound) {
			return fmt.Errorf("wrestler %s not found", args[0])
		}
		if err != nil {
			return err
		}
		if err := store.Add(cmd.Context(), w); err != nil {
			if errors.Is(err, favorites.ErrDuplicate) {
				return fmt.Errorf("%s is already a favorite", w.Name)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", goodStyle.Render("Added"), w.Name)
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a favorite",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openFavorites(cmd)
		if err != nil {
			return err
		}
		if !store.Contains(args[0]) {
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("Not a favorite: "+args[0]))
			return nil
		}
		if err := store.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", badStyle.Render("Removed"), args[0])
		return nil
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd, favoritesAddCmd, favoritesRemoveCmd)
	rootCmd.AddCommand(favoritesCmd)
}
