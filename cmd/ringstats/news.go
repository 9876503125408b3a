package main

import (
	"github.com/spf13/cobra"

	"ringstats-backend/apiclient"
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "Show wrestling news with credibility labels",
	Long: `List articles from the news feed.

Examples:
  ringstats news                       # Latest articles
  ringstats news --tag Confirmed       # Only confirmed stories
  ringstats news --sort top_week -q title`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q := apiclient.ArticleQuery{}
		q.Tag, _ = cmd.Flags().GetString("tag")
		q.SourceID, _ = cmd.Flags().GetInt64("source")
		q.Q, _ = cmd.Flags().GetString("query")
		q.Sort, _ = cmd.Flags().GetString("sort")
		q.Limit, _ = cmd.Flags().GetInt("limit")

		arts, err := client.Articles(cmd.Context(), q)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), arts)
		}
		renderArticles(cmd.OutOrStdout(), arts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newsCmd)
	newsCmd.Flags().String("tag", "", "credibility label: Confirmed, Developing or Rumor")
	newsCmd.Flags().Int64("source", 0, "only articles from this source id")
	newsCmd.Flags().StringP("query", "q", "", "search title and snippet")
	newsCmd.Flags().String("sort", "latest", "latest, top_week or top_all")
	newsCmd.Flags().Int("limit", 20, "maximum number of articles")
}
