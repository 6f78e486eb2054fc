package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	searchCount int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search YouTube and print ranked videos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx := context.Background()
		svc, cleanup := buildService(ctx, cfg, nil)
		defer cleanup()

		results, err := svc.Search(ctx, strings.Join(args, " "), searchCount)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if searchJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		for i, r := range results {
			fmt.Fprintf(out, "%2d. %s\n    %s | %s | %s\n", i+1, r.Title, r.ChannelTitle, r.PublishedAt, r.URL)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchCount, "max-results", "n", 0, "number of results (default from ranking.default_results)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print JSON")
	rootCmd.AddCommand(searchCmd)
}
