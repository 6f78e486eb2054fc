package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var playlistCmd = &cobra.Command{
	Use:   "playlist <playlist-url>",
	Short: "List every video of a public playlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx := context.Background()
		svc, cleanup := buildService(ctx, cfg, nil)
		defer cleanup()

		pl, err := svc.Playlist(ctx, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s (%d videos)\n", pl.Title, len(pl.VideoURLs))
		for _, u := range pl.VideoURLs {
			fmt.Fprintln(out, u)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playlistCmd)
}
