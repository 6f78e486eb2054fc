package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	videosChannel string
	videosDate    string
)

var videosCmd = &cobra.Command{
	Use:   "videos",
	Short: "List videos a channel published on one UTC day",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx := context.Background()
		svc, cleanup := buildService(ctx, cfg, nil)
		defer cleanup()

		urls, err := svc.ChannelVideos(ctx, videosChannel, videosDate)
		if err != nil {
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}

func init() {
	videosCmd.Flags().StringVar(&videosChannel, "channel", "", "channel id")
	videosCmd.Flags().StringVar(&videosDate, "date", "", "day in YYYY-MM-DD (UTC)")
	_ = videosCmd.MarkFlagRequired("channel")
	_ = videosCmd.MarkFlagRequired("date")
	rootCmd.AddCommand(videosCmd)
}
