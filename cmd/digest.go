package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"youbuddy/internal/config"
	"youbuddy/internal/digest"
	"youbuddy/internal/mcptools"

	"github.com/spf13/cobra"
)

var (
	digestChannel  string
	digestDate     string
	digestPlaylist string
	digestTitle    string
	digestOut      string
	digestTools    []string
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Summarize a channel day or a playlist into a Markdown digest via MCP tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		endpoints := digestTools
		if len(endpoints) == 0 {
			endpoints = cfg.Agent.ToolURLs
		}
		if len(endpoints) == 0 {
			endpoints = []string{fmt.Sprintf("http://localhost:%s/mcp", cfg.Server.Port)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Agent.Timeout))
		defer cancel()

		client, err := mcptools.Dial(ctx, endpoints, version)
		if err != nil {
			return err
		}
		defer client.Close()

		b := &digest.Builder{Tools: client, Concurrency: cfg.Agent.Concurrency}
		d, err := b.Build(ctx, digest.Request{
			ChannelID:   digestChannel,
			Date:        digestDate,
			PlaylistURL: digestPlaylist,
			Title:       digestTitle,
		})
		if err != nil {
			return err
		}
		md, err := digest.Render(d)
		if err != nil {
			return err
		}

		if digestOut == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		}
		if err := os.MkdirAll(filepath.Dir(digestOut), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(digestOut, []byte(md), 0o644); err != nil {
			return err
		}
		slog.Info("digest: written", "file", digestOut, "videos", len(d.Videos))
		return nil
	},
}

func init() {
	digestCmd.Flags().StringVar(&digestChannel, "channel", "", "channel id (with --date)")
	digestCmd.Flags().StringVar(&digestDate, "date", "", "day in YYYY-MM-DD (UTC)")
	digestCmd.Flags().StringVar(&digestPlaylist, "playlist", "", "playlist URL")
	digestCmd.Flags().StringVar(&digestTitle, "title", "", "digest title; supports {.Date} and {.Source}")
	digestCmd.Flags().StringVarP(&digestOut, "out", "o", "", "output file (default stdout)")
	digestCmd.Flags().StringSliceVar(&digestTools, "tools", nil, "MCP endpoint URLs (default agent.tool_urls)")
	digestCmd.MarkFlagsMutuallyExclusive("channel", "playlist")
	rootCmd.AddCommand(digestCmd)
}
