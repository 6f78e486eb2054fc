// Package mcptools exposes the service operations as MCP tools and provides
// the client the digest agent uses to call them.
package mcptools

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"youbuddy/internal/model"
	"youbuddy/internal/service"
)

// Tool names.
const (
	ToolSearchVideos      = "search_videos"
	ToolChannelDateVideos = "get_youtube_videos_for_channel_date"
	ToolPlaylistVideos    = "get_playlist_videos"
	ToolVideoSummary      = "get_youtube_video_summary"
	ToolFinalSummary      = "generate_final_summary"
)

type SearchInput struct {
	Query      string `json:"query" jsonschema:"free-text search query"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"number of ranked videos to return, 1 to 50, default 10"`
}

type SearchOutput struct {
	Videos []model.VideoResult `json:"videos"`
}

type ChannelDateInput struct {
	ChannelID string `json:"channel_id" jsonschema:"YouTube channel id, at least 5 characters"`
	Date      string `json:"date" jsonschema:"UTC day in YYYY-MM-DD format"`
}

type ChannelDateOutput struct {
	ChannelID string   `json:"channel_id"`
	Date      string   `json:"date"`
	VideoURLs []string `json:"video_urls"`
}

type PlaylistInput struct {
	PlaylistURL string `json:"playlist_url" jsonschema:"YouTube playlist URL containing a list= parameter"`
}

type PlaylistOutput struct {
	PlaylistTitle string   `json:"playlist_title"`
	PlaylistURL   string   `json:"playlist_url"`
	VideoCount    int      `json:"video_count"`
	VideoURLs     []string `json:"video_urls"`
}

type VideoSummaryInput struct {
	VideoURL string `json:"video_url" jsonschema:"YouTube video URL or id"`
}

type FinalSummaryInput struct {
	Text string `json:"text" jsonschema:"numbered per-video summaries to combine"`
}

type SummaryOutput struct {
	Summary string `json:"summary"`
}

// NewServer creates an MCP server with every tool registered.
func NewServer(svc *service.Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "youbuddy",
		Version: version,
	}, nil)
	RegisterTools(server, svc)
	return server
}

// Handler serves server over streamable HTTP.
func Handler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

// RegisterTools registers all tools backed by svc.
func RegisterTools(server *mcp.Server, svc *service.Service) {
	registerSearch(server, svc)
	registerChannelDate(server, svc)
	registerPlaylist(server, svc)
	registerVideoSummary(server, svc)
	registerFinalSummary(server, svc)
	slog.Info("mcp: tools registered", "count", 5)
}

func registerSearch(server *mcp.Server, svc *service.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSearchVideos,
		Description: "Search YouTube and return videos ranked by like/view ratio and recency, best first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, *SearchOutput, error) {
		videos, err := svc.Search(ctx, input.Query, input.MaxResults)
		if err != nil {
			return nil, nil, err
		}
		return nil, &SearchOutput{Videos: videos}, nil
	})
}

func registerChannelDate(server *mcp.Server, svc *service.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolChannelDateVideos,
		Description: "List the URLs of videos a YouTube channel published on one UTC day.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ChannelDateInput) (*mcp.CallToolResult, *ChannelDateOutput, error) {
		urls, err := svc.ChannelVideos(ctx, input.ChannelID, input.Date)
		if err != nil {
			return nil, nil, err
		}
		return nil, &ChannelDateOutput{ChannelID: input.ChannelID, Date: input.Date, VideoURLs: urls}, nil
	})
}

func registerPlaylist(server *mcp.Server, svc *service.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolPlaylistVideos,
		Description: "List the title and every video URL of a public YouTube playlist.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PlaylistInput) (*mcp.CallToolResult, *PlaylistOutput, error) {
		pl, err := svc.Playlist(ctx, input.PlaylistURL)
		if err != nil {
			return nil, nil, err
		}
		return nil, &PlaylistOutput{
			PlaylistTitle: pl.Title,
			PlaylistURL:   pl.URL,
			VideoCount:    len(pl.VideoURLs),
			VideoURLs:     pl.VideoURLs,
		}, nil
	})
}

func registerVideoSummary(server *mcp.Server, svc *service.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolVideoSummary,
		Description: "Summarize one YouTube video: its main topics, each with a concise summary.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoSummaryInput) (*mcp.CallToolResult, *SummaryOutput, error) {
		summary, err := svc.SummarizeVideo(ctx, input.VideoURL)
		if err != nil {
			return nil, nil, err
		}
		return nil, &SummaryOutput{Summary: summary}, nil
	})
}

func registerFinalSummary(server *mcp.Server, svc *service.Service) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolFinalSummary,
		Description: "Combine numbered per-video summaries into one coherent final summary.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input FinalSummaryInput) (*mcp.CallToolResult, *SummaryOutput, error) {
		summary, err := svc.FinalSummary(ctx, input.Text)
		if err != nil {
			return nil, nil, err
		}
		return nil, &SummaryOutput{Summary: summary}, nil
	})
}
