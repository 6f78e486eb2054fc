// Package digest chains the MCP tools into a Markdown digest: collect the
// videos of a channel day or a playlist, summarize each, combine them.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"youbuddy/internal/mcptools"
)

var (
	// ErrNoSource is returned when neither a channel day nor a playlist is given.
	ErrNoSource = errors.New("digest: need --channel with --date, or --playlist")
	// ErrNoVideos is returned when the source has no videos.
	ErrNoVideos = errors.New("digest: no videos found")
)

// Caller invokes a named tool. *mcptools.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, tool string, args any, out any) error
}

// Request selects the videos a digest covers.
type Request struct {
	ChannelID   string
	Date        string
	PlaylistURL string
	Title       string // optional, may use {.Date} and {.Source}
}

// Builder produces digests through a tool Caller.
type Builder struct {
	Tools       Caller
	Concurrency int
	Now         func() time.Time
}

// Build runs the whole chain. Any failing tool call aborts the build.
func (b *Builder) Build(ctx context.Context, req Request) (Data, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	d := Data{GeneratedAt: now().UTC()}

	switch {
	case strings.TrimSpace(req.PlaylistURL) != "":
		var out mcptools.PlaylistOutput
		if err := b.Tools.Call(ctx, mcptools.ToolPlaylistVideos, mcptools.PlaylistInput{PlaylistURL: req.PlaylistURL}, &out); err != nil {
			return Data{}, err
		}
		d.Source = out.PlaylistTitle
		d.SourceURL = out.PlaylistURL
		d.urls = out.VideoURLs
	case strings.TrimSpace(req.ChannelID) != "" && strings.TrimSpace(req.Date) != "":
		var out mcptools.ChannelDateOutput
		in := mcptools.ChannelDateInput{ChannelID: req.ChannelID, Date: req.Date}
		if err := b.Tools.Call(ctx, mcptools.ToolChannelDateVideos, in, &out); err != nil {
			return Data{}, err
		}
		d.Source = req.ChannelID
		d.SourceURL = "https://www.youtube.com/channel/" + req.ChannelID
		d.Date = req.Date
		d.urls = out.VideoURLs
	default:
		return Data{}, ErrNoSource
	}
	if d.Date == "" {
		d.Date = d.GeneratedAt.Format("2006-01-02")
	}
	if len(d.urls) == 0 {
		return Data{}, fmt.Errorf("%w in %s", ErrNoVideos, d.Source)
	}
	slog.Info("digest: videos collected", "source", d.Source, "videos", len(d.urls))

	videos, err := b.summarizeAll(ctx, d.urls)
	if err != nil {
		return Data{}, err
	}
	d.Videos = videos

	if len(videos) == 1 {
		d.Summary = videos[0].Summary
	} else {
		var out mcptools.SummaryOutput
		if err := b.Tools.Call(ctx, mcptools.ToolFinalSummary, mcptools.FinalSummaryInput{Text: NumberedSummaries(videos)}, &out); err != nil {
			return Data{}, err
		}
		d.Summary = out.Summary
	}

	d.Title = ExpandVars(req.Title, d)
	if strings.TrimSpace(d.Title) == "" {
		d.Title = fmt.Sprintf("%s: %s", d.Source, d.Date)
	}
	return d, nil
}

// summarizeAll summarizes every URL with bounded concurrency, keeping input order.
func (b *Builder) summarizeAll(ctx context.Context, urls []string) ([]Video, error) {
	out := make([]Video, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	limit := b.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			var res mcptools.SummaryOutput
			if err := b.Tools.Call(ctx, mcptools.ToolVideoSummary, mcptools.VideoSummaryInput{VideoURL: u}, &res); err != nil {
				return fmt.Errorf("summarize %s: %w", u, err)
			}
			out[i] = Video{URL: u, Summary: strings.TrimSpace(res.Summary)}
			slog.Info("digest: video summarized", "url", u, "index", i+1, "total", len(urls))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// NumberedSummaries formats per-video summaries as the numbered list the
// final summary tool expects.
func NumberedSummaries(videos []Video) string {
	var b strings.Builder
	for i, v := range videos {
		fmt.Fprintf(&b, "%d. %s\n%s\n\n", i+1, v.URL, v.Summary)
	}
	return strings.TrimSpace(b.String())
}
