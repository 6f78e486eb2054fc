// Package service holds the operations shared by the HTTP API and the MCP
// tool server: ranked search, channel day lookup, playlist listing and the
// two summarizers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"youbuddy/internal/ai"
	"youbuddy/internal/model"
	"youbuddy/internal/ranking"
	"youbuddy/internal/storage"
	"youbuddy/internal/youtube"
)

var (
	// ErrInvalidChannel is returned for channel ids shorter than 5 characters.
	ErrInvalidChannel = errors.New("channel_id must be at least 5 characters")
	// ErrEmptyText is returned when there is nothing to summarize.
	ErrEmptyText = errors.New("request body cannot be empty")
	// ErrSummarizerUnavailable is returned when no generative model is configured.
	ErrSummarizerUnavailable = errors.New("summarizer is not configured")
	// ErrSummarizerFailed wraps failures reported by the generative model.
	ErrSummarizerFailed = errors.New("summary generation failed")
)

// YouTube is the slice of the YouTube client the service needs.
type YouTube interface {
	ranking.Searcher
	ranking.Detailer
	ChannelVideosOn(ctx context.Context, channelID, date string) ([]string, error)
	PlaylistVideos(ctx context.Context, playlistURL string) (model.Playlist, error)
}

// Service wires the pipeline, the YouTube client, the summarizer and the
// optional response cache.
type Service struct {
	yt         YouTube
	pipeline   *ranking.Pipeline
	summarizer ai.Summarizer
	cache      *storage.RedisStore
	defaultN   int
}

// Options configures a Service. Summarizer and Cache may be nil.
type Options struct {
	Ranking        ranking.Options
	DefaultResults int
	Summarizer     ai.Summarizer
	Cache          *storage.RedisStore
}

func New(yt YouTube, opts Options) *Service {
	n := opts.DefaultResults
	if n < 1 || n > opts.Ranking.PoolSize {
		n = min(10, opts.Ranking.PoolSize)
	}
	return &Service{
		yt:         yt,
		pipeline:   ranking.NewPipeline(yt, yt, opts.Ranking),
		summarizer: opts.Summarizer,
		cache:      opts.Cache,
		defaultN:   n,
	}
}

// DefaultResults is the result count used when a caller gives none.
func (s *Service) DefaultResults() int {
	return s.defaultN
}

// MaxResults is the largest accepted result count.
func (s *Service) MaxResults() int {
	return s.pipeline.Options().PoolSize
}

// Search runs the ranking pipeline for query, serving from cache when possible.
// n <= 0 selects the default count.
func (s *Service) Search(ctx context.Context, query string, n int) ([]model.VideoResult, error) {
	if n <= 0 {
		n = s.defaultN
	}
	query = strings.TrimSpace(query)
	if query != "" && n <= s.MaxResults() {
		if cached, ok := s.cache.GetSearch(ctx, query, n); ok {
			slog.Debug("service: search cache hit", "query", query, "n", n)
			return cached, nil
		}
	}
	ranked, err := s.pipeline.Rank(ctx, query, n)
	if err != nil {
		return nil, err
	}
	results := model.Results(ranked)
	s.cache.PutSearch(ctx, query, n, results)
	return results, nil
}

// ChannelVideos lists videos a channel published on date (YYYY-MM-DD, UTC).
func (s *Service) ChannelVideos(ctx context.Context, channelID, date string) ([]string, error) {
	channelID = strings.TrimSpace(channelID)
	if len(channelID) < 5 {
		return nil, ErrInvalidChannel
	}
	return s.yt.ChannelVideosOn(ctx, channelID, strings.TrimSpace(date))
}

// Playlist lists every video of a public playlist.
func (s *Service) Playlist(ctx context.Context, playlistURL string) (model.Playlist, error) {
	return s.yt.PlaylistVideos(ctx, strings.TrimSpace(playlistURL))
}

// SummarizeVideo summarizes one video. Metadata is looked up first so the
// model gets the title and description; a failed lookup only loses context.
func (s *Service) SummarizeVideo(ctx context.Context, videoURL string) (string, error) {
	id, err := youtube.ParseVideoID(videoURL)
	if err != nil {
		return "", err
	}
	if s.summarizer == nil {
		return "", ErrSummarizerUnavailable
	}
	if cached, ok := s.cache.GetSummary(ctx, id); ok {
		slog.Debug("service: summary cache hit", "id", id)
		return cached, nil
	}

	vc := ai.VideoContext{URL: model.WatchURL(id)}
	videos, err := s.yt.VideosByIDs(ctx, []string{id})
	switch {
	case err != nil:
		slog.Warn("service: video metadata lookup failed", "id", id, "err", err)
	case len(videos) == 0:
		slog.Warn("service: video metadata not found", "id", id)
	default:
		vc.Title = videos[0].Title
		vc.ChannelTitle = videos[0].ChannelTitle
		vc.Description = videos[0].Description
	}

	slog.Info("service: summarizing video", "id", id, "title", vc.Title)
	summary, err := s.summarizer.SummarizeVideo(ctx, vc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarizerFailed, err)
	}
	s.cache.PutSummary(ctx, id, summary)
	return summary, nil
}

// FinalSummary merges many per-video summaries into one.
func (s *Service) FinalSummary(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if s.summarizer == nil {
		return "", ErrSummarizerUnavailable
	}
	slog.Info("service: generating final summary", "input_chars", len(text))
	summary, err := s.summarizer.CombineSummaries(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarizerFailed, err)
	}
	return summary, nil
}
