package cmd

import (
	"context"
	"log/slog"

	"youbuddy/internal/ai"
	"youbuddy/internal/config"
	"youbuddy/internal/metrics"
	"youbuddy/internal/ranking"
	"youbuddy/internal/redisclient"
	"youbuddy/internal/service"
	"youbuddy/internal/storage"
	"youbuddy/internal/youtube"
)

// buildService wires the YouTube client, summarizer and optional cache. The
// returned func releases the redis connection.
func buildService(ctx context.Context, cfg config.Config, m *metrics.Metrics) (*service.Service, func()) {
	yt := youtube.NewClient(youtube.Config{
		APIKey:  cfg.YouTube.APIKey,
		BaseURL: cfg.YouTube.BaseURL,
		Timeout: config.Duration(cfg.YouTube.Timeout),
		QPS:     cfg.YouTube.QPS,
		Metrics: m,
	})
	if cfg.YouTube.APIKey == "" {
		slog.Warn("youtube: no API key configured, YouTube calls will fail")
	}

	var summarizer ai.Summarizer
	if cfg.OpenAI.APIKey != "" {
		s, err := ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
		if err != nil {
			slog.Warn("openai: summarizer disabled", "err", err)
		} else {
			summarizer = s
		}
	} else {
		slog.Warn("openai: no API key configured, summaries disabled")
	}

	var store *storage.RedisStore
	cleanup := func() {}
	if rdb := redisclient.Connect(ctx, cfg.Redis); rdb != nil {
		store = storage.NewRedisStore(rdb, storage.Options{
			SearchTTL:  config.Duration(cfg.Cache.SearchTTL),
			SummaryTTL: config.Duration(cfg.Cache.SummaryTTL),
			Metrics:    m,
		})
		cleanup = func() { _ = rdb.Close() }
	}

	svc := service.New(yt, service.Options{
		Ranking:        ranking.OptionsFromConfig(cfg.Ranking),
		DefaultResults: cfg.Ranking.DefaultResults,
		Summarizer:     summarizer,
		Cache:          store,
	})
	return svc, cleanup
}
