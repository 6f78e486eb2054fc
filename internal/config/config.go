package config

import (
	"errors"
	"fmt"
	"time"
)

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json
}

// ServerConfig controls the HTTP listener shared by the API and the MCP endpoint.
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	Port            string `mapstructure:"port"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// RedisConfig holds redis connection settings. An empty Addr disables the cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls response caching TTLs.
type CacheConfig struct {
	SearchTTL  string `mapstructure:"search_ttl"`
	SummaryTTL string `mapstructure:"summary_ttl"`
}

// YouTubeConfig controls the YouTube Data API client.
type YouTubeConfig struct {
	APIKey  string  `mapstructure:"api_key"`
	BaseURL string  `mapstructure:"base_url"`
	Timeout string  `mapstructure:"timeout"` // per outbound call, e.g. "10s"
	QPS     float64 `mapstructure:"qps"`     // 0 disables client-side pacing
}

// RankingConfig holds the tunable constants of the video ranking pipeline.
type RankingConfig struct {
	RatioWeight    float64 `mapstructure:"ratio_weight"`
	RecencyWeight  float64 `mapstructure:"recency_weight"`
	RecencyScale   float64 `mapstructure:"recency_scale"`
	LikesOnlyRatio float64 `mapstructure:"likes_only_ratio"`
	PoolSize       int     `mapstructure:"pool_size"`
	BatchLimit     int     `mapstructure:"batch_limit"`
	DefaultResults int     `mapstructure:"default_results"`
}

// OpenAIConfig points the summarizer at an OpenAI-compatible endpoint.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// AgentConfig lists the MCP endpoints the digest agent loads tools from.
type AgentConfig struct {
	ToolURLs    []string `mapstructure:"tool_urls"`
	Concurrency int      `mapstructure:"concurrency"`
	Timeout     string   `mapstructure:"timeout"`
}

// Config is the top-level configuration structure.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Cache   CacheConfig   `mapstructure:"cache"`
	YouTube YouTubeConfig `mapstructure:"youtube"`
	Ranking RankingConfig `mapstructure:"ranking"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Agent   AgentConfig   `mapstructure:"agent"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "text"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "30s"
	}
	if c.Server.WriteTimeout == "" {
		// summaries can take minutes
		c.Server.WriteTimeout = "330s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Cache.SearchTTL == "" {
		c.Cache.SearchTTL = "15m"
	}
	if c.Cache.SummaryTTL == "" {
		c.Cache.SummaryTTL = "168h"
	}
	if c.YouTube.BaseURL == "" {
		c.YouTube.BaseURL = "https://www.googleapis.com/youtube/v3"
	}
	if c.YouTube.Timeout == "" {
		c.YouTube.Timeout = "10s"
	}
	// Weights are only defaulted together so an explicit 0 for one of them survives.
	if c.Ranking.RatioWeight == 0 && c.Ranking.RecencyWeight == 0 {
		c.Ranking.RatioWeight = 0.6
		c.Ranking.RecencyWeight = 0.4
	}
	if c.Ranking.RecencyScale == 0 {
		c.Ranking.RecencyScale = 1e10
	}
	if c.Ranking.LikesOnlyRatio == 0 {
		c.Ranking.LikesOnlyRatio = 0.01
	}
	if c.Ranking.PoolSize == 0 {
		c.Ranking.PoolSize = 50
	}
	if c.Ranking.BatchLimit == 0 {
		c.Ranking.BatchLimit = 50
	}
	if c.Ranking.DefaultResults == 0 {
		c.Ranking.DefaultResults = 10
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gemini-2.5-flash"
	}
	if c.Agent.Concurrency == 0 {
		c.Agent.Concurrency = 4
	}
	if c.Agent.Timeout == "" {
		c.Agent.Timeout = "15m"
	}
}

// Validate reports settings that would make the ranking pipeline misbehave.
func (c *Config) Validate() error {
	var errs []error
	r := c.Ranking
	if r.PoolSize < 1 || r.PoolSize > 50 {
		errs = append(errs, fmt.Errorf("ranking.pool_size must be in 1..50, got %d", r.PoolSize))
	}
	if r.BatchLimit < 1 || r.BatchLimit > 50 {
		errs = append(errs, fmt.Errorf("ranking.batch_limit must be in 1..50, got %d", r.BatchLimit))
	}
	if r.RatioWeight < 0 || r.RecencyWeight < 0 {
		errs = append(errs, errors.New("ranking weights must not be negative"))
	}
	if r.RecencyScale <= 0 {
		errs = append(errs, fmt.Errorf("ranking.recency_scale must be positive, got %g", r.RecencyScale))
	}
	if r.DefaultResults < 1 || r.DefaultResults > r.PoolSize {
		errs = append(errs, fmt.Errorf("ranking.default_results must be in 1..pool_size, got %d", r.DefaultResults))
	}
	for name, d := range map[string]string{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"cache.search_ttl":        c.Cache.SearchTTL,
		"cache.summary_ttl":       c.Cache.SummaryTTL,
		"youtube.timeout":         c.YouTube.Timeout,
		"agent.timeout":           c.Agent.Timeout,
	} {
		if _, err := time.ParseDuration(d); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Duration parses a duration string that Validate has already checked.
func Duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
