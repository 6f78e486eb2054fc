package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"youbuddy/internal/metrics"
	"youbuddy/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore caches serialized API responses. Every method fails open: a
// redis error is logged and reported as a miss. A nil store is a valid,
// always-missing cache.
type RedisStore struct {
	rdb        *redis.Client
	searchTTL  time.Duration
	summaryTTL time.Duration
	metrics    *metrics.Metrics
}

// Options controls cache lifetimes.
type Options struct {
	SearchTTL  time.Duration
	SummaryTTL time.Duration
	Metrics    *metrics.Metrics
}

func NewRedisStore(rdb *redis.Client, opts Options) *RedisStore {
	if opts.SearchTTL <= 0 {
		opts.SearchTTL = 15 * time.Minute
	}
	if opts.SummaryTTL <= 0 {
		opts.SummaryTTL = 7 * 24 * time.Hour
	}
	return &RedisStore{rdb: rdb, searchTTL: opts.SearchTTL, summaryTTL: opts.SummaryTTL, metrics: opts.Metrics}
}

func searchKey(query string, n int) string {
	norm := strings.ToLower(strings.Join(strings.Fields(query), " "))
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", norm, n)))
	return "youbuddy:search:" + hex.EncodeToString(sum[:])
}

func summaryKey(videoID string) string {
	return fmt.Sprintf("youbuddy:summary:%s", videoID)
}

// GetSearch returns cached ranked results for query and n.
func (s *RedisStore) GetSearch(ctx context.Context, query string, n int) ([]model.VideoResult, bool) {
	if s == nil {
		return nil, false
	}
	var out []model.VideoResult
	ok := s.getJSON(ctx, "search", searchKey(query, n), &out)
	return out, ok
}

// PutSearch caches ranked results for query and n.
func (s *RedisStore) PutSearch(ctx context.Context, query string, n int, results []model.VideoResult) {
	if s == nil {
		return
	}
	s.setJSON(ctx, searchKey(query, n), results, s.searchTTL)
}

// GetSummary returns a cached video summary.
func (s *RedisStore) GetSummary(ctx context.Context, videoID string) (string, bool) {
	if s == nil {
		return "", false
	}
	var out string
	ok := s.getJSON(ctx, "summary", summaryKey(videoID), &out)
	return out, ok && out != ""
}

// PutSummary caches a video summary.
func (s *RedisStore) PutSummary(ctx context.Context, videoID, summary string) {
	if s == nil || strings.TrimSpace(summary) == "" {
		return
	}
	s.setJSON(ctx, summaryKey(videoID), summary, s.summaryTTL)
}

func (s *RedisStore) getJSON(ctx context.Context, kind, key string, out any) bool {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.metrics.ObserveCache(kind, false)
		return false
	}
	if err != nil {
		slog.Warn("cache: get failed", "key", key, "err", err)
		s.metrics.ObserveCache(kind, false)
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		slog.Warn("cache: corrupt entry", "key", key, "err", err)
		s.metrics.ObserveCache(kind, false)
		return false
	}
	s.metrics.ObserveCache(kind, true)
	return true
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Warn("cache: encode failed", "key", key, "err", err)
		return
	}
	if err := s.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		slog.Warn("cache: set failed", "key", key, "err", err)
	}
}
