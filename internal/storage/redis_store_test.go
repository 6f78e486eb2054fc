package storage

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youbuddy/internal/model"
)

func TestKeys(t *testing.T) {
	k := searchKey("Cats  and Dogs", 10)
	assert.True(t, strings.HasPrefix(k, "youbuddy:search:"))
	assert.Equal(t, k, searchKey("cats and dogs", 10), "whitespace and case are normalized")
	assert.NotEqual(t, k, searchKey("cats and dogs", 11))
	assert.Equal(t, "youbuddy:summary:abc", summaryKey("abc"))
}

func TestNilStoreMisses(t *testing.T) {
	var s *RedisStore
	_, ok := s.GetSearch(context.Background(), "q", 1)
	assert.False(t, ok)
	s.PutSummary(context.Background(), "id", "x")
	_, ok = s.GetSummary(context.Background(), "id")
	assert.False(t, ok)
}

func TestUnreachableRedisFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	s := NewRedisStore(rdb, Options{})

	ctx := context.Background()
	s.PutSearch(ctx, "q", 1, []model.VideoResult{{ID: "a"}})
	_, ok := s.GetSearch(ctx, "q", 1)
	assert.False(t, ok)
}

// TestRedisRoundTrip requires a Redis instance on localhost:6379.
func TestRedisRoundTrip(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}
	defer rdb.Close()

	s := NewRedisStore(rdb, Options{SearchTTL: time.Minute, SummaryTTL: time.Minute})
	query := "roundtrip-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	views := int64(7)
	want := []model.VideoResult{{ID: "a", URL: model.WatchURL("a"), ViewCount: &views}}

	s.PutSearch(ctx, query, 3, want)
	got, ok := s.GetSearch(ctx, query, 3)
	require.True(t, ok)
	assert.Equal(t, want, got)

	id := "vid-" + query
	s.PutSummary(ctx, id, "short summary")
	sum, ok := s.GetSummary(ctx, id)
	require.True(t, ok)
	assert.Equal(t, "short summary", sum)

	rdb.Del(ctx, searchKey(query, 3), summaryKey(id))
}
