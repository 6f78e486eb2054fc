package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves canned YouTube responses and records what it was asked.
type fakeAPI struct {
	mu       sync.Mutex
	requests []*http.Request
	handle   func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(context.Background()))
	f.mu.Unlock()
	f.handle(w, r)
}

func newTestClient(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*Client, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{handle: handle}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: 2 * time.Second}), api
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func searchPage(next string, ids ...string) map[string]any {
	items := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]any{
			"id":      map[string]any{"kind": "youtube#video", "videoId": id},
			"snippet": map[string]any{"publishedAt": "2024-01-01T00:00:00Z"},
		})
	}
	return map[string]any{"nextPageToken": next, "items": items}
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.SearchVideoIDs(context.Background(), "cats", 5)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestSearchVideoIDsPaginates(t *testing.T) {
	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "video", r.URL.Query().Get("type"))
		if r.URL.Query().Get("pageToken") == "" {
			page := searchPage("p2", "a", "b")
			page["items"] = append(page["items"].([]map[string]any), map[string]any{
				"id": map[string]any{"kind": "youtube#channel", "channelId": "UCx"},
			})
			writeJSON(w, page)
			return
		}
		writeJSON(w, searchPage("p3", "c", "d", "e"))
	})

	ids, err := c.SearchVideoIDs(context.Background(), "cats", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
	require.Len(t, api.requests, 2)
	assert.Equal(t, "4", api.requests[0].URL.Query().Get("maxResults"))
	assert.Equal(t, "2", api.requests[1].URL.Query().Get("maxResults"))
	assert.Equal(t, "p2", api.requests[1].URL.Query().Get("pageToken"))
}

func TestSearchVideoIDsEmpty(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []any{}})
	})
	ids, err := c.SearchVideoIDs(context.Background(), "nothing", 50)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestUpstreamErrorCarriesStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	})
	_, err := c.SearchVideoIDs(context.Background(), "cats", 5)
	require.Error(t, err)
	code, ok := StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "quotaExceeded", UpstreamMessage(err))
}

func TestTransportErrorHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()
	c := NewClient(Config{APIKey: "k", BaseURL: url})
	_, err := c.VideosByIDs(context.Background(), []string{"a"})
	require.Error(t, err)
	_, ok := StatusCode(err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestVideosByIDs(t *testing.T) {
	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "snippet,statistics", r.URL.Query().Get("part"))
		writeJSON(w, map[string]any{"items": []any{
			map[string]any{
				"id":         "A",
				"snippet":    map[string]any{"title": "Cats", "channelTitle": "Ch", "publishedAt": "2024-01-01T00:00:00Z"},
				"statistics": map[string]any{"viewCount": "1000", "likeCount": "100"},
			},
			map[string]any{
				"id":         "B",
				"snippet":    map[string]any{"title": "Hidden likes", "publishedAt": "2024-01-02T00:00:00Z"},
				"statistics": map[string]any{"viewCount": "12"},
			},
		}})
	})

	videos, err := c.VideosByIDs(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "A,B,C", api.requests[0].URL.Query().Get("id"))

	require.NotNil(t, videos[0].ViewCount)
	assert.Equal(t, int64(1000), *videos[0].ViewCount)
	assert.Equal(t, int64(100), *videos[0].LikeCount)
	assert.Equal(t, "Cats", videos[0].Title)
	assert.Nil(t, videos[1].LikeCount, "absent counts stay unknown")
}

func TestVideosByIDsRejectsOversizedBatch(t *testing.T) {
	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": []any{}})
	})
	ids := make([]string, MaxPerCall+1)
	for i := range ids {
		ids[i] = strconv.Itoa(i)
	}
	_, err := c.VideosByIDs(context.Background(), ids)
	assert.ErrorIs(t, err, ErrBatchTooLarge)
	assert.Empty(t, api.requests)
}

func TestParseCount(t *testing.T) {
	s := func(v string) *string { return &v }
	assert.Nil(t, parseCount(nil))
	assert.Nil(t, parseCount(s("lots")))
	assert.Nil(t, parseCount(s("-3")))
	require.NotNil(t, parseCount(s("0")))
	assert.Equal(t, int64(42), *parseCount(s("42")))
}

func TestChannelVideosOn(t *testing.T) {
	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "UCchannel", q.Get("channelId"))
		assert.Equal(t, "date", q.Get("order"))
		assert.Equal(t, "2024-05-01T00:00:00Z", q.Get("publishedAfter"))
		assert.Equal(t, "2024-05-02T00:00:00Z", q.Get("publishedBefore"))
		item := func(id, published string) map[string]any {
			return map[string]any{
				"id":      map[string]any{"kind": "youtube#video", "videoId": id},
				"snippet": map[string]any{"publishedAt": published},
			}
		}
		if q.Get("pageToken") == "" {
			writeJSON(w, map[string]any{"nextPageToken": "next", "items": []any{
				item("late", "2024-05-01T23:59:59Z"),
				item("garbled", "yesterday"),
			}})
			return
		}
		writeJSON(w, map[string]any{"items": []any{
			item("early", "2024-05-01T00:00:00Z"),
			item("spill", "2024-05-02T00:00:00Z"),
			item("offset", "2024-05-01T22:00:00-05:00"),
		}})
	})

	urls, err := c.ChannelVideosOn(context.Background(), "UCchannel", "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.youtube.com/watch?v=late",
		"https://www.youtube.com/watch?v=early",
	}, urls)
	assert.Len(t, api.requests, 2)
}

func TestChannelVideosOnBadDate(t *testing.T) {
	c, api := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	for _, d := range []string{"2024/05/01", "2024-13-01", "yesterday", ""} {
		_, err := c.ChannelVideosOn(context.Background(), "UCchannel", d)
		assert.ErrorIs(t, err, ErrInvalidDate, d)
	}
	assert.Empty(t, api.requests)
}

func TestPlaylistVideos(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlists":
			assert.Equal(t, "PL123", r.URL.Query().Get("id"))
			writeJSON(w, map[string]any{"items": []any{
				map[string]any{"id": "PL123", "snippet": map[string]any{"title": "Talks"}},
			}})
		case "/playlistItems":
			assert.Equal(t, "contentDetails", r.URL.Query().Get("part"))
			page := r.URL.Query().Get("pageToken")
			var ids []string
			next := ""
			if page == "" {
				ids, next = []string{"v1", "v2"}, "p2"
			} else {
				ids = []string{"v3"}
			}
			items := []any{}
			for _, id := range ids {
				items = append(items, map[string]any{"contentDetails": map[string]any{"videoId": id}})
			}
			writeJSON(w, map[string]any{"nextPageToken": next, "items": items})
		default:
			http.NotFound(w, r)
		}
	})

	pl, err := c.PlaylistVideos(context.Background(), "https://www.youtube.com/playlist?list=PL123")
	require.NoError(t, err)
	assert.Equal(t, "Talks", pl.Title)
	assert.Equal(t, "https://www.youtube.com/playlist?list=PL123", pl.URL)
	assert.Len(t, pl.VideoURLs, 3)
	assert.Equal(t, "https://www.youtube.com/watch?v=v3", pl.VideoURLs[2])
}

func TestPlaylistVideosNotFound(t *testing.T) {
	tests := []struct {
		name      string
		playlists []any
	}{
		{"missing playlist", []any{}},
		{"empty playlist", []any{map[string]any{"id": "PLx", "snippet": map[string]any{"title": "Empty"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/playlists" {
					writeJSON(w, map[string]any{"items": tt.playlists})
					return
				}
				writeJSON(w, map[string]any{"items": []any{}})
			})
			_, err := c.PlaylistVideos(context.Background(), "PLx")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestParsePlaylistID(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc_123", "PLabc_123", true},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&list=PLxyz", "PLxyz", true},
		{"PLbare-id", "PLbare-id", true},
		{"https://www.youtube.com/playlist", "", false},
		{"https://example.com/playlist?list=PL1", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParsePlaylistID(tt.in)
		if !tt.ok {
			assert.ErrorIs(t, err, ErrInvalidPlaylistURL, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseVideoID(t *testing.T) {
	valid := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=42",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"dQw4w9WgXcQ",
	}
	for _, in := range valid {
		id, err := ParseVideoID(in)
		require.NoError(t, err, in)
		assert.Equal(t, "dQw4w9WgXcQ", id, in)
	}
	for _, in := range []string{"", "https://vimeo.com/123", "https://www.youtube.com/watch?v=short", "not a url"} {
		_, err := ParseVideoID(in)
		assert.True(t, errors.Is(err, ErrInvalidVideoURL), fmt.Sprintf("%q", in))
	}
}

func TestDayWindow(t *testing.T) {
	start, end, err := DayWindow("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29T00:00:00Z", start.Format(time.RFC3339))
	assert.Equal(t, "2024-03-01T00:00:00Z", end.Format(time.RFC3339))
	assert.True(t, strings.HasSuffix(end.Location().String(), "UTC"))
}
