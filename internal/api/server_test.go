package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youbuddy/internal/ai"
	"youbuddy/internal/metrics"
	"youbuddy/internal/ranking"
	"youbuddy/internal/service"
	"youbuddy/internal/youtube"
)

type stubSummarizer struct {
	err error
}

func (s stubSummarizer) SummarizeVideo(_ context.Context, v ai.VideoContext) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "about " + v.Title, nil
}

func (s stubSummarizer) CombineSummaries(_ context.Context, text string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "combined " + text, nil
}

type video struct {
	id, title, published string
	views, likes         string // "" means absent
}

// fakeYouTube serves /search and /videos from a fixed catalogue. A non-zero
// status makes every call fail with it.
func fakeYouTube(t *testing.T, catalogue []video, status int) string {
	t.Helper()
	byID := map[string]video{}
	for _, v := range catalogue {
		byID[v.id] = v
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if status != 0 {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": status, "message": "upstream says no"}})
			return
		}
		switch r.URL.Path {
		case "/search":
			items := []any{}
			for _, v := range catalogue {
				items = append(items, map[string]any{"id": map[string]any{"kind": "youtube#video", "videoId": v.id}})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
		case "/videos":
			items := []any{}
			for _, id := range strings.Split(r.URL.Query().Get("id"), ",") {
				v, ok := byID[id]
				if !ok {
					continue
				}
				stats := map[string]any{}
				if v.views != "" {
					stats["viewCount"] = v.views
				}
				if v.likes != "" {
					stats["likeCount"] = v.likes
				}
				items = append(items, map[string]any{
					"id":         v.id,
					"snippet":    map[string]any{"title": v.title, "channelTitle": "ch", "publishedAt": v.published},
					"statistics": stats,
				})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"not found"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTestServer(t *testing.T, baseURL, apiKey string, sum ai.Summarizer) http.Handler {
	t.Helper()
	yt := youtube.NewClient(youtube.Config{APIKey: apiKey, BaseURL: baseURL, Timeout: 2 * time.Second})
	svc := service.New(yt, service.Options{Ranking: ranking.DefaultOptions(), DefaultResults: 10, Summarizer: sum})
	return NewServer(NewHandler(svc), metrics.New(), nil)
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

var catsCatalogue = []video{
	{id: "A", title: "cat a", published: "2024-01-01T00:00:00Z", views: "1000", likes: "100"},
	{id: "B", title: "cat b", published: "2025-01-01T00:00:00Z", views: "100", likes: "50"},
	{id: "C", title: "missing"},
}

func TestSearchRanksCats(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, catsCatalogue[:2], 0), "key", nil)
	w := do(t, h, http.MethodGet, "/search?query=cats&max_results=10", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0]["id"])
	assert.Equal(t, "https://www.youtube.com/watch?v=B", got[0]["url"])
	assert.Equal(t, "A", got[1]["id"])
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestSearchEmptyResult(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, nil, 0), "key", nil)
	w := do(t, h, http.MethodGet, "/search?query=nothing", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestSearchValidation(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, catsCatalogue, 0), "key", nil)
	for _, target := range []string{
		"/search",
		"/search?query=%20",
		"/search?query=cats&max_results=0",
		"/search?query=cats&max_results=51",
		"/search?query=cats&max_results=many",
	} {
		w := do(t, h, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, target)
		assert.NotEmpty(t, detail(t, w), target)
	}
}

func TestSearchUpstreamErrors(t *testing.T) {
	tests := []struct {
		upstream int
		want     int
	}{
		{http.StatusForbidden, http.StatusForbidden},
		{http.StatusBadRequest, http.StatusBadRequest},
		{http.StatusInternalServerError, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		h := newTestServer(t, fakeYouTube(t, catsCatalogue, tt.upstream), "key", nil)
		w := do(t, h, http.MethodGet, "/search?query=cats", "", "")
		assert.Equal(t, tt.want, w.Code)
		assert.Contains(t, detail(t, w), "upstream says no")
	}
}

func TestMissingAPIKeyIs500(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, catsCatalogue, 0), "", nil)
	w := do(t, h, http.MethodGet, "/search?query=cats", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUnreachableUpstreamIs502(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	h := newTestServer(t, base, "key", nil)
	w := do(t, h, http.MethodGet, "/search?query=cats", "", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestChannelVideosValidation(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, nil, 0), "key", nil)

	w := do(t, h, http.MethodGet, "/videos?channel_id=UCabcdef&date=01-02-2024", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid date format. Please use YYYY-MM-DD.", detail(t, w))

	w = do(t, h, http.MethodGet, "/videos?channel_id=UC1&date=2024-01-02", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodGet, "/videos?channel_id=UCabcdef", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, h, http.MethodGet, "/videos?channel_id=UCabcdef&date=2024-01-02", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"channel_id":"UCabcdef","date":"2024-01-02","video_urls":[]}`, w.Body.String())
}

func TestChannelVideosUpstream404(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, nil, http.StatusNotFound), "key", nil)
	w := do(t, h, http.MethodGet, "/videos?channel_id=UCmissing&date=2024-01-02", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaylistErrors(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, nil, 0), "key", nil)

	w := do(t, h, http.MethodGet, "/playlist/videos?playlist_url=https://www.youtube.com/watch", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/playlist/videos", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// the fake answers /playlists with 404
	w = do(t, h, http.MethodGet, "/playlist/videos?playlist_url=https://www.youtube.com/playlist?list=PLnope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVideoSummary(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, []video{{id: "dQw4w9WgXcQ", title: "Song", published: "2009-10-25T06:57:33Z"}}, 0), "key", stubSummarizer{})

	w := do(t, h, http.MethodPost, "/summary", "application/json", `{"video_url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"summary":"about Song"}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/summary", "application/json", `{"video_url":"https://example.com/x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/summary", "application/json", `{`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSummaryFailures(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, nil, 0), "key", stubSummarizer{err: errors.New("model overloaded")})
	w := do(t, h, http.MethodPost, "/summary", "application/json", `{"video_url":"dQw4w9WgXcQ"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, detail(t, w), "model overloaded")

	h = newTestServer(t, fakeYouTube(t, nil, 0), "key", nil)
	w = do(t, h, http.MethodPost, "/final-summary", "text/plain", "1. a")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestFinalSummary(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, nil, 0), "key", stubSummarizer{})

	w := do(t, h, http.MethodPost, "/final-summary", "text/plain", "1. **A** one")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"summary":"combined 1. **A** one"}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/final-summary", "text/plain", "  ")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, nil, 0), "key", nil)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/", "", "").Code)

	w := do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "youbuddy_http_requests_total")

	w = do(t, h, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestServer(t, fakeYouTube(t, nil, 0), "key", nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
