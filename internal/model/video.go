package model

// Video is a candidate item joined from a search hit and its details record.
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"` // ISO-8601 as returned upstream
	Description  string `json:"description,omitempty"`
	// nil means the upstream did not report the count.
	ViewCount *int64 `json:"viewCount,omitempty"`
	LikeCount *int64 `json:"likeCount,omitempty"`
}

// URL returns the canonical watch URL for the video.
func (v Video) URL() string {
	return WatchURL(v.ID)
}

// WatchURL builds the canonical watch URL for a video id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ScoredVideo decorates a video with its ranking score.
type ScoredVideo struct {
	Video Video
	Score float64
}

// VideoResult is the wire shape returned by the search endpoint and tool.
type VideoResult struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Description  string `json:"description,omitempty"`
	ViewCount    *int64 `json:"viewCount,omitempty"`
	LikeCount    *int64 `json:"likeCount,omitempty"`
}

// Results converts ranked videos into their wire shape, keeping order.
func Results(ranked []ScoredVideo) []VideoResult {
	out := make([]VideoResult, 0, len(ranked))
	for _, sv := range ranked {
		v := sv.Video
		out = append(out, VideoResult{
			ID:           v.ID,
			URL:          v.URL(),
			Title:        v.Title,
			ChannelTitle: v.ChannelTitle,
			PublishedAt:  v.PublishedAt,
			Description:  v.Description,
			ViewCount:    v.ViewCount,
			LikeCount:    v.LikeCount,
		})
	}
	return out
}

// Playlist is the listing of a public playlist.
type Playlist struct {
	Title     string   `json:"playlist_title"`
	URL       string   `json:"playlist_url"`
	VideoURLs []string `json:"video_urls"`
}
