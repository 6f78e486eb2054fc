package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"youbuddy/internal/model"
)

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		PublishedAt  string `json:"publishedAt"`
		Title        string `json:"title"`
		Description  string `json:"description"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount *string `json:"viewCount"`
		LikeCount *string `json:"likeCount"`
	} `json:"statistics"`
}

// VideosByIDs loads snippet and statistics for one batch of at most
// MaxPerCall ids. Ids the API does not return are simply absent.
func (c *Client) VideosByIDs(ctx context.Context, ids []string) ([]model.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxPerCall {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(ids), MaxPerCall)
	}
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", strconv.Itoa(MaxPerCall))
	var resp videosResponse
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return nil, err
	}
	out := make([]model.Video, 0, len(resp.Items))
	for _, it := range resp.Items {
		out = append(out, convertVideo(it))
	}
	slog.Debug("youtube: videos batch", "requested", len(ids), "returned", len(out))
	return out, nil
}

// convertVideo maps a videos.list item to our Video model.
func convertVideo(it videoItem) model.Video {
	return model.Video{
		ID:           it.ID,
		Title:        it.Snippet.Title,
		ChannelTitle: it.Snippet.ChannelTitle,
		PublishedAt:  it.Snippet.PublishedAt,
		Description:  it.Snippet.Description,
		ViewCount:    parseCount(it.Statistics.ViewCount),
		LikeCount:    parseCount(it.Statistics.LikeCount),
	}
}

// parseCount turns the API's decimal string into a count. Missing,
// malformed or negative values stay unknown.
func parseCount(s *string) *int64 {
	if s == nil {
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(*s), 10, 64)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
