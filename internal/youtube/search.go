package youtube

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
)

const maxSearchPages = 10

type searchResponse struct {
	NextPageToken string       `json:"nextPageToken"`
	Items         []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		Kind    string `json:"kind"`
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet struct {
		PublishedAt  string `json:"publishedAt"`
		Title        string `json:"title"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
}

// SearchVideoIDs returns up to limit video ids for query in relevance order.
// Pages are requested only until limit ids are collected.
func (c *Client) SearchVideoIDs(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids := make([]string, 0, limit)
	pageToken := ""
	for page := 0; page < maxSearchPages && len(ids) < limit; page++ {
		want := limit - len(ids)
		if want > MaxPerCall {
			want = MaxPerCall
		}
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("q", query)
		params.Set("type", "video")
		params.Set("order", "relevance")
		params.Set("maxResults", strconv.Itoa(want))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}
		var resp searchResponse
		if err := c.get(ctx, "search", params, &resp); err != nil {
			return nil, err
		}
		for _, it := range resp.Items {
			if it.ID.Kind != "youtube#video" || it.ID.VideoID == "" {
				continue
			}
			ids = append(ids, it.ID.VideoID)
			if len(ids) == limit {
				break
			}
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	slog.Info("youtube: search done", "query", query, "ids", len(ids))
	return ids, nil
}
