package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"youbuddy/internal/model"
)

// ErrInvalidPlaylistURL is returned when no playlist id can be extracted.
var ErrInvalidPlaylistURL = errors.New("invalid YouTube playlist URL")

const maxPlaylistPages = 100

type playlistsResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// PlaylistVideos lists every video of a public playlist. Empty, private and
// missing playlists all report ErrNotFound.
func (c *Client) PlaylistVideos(ctx context.Context, playlistURL string) (model.Playlist, error) {
	var zero model.Playlist
	id, err := ParsePlaylistID(playlistURL)
	if err != nil {
		return zero, err
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", id)
	var meta playlistsResponse
	if err := c.get(ctx, "playlists", params, &meta); err != nil {
		return zero, err
	}
	if len(meta.Items) == 0 {
		return zero, fmt.Errorf("%w: playlist %s", ErrNotFound, id)
	}
	title := meta.Items[0].Snippet.Title
	slog.Info("youtube: fetching playlist", "id", id, "title", title, "owner", meta.Items[0].Snippet.ChannelTitle)

	urls := []string{}
	pageToken := ""
	for page := 0; page < maxPlaylistPages; page++ {
		params := url.Values{}
		params.Set("part", "contentDetails")
		params.Set("playlistId", id)
		params.Set("maxResults", "50")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}
		var resp playlistItemsResponse
		if err := c.get(ctx, "playlistItems", params, &resp); err != nil {
			return zero, err
		}
		for _, it := range resp.Items {
			if it.ContentDetails.VideoID == "" {
				continue
			}
			urls = append(urls, model.WatchURL(it.ContentDetails.VideoID))
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	if len(urls) == 0 {
		slog.Warn("youtube: playlist appears empty or inaccessible", "id", id, "title", title)
		return zero, fmt.Errorf("%w: playlist %q is empty or inaccessible", ErrNotFound, title)
	}
	slog.Info("youtube: playlist fetched", "id", id, "videos", len(urls))
	return model.Playlist{
		Title:     title,
		URL:       "https://www.youtube.com/playlist?list=" + id,
		VideoURLs: urls,
	}, nil
}
