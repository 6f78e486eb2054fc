package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"time"

	"youbuddy/internal/model"
)

// ErrInvalidDate is returned when a target date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

const maxChannelPages = 20

// DayWindow returns the UTC [start, end) window of a YYYY-MM-DD date.
func DayWindow(date string) (time.Time, time.Time, error) {
	if !dateRe.MatchString(date) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	start, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return start, start.AddDate(0, 0, 1), nil
}

// ChannelVideosOn returns watch URLs of the videos a channel published on
// date (UTC calendar day), newest first as the API orders them.
func (c *Client) ChannelVideosOn(ctx context.Context, channelID, date string) ([]string, error) {
	start, end, err := DayWindow(date)
	if err != nil {
		return nil, err
	}
	slog.Info("youtube: channel day lookup", "channel", channelID, "after", start.Format(time.RFC3339), "before", end.Format(time.RFC3339))

	urls := []string{}
	pageToken := ""
	for page := 0; page < maxChannelPages; page++ {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("channelId", channelID)
		params.Set("type", "video")
		params.Set("order", "date")
		params.Set("publishedAfter", start.Format(time.RFC3339))
		params.Set("publishedBefore", end.Format(time.RFC3339))
		params.Set("maxResults", "50")
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}
		var resp searchResponse
		if err := c.get(ctx, "search", params, &resp); err != nil {
			return nil, err
		}
		for _, it := range resp.Items {
			if it.ID.VideoID == "" || it.Snippet.PublishedAt == "" {
				continue
			}
			published, err := time.Parse(time.RFC3339, it.Snippet.PublishedAt)
			if err != nil {
				slog.Warn("youtube: unparseable publish date, skipping", "id", it.ID.VideoID, "published_at", it.Snippet.PublishedAt)
				continue
			}
			published = published.UTC()
			if published.Before(start) || !published.Before(end) {
				slog.Debug("youtube: video outside target day", "id", it.ID.VideoID, "published_at", it.Snippet.PublishedAt)
				continue
			}
			urls = append(urls, model.WatchURL(it.ID.VideoID))
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	slog.Info("youtube: channel day lookup done", "channel", channelID, "date", date, "videos", len(urls))
	return urls, nil
}
