package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidVideoURL is returned when no video id can be extracted.
var ErrInvalidVideoURL = errors.New("invalid YouTube video URL")

var (
	videoIDRe    = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	playlistIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{2,64}$`)
)

// ParseVideoID pulls the 11-char video id from watch, youtu.be, shorts,
// embed and live URLs, or accepts a bare id.
func ParseVideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if videoIDRe.MatchString(raw) {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidVideoURL, raw)
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			switch parts[0] {
			case "shorts", "embed", "live", "v":
				id = parts[1]
			}
		}
	}
	if !videoIDRe.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVideoURL, raw)
	}
	return id, nil
}

// ParsePlaylistID extracts the list= parameter from a playlist URL, or
// accepts a bare playlist id.
func ParsePlaylistID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPlaylistURL)
	}
	if !strings.Contains(raw, "/") && !strings.Contains(raw, "?") {
		if playlistIDRe.MatchString(raw) {
			return raw, nil
		}
		return "", fmt.Errorf("%w: %q", ErrInvalidPlaylistURL, raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPlaylistURL, err)
	}
	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, "youtube.com") {
		return "", fmt.Errorf("%w: %q is not a youtube.com URL", ErrInvalidPlaylistURL, raw)
	}
	id := u.Query().Get("list")
	if !playlistIDRe.MatchString(id) {
		return "", fmt.Errorf("%w: %q has no list parameter", ErrInvalidPlaylistURL, raw)
	}
	return id, nil
}
