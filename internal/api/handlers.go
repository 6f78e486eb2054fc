package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"youbuddy/internal/service"
)

// maxTextBody caps the final-summary request body.
const maxTextBody = 4 << 20

// Handler handles HTTP requests for the API
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new API handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

type channelVideosResponse struct {
	ChannelID string   `json:"channel_id"`
	Date      string   `json:"date"`
	VideoURLs []string `json:"video_urls"`
}

type playlistResponse struct {
	PlaylistTitle string   `json:"playlist_title"`
	PlaylistURL   string   `json:"playlist_url"`
	VideoCount    int      `json:"video_count"`
	VideoURLs     []string `json:"video_urls"`
}

type summaryRequest struct {
	VideoURL string `json:"video_url"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func unprocessable(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": detail})
}

// Search handles GET /search
func (h *Handler) Search(c *gin.Context) {
	query, ok := c.GetQuery("query")
	if !ok || strings.TrimSpace(query) == "" {
		unprocessable(c, "query parameter is required")
		return
	}
	n := h.svc.DefaultResults()
	if raw, ok := c.GetQuery("max_results"); ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			unprocessable(c, "max_results must be an integer")
			return
		}
		if v < 1 || v > h.svc.MaxResults() {
			unprocessable(c, "max_results must be between 1 and "+strconv.Itoa(h.svc.MaxResults()))
			return
		}
		n = v
	}

	results, err := h.svc.Search(c.Request.Context(), query, n)
	if err != nil {
		slog.Error("api: search failed", "query", query, "err", err)
		abortWithError(c, err, passthroughUpstream)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ChannelVideos handles GET /videos
func (h *Handler) ChannelVideos(c *gin.Context) {
	channelID := c.Query("channel_id")
	date := c.Query("date")
	if channelID == "" || date == "" {
		unprocessable(c, "channel_id and date query parameters are required")
		return
	}
	urls, err := h.svc.ChannelVideos(c.Request.Context(), channelID, date)
	if err != nil {
		slog.Error("api: channel lookup failed", "channel", channelID, "date", date, "err", err)
		abortWithError(c, err, strictUpstream)
		return
	}
	c.JSON(http.StatusOK, channelVideosResponse{ChannelID: channelID, Date: date, VideoURLs: urls})
}

// PlaylistVideos handles GET /playlist/videos
func (h *Handler) PlaylistVideos(c *gin.Context) {
	playlistURL := c.Query("playlist_url")
	if strings.TrimSpace(playlistURL) == "" {
		unprocessable(c, "playlist_url query parameter is required")
		return
	}
	pl, err := h.svc.Playlist(c.Request.Context(), playlistURL)
	if err != nil {
		slog.Error("api: playlist lookup failed", "url", playlistURL, "err", err)
		abortWithError(c, err, strictUpstream)
		return
	}
	c.JSON(http.StatusOK, playlistResponse{
		PlaylistTitle: pl.Title,
		PlaylistURL:   pl.URL,
		VideoCount:    len(pl.VideoURLs),
		VideoURLs:     pl.VideoURLs,
	})
}

// VideoSummary handles POST /summary
func (h *Handler) VideoSummary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		unprocessable(c, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.VideoURL) == "" {
		unprocessable(c, "video_url is required")
		return
	}
	summary, err := h.svc.SummarizeVideo(c.Request.Context(), req.VideoURL)
	if err != nil {
		slog.Error("api: video summary failed", "url", req.VideoURL, "err", err)
		abortWithError(c, err, strictUpstream)
		return
	}
	c.JSON(http.StatusOK, summaryResponse{Summary: summary})
}

// FinalSummary handles POST /final-summary with a text/plain body
func (h *Handler) FinalSummary(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxTextBody))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "failed to read request body"})
		return
	}
	summary, err := h.svc.FinalSummary(c.Request.Context(), string(body))
	if err != nil {
		slog.Error("api: final summary failed", "err", err)
		abortWithError(c, err, strictUpstream)
		return
	}
	c.JSON(http.StatusOK, summaryResponse{Summary: summary})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
